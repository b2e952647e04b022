package drag

// Options configures an Engine.
type Options struct {
	// Key tags every Delta so one callback can serve several engines.
	Key string
	// OnMove receives a Delta for every sample after Begin. An engine without
	// OnMove ignores Begin.
	OnMove func(Delta)
	// OnEnd is called once when the gesture ends.
	OnEnd func()
	// Source delivers motion and release after Begin. Optional.
	Source Source
	// Guard is acquired for the duration of the session. Optional.
	Guard *Guard
}

// Engine turns a stream of samples into relative deltas. It has no timeout
// and no separate cancel path: a session ends only through End.
type Engine struct {
	opts     Options
	last     Sample
	dragging bool
	cancel   func()
}

// NewEngine returns an idle engine.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Begin starts a session at s. It reports false when a session is already
// active or no move callback is configured.
func (e *Engine) Begin(s Sample) bool {
	if e.dragging || e.opts.OnMove == nil {
		return false
	}

	e.last = s
	e.dragging = true

	if e.opts.Guard != nil {
		e.opts.Guard.Acquire()
	}
	if e.opts.Source != nil {
		e.cancel = e.opts.Source.Subscribe(e)
	}
	return true
}

// Move reports the offset from the previous sample and records s.
func (e *Engine) Move(s Sample) {
	if e.opts.OnMove == nil || !e.dragging {
		return
	}

	d := Delta{
		OffsetX: s.X - e.last.X,
		OffsetY: s.Y - e.last.Y,
		Key:     e.opts.Key,
	}
	e.last = s
	e.opts.OnMove(d)
}

// Up ends the session. It lets an Engine be attached to a Source directly.
func (e *Engine) Up() {
	e.End()
}

// End detaches from the source, runs OnEnd and releases the guard. Calling
// End on an idle engine does nothing.
func (e *Engine) End() {
	if !e.dragging {
		return
	}

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.dragging = false

	if e.opts.OnEnd != nil {
		e.opts.OnEnd()
	}
	if e.opts.Guard != nil {
		e.opts.Guard.Release()
	}
}

// Active reports whether a session is in progress.
func (e *Engine) Active() bool {
	return e.dragging
}

// Last returns the most recent sample.
func (e *Engine) Last() Sample {
	return e.last
}
