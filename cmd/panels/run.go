package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/adrg/xdg"

	"github.com/Gaurav-Gosain/panels/internal/app"
	"github.com/Gaurav-Gosain/panels/internal/config"
	"github.com/Gaurav-Gosain/panels/internal/input"
	"github.com/Gaurav-Gosain/panels/internal/persist"
	"github.com/Gaurav-Gosain/panels/internal/server"
	"github.com/Gaurav-Gosain/panels/internal/theme"
)

// filterMouseMotion drops pointer motion unless a drag is running.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	d, ok := model.(*app.Desktop)
	if !ok || d.Guard.Active() {
		return msg
	}
	return nil
}

// resolveConfigPath returns --config or the XDG default.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// loadConfig reads the configuration and applies its theme. Errors fall
// back to the defaults.
func loadConfig() (*config.UserConfig, string) {
	cfg, path := readConfig()
	if err := theme.Initialize(cfg.Appearance.Theme); err != nil {
		log.Warn("theme", "err", err)
	}
	return cfg, path
}

func readConfig() (*config.UserConfig, string) {
	path, err := resolveConfigPath()
	if err != nil {
		log.Warn("using default configuration", "err", err)
		return config.DefaultConfig(), ""
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		log.Warn("using default configuration", "path", path, "err", err)
		return config.DefaultConfig(), path
	}
	return cfg, path
}

// openDebugLog opens $XDG_STATE_HOME/panels/debug.log when --debug is set.
func openDebugLog() (io.WriteCloser, log.Level, error) {
	if !debugMode {
		return nil, log.InfoLevel, nil
	}
	path, err := xdg.StateFile(filepath.Join("panels", "debug.log"))
	if err != nil {
		return nil, log.DebugLevel, fmt.Errorf("resolve debug log path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, log.DebugLevel, fmt.Errorf("open debug log: %w", err)
	}
	return f, log.DebugLevel, nil
}

func openStorage(ctx context.Context, cfg *config.UserConfig) (persist.Storage, error) {
	backend, path := storageFlags(cfg.Storage.Backend, cfg.Storage.Path)
	st, err := persist.Open(ctx, backend, path)
	if err != nil {
		return nil, fmt.Errorf("open %s layout storage: %w", backend, err)
	}
	return st, nil
}

func runLocal(ctx context.Context, route string) error {
	cfg, cfgPath := loadConfig()

	logFile, level, err := openDebugLog()
	if err != nil {
		return err
	}
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	opts := []app.Option{
		app.WithStorage(st, cfg.Storage.Key),
		app.WithRoute(route),
		app.WithInputHandler(input.HandleInput),
		app.WithLogLevel(level),
	}
	if logFile != nil {
		opts = append(opts, app.WithLogWriter(logFile))
	}
	d, err := app.New(cfg, opts...)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		d.Logger.Debug("configuration", "path", cfgPath)
	}

	p := tea.NewProgram(d,
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
		tea.WithFilter(filterMouseMotion),
	)

	if cfgPath != "" {
		w, err := config.NewWatcher(cfgPath,
			func(c *config.UserConfig) { p.Send(app.ConfigReloadedMsg{Config: c}) },
			func(err error) { d.Logger.Warn("config reload failed", "err", err) },
		)
		if err != nil {
			d.Logger.Warn("config watcher disabled", "err", err)
		} else {
			if err := w.Start(); err != nil {
				d.Logger.Warn("config watcher disabled", "err", err)
			}
			defer func() { _ = w.Close() }()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	_, runErr := p.Run()
	d.Close()
	if runErr != nil {
		restoreTerminal(os.Stdout)
		return fmt.Errorf("program error: %w", runErr)
	}
	return nil
}

func runSSHServer(ctx context.Context, host, port, keyPath, route string) error {
	cfg, _ := loadConfig()

	logFile, level, err := openDebugLog()
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "panels",
		Level:           level,
	})
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &server.SSHServerConfig{
		Host:    host,
		Port:    port,
		KeyPath: keyPath,
		Route:   route,
		Config:  cfg,
		Storage: st,
		Logger:  logger,
	}
	if logFile != nil {
		srv.LogWriter = logFile
	}
	if err := server.StartSSHServer(ctx, srv); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}
