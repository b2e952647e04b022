// Package server serves the panel desktop over SSH. Every session gets its
// own desktop and store; layouts are saved per user in shared storage.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/ssh"

	"github.com/Gaurav-Gosain/panels/internal/app"
	"github.com/Gaurav-Gosain/panels/internal/config"
	"github.com/Gaurav-Gosain/panels/internal/input"
	"github.com/Gaurav-Gosain/panels/internal/persist"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	// Route is the route every session starts on.
	Route string
	// Config is shared by every session. Nil loads the user config.
	Config *config.UserConfig
	// Storage holds the per-user layouts. Nil keeps layouts in memory.
	Storage persist.Storage
	Logger  *log.Logger
	// LogWriter receives a copy of every session's log. Optional.
	LogWriter io.Writer
}

// DefaultHostKeyPath returns $XDG_DATA_HOME/panels/ssh_host_key.
func DefaultHostKeyPath() (string, error) {
	path, err := xdg.DataFile(filepath.Join("panels", "ssh_host_key"))
	if err != nil {
		return "", fmt.Errorf("resolve host key path: %w", err)
	}
	return path, nil
}

// LayoutKey is the storage key for a user's layout.
func LayoutKey(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		user = "anonymous"
	}
	return "ssh-" + user
}

// StartSSHServer runs the server until ctx is cancelled.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Config == nil {
		userConfig, err := config.LoadUserConfig()
		if err != nil {
			cfg.Logger.Warn("using default configuration", "err", err)
			userConfig = config.DefaultConfig()
		}
		cfg.Config = userConfig
	}
	if cfg.Storage == nil {
		cfg.Storage = persist.NewMemoryStorage()
	}

	hostKeyPath := cfg.KeyPath
	if hostKeyPath == "" {
		p, err := DefaultHostKeyPath()
		if err != nil {
			return err
		}
		hostKeyPath = p
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(cfg.teaHandler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("create SSH server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		cfg.Logger.Info("starting SSH server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("SSH server: %w", err)
	case <-ctx.Done():
	}

	cfg.Logger.Info("shutting down SSH server")
	return server.Shutdown(context.Background())
}

// teaHandler creates a desktop for each SSH session. The desktop is closed,
// and its layout written, when the session ends.
func (cfg *SSHServerConfig) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, active := sess.Pty(); !active {
		wish.Fatalln(sess, "panels needs an interactive terminal, try ssh -t")
		return nil, nil
	}

	route := cfg.Route
	if cmd := sess.Command(); len(cmd) > 0 {
		route = cmd[0]
	}

	opts := []app.Option{
		app.WithStorage(cfg.Storage, LayoutKey(sess.User())),
		app.WithRoute(route),
		app.WithInputHandler(input.HandleInput),
	}
	if cfg.LogWriter != nil {
		opts = append(opts, app.WithLogWriter(cfg.LogWriter))
	}
	d, err := app.New(cfg.Config, opts...)
	if err != nil {
		wish.Fatalln(sess, err)
		return nil, nil
	}
	d.Logger = d.Logger.With("user", sess.User())

	go func() {
		<-sess.Context().Done()
		d.Close()
	}()

	return d, nil
}
