// Package main implements panels, a floating panel desktop for the terminal.
// Panels are opened from templates, dragged by their header, resized from
// their corner, and their layout is restored on the next start.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/panels/internal/persist"
)

// Version information, set with -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode   bool
	configPath  string
	backendFlag string
	storagePath string
)

func main() {
	var route string

	rootCmd := &cobra.Command{
		Use:   "panels",
		Short: "Floating panel desktop for the terminal",
		Long: `panels - floating panels for the terminal

Open panels from the menu bar or with the number keys, drag them by their
header, resize them from the bottom right corner and collapse them to their
header. The layout is saved and restored on the next start.`,
		Example: `  # Run panels
  panels

  # Run with debug logging
  panels --debug

  # Keep the layout in SQLite
  panels --backend sqlite

  # Serve over SSH
  panels ssh --port 2222

  # List all keybindings
  panels keybinds list`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(cmd.Context(), route)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default $XDG_CONFIG_HOME/panels/config.toml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Layout storage backend: file, sqlite or memory (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage-path", "", "Layout storage location (overrides the config)")
	rootCmd.Flags().StringVar(&route, "route", "", "Only show templates for this route")

	var sshPort, sshHost, sshKeyPath, sshRoute string
	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve panels over SSH",
		Long: `Serve panels over SSH

Every connection gets its own desktop. Layouts are saved per SSH user. The
host key is generated on first start if it does not exist.`,
		Example: `  # Start SSH server on default port
  panels ssh

  # Connect and open the /admin route
  ssh -p 2222 -t localhost /admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(cmd.Context(), sshHost, sshPort, sshKeyPath, sshRoute)
		},
	}
	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	sshCmd.Flags().StringVar(&sshRoute, "route", "", "Default route for sessions")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print configuration file path",
			RunE:  func(cmd *cobra.Command, args []string) error { return printConfigPath() },
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			Long: `Open the configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
			RunE: func(cmd *cobra.Command, args []string) error { return editConfigFile() },
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Reset configuration to defaults",
			RunE:  func(cmd *cobra.Command, args []string) error { return resetConfigToDefaults() },
		},
	)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}
	keybindsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all keybindings",
			RunE:  func(cmd *cobra.Command, args []string) error { return listKeybindings() },
		},
		&cobra.Command{
			Use:   "list-custom",
			Short: "List keybindings that differ from the defaults",
			RunE:  func(cmd *cobra.Command, args []string) error { return listCustomKeybindings() },
		},
	)

	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "List panel templates",
		RunE:  func(cmd *cobra.Command, args []string) error { return listTemplates() },
	}

	var layoutKey string
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or reset the saved layout",
	}
	layoutCmd.PersistentFlags().StringVar(&layoutKey, "key", "", "Layout key (default from the config)")
	layoutCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the saved layout",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showLayout(cmd.Context(), layoutKey)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Delete the saved layout",
			RunE: func(cmd *cobra.Command, args []string) error {
				return resetLayout(cmd.Context(), layoutKey)
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List saved layout keys (sqlite backend)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listLayoutKeys(cmd.Context())
			},
		},
	)

	rootCmd.AddCommand(sshCmd, configCmd, keybindsCmd, templatesCmd, layoutCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

// storageFlags applies --backend and --storage-path over the config.
func storageFlags(backend, path string) (string, string) {
	if backendFlag != "" {
		backend = backendFlag
	}
	if storagePath != "" {
		path = storagePath
	}
	if backend == "" {
		backend = persist.BackendFile
	}
	return backend, path
}
