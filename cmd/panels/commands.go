package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/colorprofile"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/panels/internal/app"
	"github.com/Gaurav-Gosain/panels/internal/config"
	"github.com/Gaurav-Gosain/panels/internal/persist"
	"github.com/Gaurav-Gosain/panels/internal/registry"
	"github.com/Gaurav-Gosain/panels/internal/theme"
)

// stdout downsamples colors to what the terminal supports.
func stdout() io.Writer {
	return colorprofile.NewWriter(os.Stdout, os.Environ())
}

// tableWidth returns the terminal width, or 0 when stdout is not a terminal.
func tableWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	keyStyle := cellStyle.Foreground(theme.CLITableKey())

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			}
			return cellStyle
		})
	if w := tableWidth(); w > 0 {
		t = t.Width(min(w, 100))
	}
	return t
}

func title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Render(s)
}

func dim(s string) string {
	return lipgloss.NewStyle().Foreground(theme.CLITableDim()).Italic(true).Render(s)
}

func printConfigPath() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func editConfigFile() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if _, err := config.LoadFrom(path); err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return errors.New("no editor found, set $EDITOR")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

func resetConfigToDefaults() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("This will overwrite %s\nReset to defaults? (yes/no): ", path)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "yes" && answer != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Configuration reset to defaults\n  Location: %s\n", path)
	return nil
}

func listKeybindings() error {
	cfg, _ := loadConfig()
	keys := config.NewKeybindRegistry(cfg)
	out := stdout()

	fmt.Fprintln(out)
	for _, section := range config.GetKeybindings(keys) {
		t := newTable("Keys", "Action")
		for _, b := range section.Bindings {
			t = t.Row(b.Key, b.Description)
		}
		fmt.Fprintln(out, title(section.Title))
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out)
	}
	return nil
}

// Customization is a keybinding that differs from the default.
type Customization struct {
	Action      string
	DefaultKeys string
	CustomKeys  string
}

func findCustomizations(user, def *config.UserConfig) []Customization {
	var out []Customization
	compare := func(userSection, defSection map[string][]string) {
		for action, defKeys := range defSection {
			userKeys, ok := userSection[action]
			if !ok || slices.Equal(userKeys, defKeys) {
				continue
			}
			name := config.ActionDescriptions[action]
			if name == "" {
				name = strings.ReplaceAll(action, "_", " ")
			}
			out = append(out, Customization{
				Action:      name,
				DefaultKeys: strings.Join(defKeys, ", "),
				CustomKeys:  strings.Join(userKeys, ", "),
			})
		}
	}
	compare(user.Keybindings.Panels, def.Keybindings.Panels)
	compare(user.Keybindings.Gestures, def.Keybindings.Gestures)
	compare(user.Keybindings.System, def.Keybindings.System)

	slices.SortFunc(out, func(a, b Customization) int { return strings.Compare(a.Action, b.Action) })
	return out
}

func listCustomKeybindings() error {
	cfg, _ := loadConfig()
	custom := findCustomizations(cfg, config.DefaultConfig())
	out := stdout()

	if len(custom) == 0 {
		fmt.Fprintln(out, dim("No custom keybindings configured."))
		return nil
	}

	t := newTable("Action", "Default", "Custom")
	for _, c := range custom {
		t = t.Row(c.Action, c.DefaultKeys, c.CustomKeys)
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintln(out, dim(fmt.Sprintf("%d customized keybinding(s)", len(custom))))
	return nil
}

func templateFlags(t registry.Template) string {
	var flags []string
	o := t.Options
	if o.Single {
		flags = append(flags, "single")
	}
	if o.Group != "" {
		flags = append(flags, "group:"+o.Group)
	}
	if o.IsModal {
		flags = append(flags, "modal")
	}
	if o.RemoveOnWindowClose {
		flags = append(flags, "transient")
	}
	if !o.CanResize() {
		flags = append(flags, "fixed")
	}
	if !o.CanClose() {
		flags = append(flags, "pinned")
	}
	if o.Pathname != "" {
		flags = append(flags, "route:"+o.Pathname)
	}
	if o.HiddenInMenu {
		flags = append(flags, "hidden")
	}
	return strings.Join(flags, " ")
}

func listTemplates() error {
	cfg, _ := loadConfig()
	reg := registry.New()
	if err := reg.Register(app.BuiltinTemplates()...); err != nil {
		return err
	}
	if err := reg.Register(cfg.Templates()...); err != nil {
		return err
	}

	t := newTable("Name", "Content", "Size", "Options")
	for _, tmpl := range reg.All() {
		size := strconv.Itoa(tmpl.DefaultWidth) + "×" + strconv.Itoa(tmpl.DefaultHeight)
		t = t.Row(tmpl.Name, tmpl.Content, size, templateFlags(tmpl))
	}
	out := stdout()
	fmt.Fprintln(out, t.Render())
	return nil
}

func layoutStorage(ctx context.Context, key string) (persist.Storage, string, error) {
	cfg, _ := loadConfig()
	st, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	if key == "" {
		key = cfg.Storage.Key
	}
	if key == "" {
		key = persist.DefaultKey
	}
	return st, key, nil
}

func showLayout(ctx context.Context, key string) error {
	st, key, err := layoutStorage(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	out := stdout()
	layout, err := persist.Load(ctx, st, key)
	if errors.Is(err, persist.ErrNotFound) {
		fmt.Fprintln(out, dim("No layout saved under "+strconv.Quote(key)+"."))
		return nil
	}
	if err != nil {
		return err
	}

	t := newTable("Template", "Title", "Position", "Size", "State")
	for _, r := range layout.Panels {
		var state []string
		if r.ID == layout.Focus {
			state = append(state, "focused")
		}
		if r.HiddenWindow {
			state = append(state, "collapsed")
		}
		if pos := slices.Index(layout.Order, r.ID); pos >= 0 {
			state = append(state, "z"+strconv.Itoa(pos))
		}
		position, size := "auto", "auto"
		if r.Placed {
			position = fmt.Sprintf("%d,%d", r.X, r.Y)
			size = fmt.Sprintf("%d×%d", r.Width, r.Height)
		}
		t = t.Row(r.Template, r.Title, position, size, strings.Join(state, " "))
	}
	fmt.Fprintln(out, title("Layout "+strconv.Quote(key)))
	fmt.Fprintln(out, t.Render())
	return nil
}

func resetLayout(ctx context.Context, key string) error {
	st, key, err := layoutStorage(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Delete(ctx, key); err != nil && !errors.Is(err, persist.ErrNotFound) {
		return fmt.Errorf("delete layout: %w", err)
	}
	fmt.Printf("Layout %q removed\n", key)
	return nil
}

// keyLister is implemented by backends that can enumerate their keys.
type keyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

func listLayoutKeys(ctx context.Context) error {
	st, _, err := layoutStorage(ctx, "")
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	kl, ok := st.(keyLister)
	if !ok {
		return errors.New("this storage backend cannot list keys, use --backend sqlite")
	}
	keys, err := kl.Keys(ctx)
	if err != nil {
		return err
	}
	out := stdout()
	for _, k := range keys {
		fmt.Fprintln(out, k)
	}
	return nil
}
