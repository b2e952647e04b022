package app

import "github.com/Gaurav-Gosain/panels/internal/registry"

// BuiltinTemplates are registered before the templates from the config.
func BuiltinTemplates() []registry.Template {
	return []registry.Template{
		{
			Name:          "help",
			Title:         "Keys",
			Content:       "help",
			DefaultWidth:  48,
			DefaultHeight: 22,
			Options: registry.Options{
				Single:       true,
				IsModal:      true,
				Resizable:    registry.Bool(false),
				HeaderBorder: true,
			},
		},
		{
			Name:          "log",
			Title:         "Log",
			Content:       "log",
			DefaultWidth:  70,
			DefaultHeight: 12,
			Options:       registry.Options{Single: true, Scrollable: registry.Bool(false)},
		},
		{
			Name:          "sysinfo",
			Title:         "System",
			Content:       "sysinfo",
			MinHeight:     3,
			DefaultWidth:  32,
			DefaultHeight: 5,
			Options:       registry.Options{Group: "monitor", BackgroundOpacity: 0.8},
		},
		{
			Name:          "clock",
			Title:         "Clock",
			Content:       "clock",
			MinWidth:      16,
			MinHeight:     1,
			DefaultWidth:  16,
			DefaultHeight: 3,
			Options:       registry.Options{Group: "monitor"},
		},
		{
			Name:          "geometry",
			Title:         "Geometry",
			Content:       "geometry",
			DefaultWidth:  30,
			DefaultHeight: 6,
		},
	}
}
