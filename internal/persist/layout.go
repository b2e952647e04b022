// Package persist stores the desktop layout between runs.
//
// A layout is encoded as a single JSON blob and written under a key to one
// of several backends: a file, a SQLite database, or memory.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultKey is the storage key the desktop layout is written under.
const DefaultKey = "layout"

// ErrNotFound is returned by Storage.Read when nothing is stored under a key.
var ErrNotFound = errors.New("layout not found")

// Record is one persisted panel instance.
type Record struct {
	ID           string            `json:"id"`
	Template     string            `json:"template"`
	Title        string            `json:"title,omitempty"`
	X            int               `json:"x"`
	Y            int               `json:"y"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	Placed       bool              `json:"placed"`
	HiddenWindow bool              `json:"hidden_window"`
	Props        map[string]string `json:"props,omitempty"`
}

// Layout is the persisted desktop: panels in list order, the stacking
// order back to front, and the focused id.
type Layout struct {
	Panels []Record `json:"panels"`
	Order  []string `json:"order"`
	Focus  string   `json:"focus,omitempty"`
}

// Storage reads and writes opaque blobs.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Encode serializes l.
func Encode(l Layout) ([]byte, error) {
	if l.Panels == nil {
		l.Panels = []Record{}
	}
	if l.Order == nil {
		l.Order = []string{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// Decode parses a blob written by Encode.
func Decode(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// Load reads and decodes the layout stored under key.
func Load(ctx context.Context, s Storage, key string) (Layout, error) {
	data, err := s.Read(ctx, key)
	if err != nil {
		return Layout{}, err
	}
	return Decode(data)
}

// Save encodes l and writes it under key.
func Save(ctx context.Context, s Storage, key string, l Layout) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}
	return s.Write(ctx, key, data)
}

// Repair drops records that keep fails and fixes Order and Focus so that
// Order is a permutation of the remaining ids and Focus names one of them.
// Duplicate record ids keep their first occurrence.
func Repair(l Layout, keep func(Record) bool) Layout {
	out := Layout{Panels: []Record{}, Order: []string{}}
	live := make(map[string]bool)

	for _, r := range l.Panels {
		if r.ID == "" || live[r.ID] {
			continue
		}
		if keep != nil && !keep(r) {
			continue
		}
		live[r.ID] = true
		out.Panels = append(out.Panels, r)
	}

	ordered := make(map[string]bool)
	for _, id := range l.Order {
		if live[id] && !ordered[id] {
			ordered[id] = true
			out.Order = append(out.Order, id)
		}
	}
	// Panels missing from the stored order go on top, in list order.
	for _, r := range out.Panels {
		if !ordered[r.ID] {
			out.Order = append(out.Order, r.ID)
		}
	}

	if live[l.Focus] {
		out.Focus = l.Focus
	}
	return out
}
