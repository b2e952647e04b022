package persist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLayout() Layout {
	return Layout{
		Panels: []Record{
			{ID: "a", Template: "sysinfo", X: 1, Y: 2, Width: 40, Height: 12, Placed: true},
			{ID: "b", Template: "note", Title: "todo", X: 50, Y: 3, Width: 30, Height: 9,
				HiddenWindow: true, Props: map[string]string{"text": "hello"}},
		},
		Order: []string{"b", "a"},
		Focus: "a",
	}
}

func TestEncodeFieldNames(t *testing.T) {
	data, err := Encode(sampleLayout())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "panels")
	assert.Contains(t, raw, "order")
	assert.Equal(t, "a", raw["focus"])

	first := raw["panels"].([]any)[0].(map[string]any)
	for _, k := range []string{"id", "template", "x", "y", "width", "height", "placed", "hidden_window"} {
		assert.Contains(t, first, k)
	}
}

func TestEncodeEmptyLayout(t *testing.T) {
	data, err := Encode(Layout{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"panels":[],"order":[]}`, string(data))
}

func TestRepair(t *testing.T) {
	in := Layout{
		Panels: []Record{
			{ID: "a", Template: "keep"},
			{ID: "b", Template: "drop"},
			{ID: "c", Template: "keep"},
			{ID: "a", Template: "keep"},
			{ID: "", Template: "keep"},
		},
		Order: []string{"c", "b", "ghost", "c"},
		Focus: "b",
	}

	got := Repair(in, func(r Record) bool { return r.Template == "keep" })

	ids := make([]string, 0, len(got.Panels))
	for _, r := range got.Panels {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, []string{"c", "a"}, got.Order)
	assert.Empty(t, got.Focus, "focus on a dropped record must be cleared")
}

func TestRepairKeepsValidFocus(t *testing.T) {
	got := Repair(sampleLayout(), nil)
	assert.Equal(t, sampleLayout(), got)
}

func roundTrip(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Read(ctx, DefaultKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Save(ctx, s, DefaultKey, sampleLayout()))
	got, err := Load(ctx, s, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, sampleLayout(), got)

	next := sampleLayout()
	next.Focus = "b"
	require.NoError(t, Save(ctx, s, DefaultKey, next))
	got, err = Load(ctx, s, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Focus)

	require.NoError(t, Save(ctx, s, "other", Layout{}))
	got, err = Load(ctx, s, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Focus, "keys must not overwrite each other")

	require.NoError(t, s.Delete(ctx, DefaultKey))
	_, err = s.Read(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx, DefaultKey), "deleting a missing key is not an error")
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	s := NewMemoryStorage()
	roundTrip(t, s)
	assert.Equal(t, 3, s.Writes())
}

func TestFileStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(filepath.Join(dir, "nested", "layout.json"))
	require.NoError(t, err)
	defer s.Close()

	roundTrip(t, s)

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temp files must not be left behind")
	}
}

func TestFileStorageCorruptBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileStorage(path)
	require.NoError(t, err)

	_, err = Load(context.Background(), s, DefaultKey)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "layout.db")

	s, err := NewSQLiteStorage(ctx, path)
	require.NoError(t, err)
	roundTrip(t, s)

	require.NoError(t, Save(ctx, s, DefaultKey, sampleLayout()))
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{DefaultKey, "other"}, keys)
	require.NoError(t, s.Close())

	// Data survives reopening the database.
	s, err = NewSQLiteStorage(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := Load(ctx, s, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, sampleLayout(), got)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), "etcd", "")
	assert.Error(t, err)

	s, err := Open(context.Background(), BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)
}
