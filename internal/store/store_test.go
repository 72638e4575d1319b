package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db_config.json")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestOpen_MissingFile(t *testing.T) {
	s, _ := newStore(t)
	assert.Empty(t, s.List())
	_, ok := s.Last()
	assert.False(t, ok)
}

func TestOpen_MalformedFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, s.List())

	require.NoError(t, s.Add(Entry{Path: "/tmp/a.db", Name: "a", Color: Blue}))
	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, reopened.List(), 1)
}

func TestAdd_ReplacesSamePath(t *testing.T) {
	s, path := newStore(t)

	require.NoError(t, s.Add(Entry{Path: "/data/a.db", Name: "a", Color: Green}))
	require.NoError(t, s.Add(Entry{Path: "/data/b.db", Name: "b", Color: Red}))
	require.NoError(t, s.Add(Entry{Path: "/data/a.db", Name: "renamed", Color: Cyan}))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name)
	assert.Equal(t, Entry{Path: "/data/a.db", Name: "renamed", Color: Cyan}, list[1])

	got, ok := s.Get("/data/a.db")
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Name)

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, list, reopened.List())
}

func TestRemove(t *testing.T) {
	s, _ := newStore(t)
	e := Entry{Path: "/data/a.db", Name: "a", Color: Green}
	require.NoError(t, s.Add(e))
	require.NoError(t, s.SetLast(e))

	require.NoError(t, s.Remove("/data/missing.db"))
	assert.Len(t, s.List(), 1)

	require.NoError(t, s.Remove("/data/a.db"))
	assert.Empty(t, s.List())
	_, ok := s.Last()
	assert.False(t, ok, "removing the last database clears last_connected")
}

func TestLast_Persisted(t *testing.T) {
	s, path := newStore(t)
	e := Entry{Path: "/data/a.db", Name: "a", Color: Yellow}
	require.NoError(t, s.SetLast(e))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, ok := reopened.Last()
	require.True(t, ok)
	assert.Equal(t, e, got)

	require.NoError(t, reopened.ClearLast())
	_, ok = reopened.Last()
	assert.False(t, ok)
}

func TestFileFormat(t *testing.T) {
	s, path := newStore(t)
	e := Entry{Path: "/data/a.db", Name: "a", Color: Magenta}
	require.NoError(t, s.Add(e))
	require.NoError(t, s.SetLast(e))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "saved_databases")
	assert.Contains(t, raw, "last_connected")

	saved := raw["saved_databases"].([]any)
	first := saved[0].(map[string]any)
	assert.Equal(t, "/data/a.db", first["path"])
	assert.Equal(t, "a", first["name"])
	assert.Equal(t, float64(5), first["color"])
}

func TestReadsFileWithNullLast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_config.json")
	content := `{"saved_databases": [{"path": "x.db", "name": "x", "color": 3}], "last_connected": null}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: "x.db", Name: "x", Color: Green}}, s.List())
	_, ok := s.Last()
	assert.False(t, ok)
}

func TestColor(t *testing.T) {
	assert.True(t, Green.Valid())
	assert.False(t, Color(4).Valid())
	assert.Equal(t, DefaultColor, Color(42).OrDefault())
	assert.Equal(t, Red, Red.OrDefault())
	assert.Equal(t, "Cyan", Cyan.String())
	assert.Len(t, Palette, 6)
}
