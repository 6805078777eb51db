package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestLoadFormats(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.toml", "[typing]\ntype_speed = \"40\"\nloop = true\nstrings = [\"a\", \"b\"]\n")
	memfs.AddFile("/c.yaml", "typing:\n  type_speed: \"40\"\n  loop: true\n  strings: [a, b]\n")
	memfs.AddFile("/c.json", `{"typing": {"type_speed": "40", "loop": true, "strings": ["a", "b"]}}`)

	want := map[string]any{
		"type_speed": "40",
		"loop":       true,
		"strings":    []any{"a", "b"},
	}
	for _, path := range []string{"/c.toml", "/c.yaml", "/c.json"} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			config, err := NewFileLoaderWithFS(memfs, path).Load()
			require.NoError(t, err)
			typing, ok := config["typing"].(map[string]any)
			require.True(t, ok)
			if diff := cmp.Diff(want, typing); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadNonExistent(t *testing.T) {
	config, err := NewFileLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestLoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[typing\n")
	memfs.AddFile("/bad.yaml", "typing: [\n")
	memfs.AddFile("/bad.json", `{"typing":`)
	memfs.AddFile("/list.json", `[1, 2]`)

	for _, path := range []string{"/bad.toml", "/bad.yaml", "/bad.json", "/list.json"} {
		_, err := NewFileLoaderWithFS(memfs, path).Load()
		var perr *ParseError
		require.ErrorAs(t, err, &perr, path)
		assert.Equal(t, path, perr.Path)
	}

	memfs.AddFile("/c.ini", "x=1")
	_, err := NewFileLoaderWithFS(memfs, "/c.ini").Load()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadEmptyFile(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/empty.yaml", "")
	config, err := NewFileLoaderWithFS(memfs, "/empty.yaml").Load()
	require.NoError(t, err)
	assert.Empty(t, config)
	assert.NotNil(t, config)
}

func TestLoadWithIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/conf/main.toml", `
"@include" = ["base.yaml", "/shared/ui.json"]

[typing]
type_speed = "20"
`)
	memfs.AddFile("/conf/base.yaml", "typing:\n  type_speed: \"80\"\n  back_speed: \"30\"\n")
	memfs.AddFile("/shared/ui.json", `{"ui": {"mode": "plain"}, "typing": {"back_speed": "10"}}`)

	config, err := NewFileLoaderWithFS(memfs, "/conf/main.toml").Load()
	require.NoError(t, err)

	want := map[string]any{
		"typing": map[string]any{"type_speed": "20", "back_speed": "10"},
		"ui":     map[string]any{"mode": "plain"},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithIncludesDepthExceeded(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = ["b.toml"]`)
	memfs.AddFile("/b.toml", `"@include" = "c.toml"`)
	memfs.AddFile("/c.toml", `"@include" = ["d.toml"]`)
	memfs.AddFile("/d.toml", `value = 1`)

	loader := NewFileLoaderWithFS(memfs, "/a.toml")

	_, err := loader.LoadWithIncludes("/a.toml", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth exceeded")

	config, err := loader.LoadWithIncludes("/a.toml", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), config["value"])
}

func TestLoadWithIncludesBadDirective(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = 3`)
	_, err := NewFileLoaderWithFS(memfs, "/a.toml").Load()
	assert.Error(t, err)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typewriter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  mode: terminal\n"), 0o600))

	config, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mode": "terminal"}, config["ui"])
}

type errFS struct{}

func (errFS) ReadFile(string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (errFS) Stat(string) (fs.FileInfo, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadReadError(t *testing.T) {
	_, err := NewFileLoaderWithFS(errFS{}, "/a.toml").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{
			name:     "nil dst",
			dst:      nil,
			src:      map[string]any{"a": 1},
			expected: map[string]any{"a": 1},
		},
		{
			name:     "nil src",
			dst:      map[string]any{"a": 1},
			src:      nil,
			expected: map[string]any{"a": 1},
		},
		{
			name:     "src overrides dst",
			dst:      map[string]any{"a": 1},
			src:      map[string]any{"a": 2},
			expected: map[string]any{"a": 2},
		},
		{
			name:     "nested merge",
			dst:      map[string]any{"typing": map[string]any{"loop": true}},
			src:      map[string]any{"typing": map[string]any{"shuffle": true}},
			expected: map[string]any{"typing": map[string]any{"loop": true, "shuffle": true}},
		},
		{
			name:     "map replaced by scalar",
			dst:      map[string]any{"typing": map[string]any{"loop": true}},
			src:      map[string]any{"typing": "off"},
			expected: map[string]any{"typing": "off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeepMerge(tt.dst, tt.src))
		})
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"typing": map[string]any{"strings": []any{"a", map[string]any{"b": 1}}},
	}
	dst := Clone(src)
	require.Equal(t, src, dst)

	dst["typing"].(map[string]any)["strings"].([]any)[0] = "changed"
	assert.Equal(t, "a", src["typing"].(map[string]any)["strings"].([]any)[0])

	assert.Nil(t, Clone(nil))
}
