package input

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-wc/model"
)

func writeFile(t testing.TB, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileProvider_Read(t *testing.T) {
	dir := t.TempDir()
	name := writeFile(t, filepath.Join(dir, "a.txt"), "hello world\n")

	p := NewFileProvider(nil)
	text, err := p.Read(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", text)

	_, err = p.Read(context.Background(), filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.NotContains(t, err.Error(), "missing.txt", "path is reported by the caller")
}

func TestFileProvider_Directory(t *testing.T) {
	p := NewFileProvider(nil)
	_, err := p.Read(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestFileProvider_Stdin(t *testing.T) {
	p := NewFileProvider(strings.NewReader("from stdin"))

	text, err := p.Read(context.Background(), Stdin)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	// stdin is consumed by the first read
	text, err = p.Read(context.Background(), Stdin)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestFileProvider_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileProvider(nil).Read(ctx, "whatever")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticProvider(t *testing.T) {
	p, err := NewStaticProvider([]model.TextInput{
		{Name: "one", Text: "1"},
		{Name: "two", Text: "2 2"},
	})
	require.NoError(t, err)

	text, err := p.Read(context.Background(), "two")
	require.NoError(t, err)
	assert.Equal(t, "2 2", text)

	_, err = p.Read(context.Background(), "three")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = NewStaticProvider([]model.TextInput{{Name: "x"}, {Name: "x"}})
	assert.Error(t, err)
}

func TestProviderFunc(t *testing.T) {
	var p Provider = ProviderFunc(func(_ context.Context, name string) (string, error) {
		return strings.ToUpper(name), nil
	})
	text, err := p.Read(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", text)
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "sub", "c.txt"), "c")
	writeFile(t, filepath.Join(root, ".hidden", "d.txt"), "d")
	writeFile(t, filepath.Join(root, ".dotfile"), "e")
	single := writeFile(t, filepath.Join(t.TempDir(), "single.txt"), "s")

	names := []string{single, root, Stdin, "does-not-exist"}

	t.Run("not recursive", func(t *testing.T) {
		assert.Equal(t, names, Expand(names, ExpandOptions{}))
	})

	t.Run("recursive", func(t *testing.T) {
		got := Expand(names, ExpandOptions{Recursive: true})
		want := []string{
			single,
			filepath.Join(root, "a.txt"),
			filepath.Join(root, "b.txt"),
			filepath.Join(root, "sub", "c.txt"),
			Stdin,
			"does-not-exist",
		}
		assert.Equal(t, want, got)
	})
}
