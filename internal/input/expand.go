package input

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// ExpandOptions controls directory expansion.
type ExpandOptions struct {
	Recursive      bool
	FollowSymlinks bool
	Log            *zap.Logger
}

// Expand replaces every directory in names with the regular files below it
// when opts.Recursive is set. Files of one directory are sorted so the
// result is stable; hidden files and directories are skipped. Names that are
// not directories, or cannot be walked, are kept as they are so the reader
// reports them. Without Recursive names is returned unchanged.
func Expand(names []string, opts ExpandOptions) []string {
	if !opts.Recursive {
		return names
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == Stdin || !isDir(name) {
			out = append(out, name)
			continue
		}
		files, err := walkFiles(name, opts.FollowSymlinks)
		if err != nil {
			if opts.Log != nil {
				opts.Log.Warn("walk failed", zap.String("root", name), zap.Error(err))
			}
			out = append(out, name)
			continue
		}
		out = append(out, files...)
	}
	return out
}

func walkFiles(root string, follow bool) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)
	conf := fastwalk.Config{Follow: follow}
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are kept so the reader reports them.
			if path != root {
				mu.Lock()
				files = append(files, path)
				mu.Unlock()
			}
			return nil
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		typ := d.Type()
		if typ&os.ModeSymlink != 0 && follow {
			fi, err := os.Stat(path)
			if err != nil {
				return nil
			}
			typ = fi.Mode().Type()
		}
		if typ.IsRegular() {
			mu.Lock()
			files = append(files, path)
			mu.Unlock()
		}
		return nil
	}
	if err := fastwalk.Walk(&conf, root, walkFn); err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isDir(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}
