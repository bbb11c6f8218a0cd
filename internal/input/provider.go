// Package input supplies the analysis engine with the text of named inputs.
// The engine never touches the filesystem itself; everything goes through a
// Provider.
package input

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/gcbaptista/go-wc/model"
)

// Stdin is the input name that refers to standard input.
const Stdin = "-"

// Provider returns the full text of a named input.
type Provider interface {
	Read(ctx context.Context, name string) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, name string) (string, error)

func (f ProviderFunc) Read(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// FileProvider reads inputs from the filesystem. The name "-" reads Stdin,
// which is consumed by the first such read; later reads of "-" see an empty
// stream, like repeated "-" arguments to wc.
type FileProvider struct {
	Stdin io.Reader

	mu       sync.Mutex
	stdinErr error
	consumed bool
}

// NewFileProvider returns a FileProvider reading standard input from stdin.
func NewFileProvider(stdin io.Reader) *FileProvider {
	return &FileProvider{Stdin: stdin}
}

func (p *FileProvider) Read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == Stdin {
		return p.readStdin()
	}
	data, err := os.ReadFile(name) // #nosec G304
	if err != nil {
		return "", unwrapPathError(err)
	}
	return string(data), nil
}

func (p *FileProvider) readStdin() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.consumed || p.Stdin == nil {
		return "", p.stdinErr
	}
	p.consumed = true
	data, err := io.ReadAll(p.Stdin)
	if err != nil {
		p.stdinErr = err
		return "", err
	}
	return string(data), nil
}

// unwrapPathError drops the *fs.PathError wrapper; callers already report
// the name.
func unwrapPathError(err error) error {
	if pe, ok := err.(*fs.PathError); ok {
		return pe.Err
	}
	return err
}

// StaticProvider serves texts held in memory, keyed by name.
type StaticProvider map[string]string

// NewStaticProvider indexes inputs by name. It fails on duplicate names.
func NewStaticProvider(inputs []model.TextInput) (StaticProvider, error) {
	p := make(StaticProvider, len(inputs))
	for _, in := range inputs {
		if _, dup := p[in.Name]; dup {
			return nil, fmt.Errorf("duplicate input name %q", in.Name)
		}
		p[in.Name] = in.Text
	}
	return p, nil
}

func (p StaticProvider) Read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, ok := p[name]
	if !ok {
		return "", fs.ErrNotExist
	}
	return text, nil
}
