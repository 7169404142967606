package mesh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/philipparndt/gopick/pkg/openscad"
)

// Source describes where a mesh comes from.
// Path is set for files on disk; Open must always be usable.
type Source struct {
	Name string
	Path string
	Open func() (io.ReadCloser, error)
}

// FileSource creates a source backed by a file on disk
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Path: path,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// Ext returns the lower-case extension of the source name
func (s Source) Ext() string {
	return strings.ToLower(filepath.Ext(s.Name))
}

// DecodeFunc turns a source into a mesh
type DecodeFunc func(ctx context.Context, src Source) (*Mesh, error)

// Loader dispatches sources to decoders by file extension
type Loader struct {
	decoders map[string]DecodeFunc
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithDecoder registers a decoder for an extension such as ".obj"
func WithDecoder(ext string, decode DecodeFunc) LoaderOption {
	return func(l *Loader) {
		l.decoders[strings.ToLower(ext)] = decode
	}
}

// WithOpenSCAD enables .scad sources rendered with the given renderer
func WithOpenSCAD(renderer *openscad.Renderer) LoaderOption {
	return WithDecoder(".scad", func(ctx context.Context, src Source) (*Mesh, error) {
		return decodeSCAD(ctx, renderer, src)
	})
}

// NewLoader creates a loader with the STL and glTF decoders registered
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{decoders: map[string]DecodeFunc{
		".stl":  decodeSTL,
		".glb":  decodeGLTF,
		".gltf": decodeGLTF,
	}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Extensions returns the registered extensions in sorted order
func (l *Loader) Extensions() []string {
	exts := make([]string, 0, len(l.decoders))
	for ext := range l.decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether a decoder is registered for the source
func (l *Loader) Supports(src Source) bool {
	_, ok := l.decoders[src.Ext()]
	return ok
}

// Load decodes the source into a mesh with a fresh identity
func (l *Loader) Load(ctx context.Context, src Source) (*Mesh, error) {
	decode, ok := l.decoders[src.Ext()]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, src.Name, strings.Join(l.Extensions(), ", "))
	}
	if src.Open == nil {
		return nil, fmt.Errorf("source %q cannot be opened", src.Name)
	}

	m, err := decode(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.TriangleCount() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyMesh, src.Name)
	}

	if m.Name == "" {
		m.Name = strings.TrimSuffix(src.Name, filepath.Ext(src.Name))
	}
	m.Source = src.Name
	if src.Path != "" {
		m.Source = src.Path
	}
	return m, nil
}
