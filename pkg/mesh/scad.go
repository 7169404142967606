package mesh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/philipparndt/gopick/pkg/openscad"
	"github.com/philipparndt/gopick/pkg/stl"
)

// decodeSCAD renders the source to a temporary STL and parses it.
// Sources without a path are copied to a temporary file first.
func decodeSCAD(ctx context.Context, renderer *openscad.Renderer, src Source) (*Mesh, error) {
	tempDir, err := os.MkdirTemp("", "gopick-scad-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	scadFile := src.Path
	if scadFile == "" {
		scadFile = filepath.Join(tempDir, "source.scad")
		if err := copySource(src, scadFile); err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(scadFile) {
		if scadFile, err = filepath.Abs(scadFile); err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", src.Path, err)
		}
	}

	output := filepath.Join(tempDir, "rendered.stl")
	if err := renderer.RenderToSTL(ctx, scadFile, output); err != nil {
		return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
	}

	model, err := stl.Parse(ctx, output)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	return New(model.Name, model.Triangles), nil
}

func copySource(src Source, dst string) error {
	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src.Name, err)
	}
	defer rc.Close()

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return fmt.Errorf("failed to copy %s: %w", src.Name, err)
	}
	return f.Close()
}
