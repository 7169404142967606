package mesh

import (
	"context"
	"fmt"

	"github.com/philipparndt/gopick/pkg/stl"
)

func decodeSTL(ctx context.Context, src Source) (*Mesh, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name, err)
	}
	defer rc.Close()

	model, err := stl.ParseReader(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse STL file: %w", err)
	}
	return New(model.Name, model.Triangles), nil
}
