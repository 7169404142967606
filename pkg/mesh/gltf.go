package mesh

import (
	"context"
	"fmt"

	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// decodeGLTF reads a .glb or .gltf document and flattens every triangle primitive
// reachable from the default scene into world space
func decodeGLTF(ctx context.Context, src Source) (*Mesh, error) {
	doc, err := openGLTF(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse glTF file: %w", err)
	}

	g := gltfReader{ctx: ctx, doc: doc}
	if err := g.readScene(); err != nil {
		return nil, err
	}

	name := ""
	if len(doc.Meshes) == 1 {
		name = doc.Meshes[0].Name
	}
	return New(name, g.triangles), nil
}

func openGLTF(src Source) (*gltf.Document, error) {
	// External buffers resolve relative to the file, so prefer the path when there is one
	if src.Path != "" {
		return gltf.Open(src.Path)
	}

	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(rc).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type gltfReader struct {
	ctx       context.Context
	doc       *gltf.Document
	triangles []geometry.Triangle
}

func (g *gltfReader) readScene() error {
	var roots []int
	switch {
	case g.doc.Scene != nil && *g.doc.Scene < len(g.doc.Scenes):
		roots = g.doc.Scenes[*g.doc.Scene].Nodes
	case len(g.doc.Scenes) > 0:
		roots = g.doc.Scenes[0].Nodes
	default:
		// No scene graph: take the meshes as they are
		for i := range g.doc.Meshes {
			if err := g.readMesh(i, identity()); err != nil {
				return err
			}
		}
		return nil
	}

	visited := make(map[int]bool)
	for _, root := range roots {
		if err := g.readNode(root, identity(), visited); err != nil {
			return err
		}
	}
	return nil
}

func (g *gltfReader) readNode(index int, parent mat4, visited map[int]bool) error {
	if index < 0 || index >= len(g.doc.Nodes) {
		return fmt.Errorf("node %d out of range", index)
	}
	if visited[index] {
		return fmt.Errorf("node %d is referenced twice", index)
	}
	visited[index] = true

	node := g.doc.Nodes[index]
	world := parent.mul(localTransform(node))

	if node.Mesh != nil {
		if err := g.readMesh(*node.Mesh, world); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := g.readNode(child, world, visited); err != nil {
			return err
		}
	}
	return nil
}

func (g *gltfReader) readMesh(index int, world mat4) error {
	if index < 0 || index >= len(g.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", index)
	}

	for pi, prim := range g.doc.Meshes[index].Primitives {
		if err := g.ctx.Err(); err != nil {
			return err
		}
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIndex, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		posAccessor, err := g.accessor(posIndex)
		if err != nil {
			return fmt.Errorf("mesh %d primitive %d: %w", index, pi, err)
		}
		positions, err := modeler.ReadPosition(g.doc, posAccessor, nil)
		if err != nil {
			return fmt.Errorf("mesh %d primitive %d: failed to read positions: %w", index, pi, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			idxAccessor, err := g.accessor(*prim.Indices)
			if err != nil {
				return fmt.Errorf("mesh %d primitive %d: %w", index, pi, err)
			}
			indices, err = modeler.ReadIndices(g.doc, idxAccessor, nil)
			if err != nil {
				return fmt.Errorf("mesh %d primitive %d: failed to read indices: %w", index, pi, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return fmt.Errorf("mesh %d primitive %d: index out of range", index, pi)
			}
			g.triangles = append(g.triangles, geometry.NewTriangleFromVertices(
				world.apply(positions[a]),
				world.apply(positions[b]),
				world.apply(positions[c]),
			))
		}
	}
	return nil
}

func (g *gltfReader) accessor(index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(g.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	return g.doc.Accessors[index], nil
}

// mat4 is a column-major affine transform
type mat4 [16]float64

func identity() mat4 {
	return mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func (m mat4) mul(o mat4) mat4 {
	var out mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

func (m mat4) apply(p [3]float32) geometry.Vector3 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	return geometry.NewVector3(
		m[0]*x+m[4]*y+m[8]*z+m[12],
		m[1]*x+m[5]*y+m[9]*z+m[13],
		m[2]*x+m[6]*y+m[10]*z+m[14],
	)
}

// localTransform returns the node matrix, or T*R*S when the node uses TRS properties
func localTransform(node *gltf.Node) mat4 {
	if m := mat4(node.MatrixOrDefault()); m != identity() {
		return m
	}

	t := node.TranslationOrDefault()
	q := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	x, y, z, w := q[0], q[1], q[2], q[3]

	return mat4{
		(1 - 2*(y*y+z*z)) * s[0], (2 * (x*y + z*w)) * s[0], (2 * (x*z - y*w)) * s[0], 0,
		(2 * (x*y - z*w)) * s[1], (1 - 2*(x*x+z*z)) * s[1], (2 * (y*z + x*w)) * s[1], 0,
		(2 * (x*z + y*w)) * s[2], (2 * (y*z - x*w)) * s[2], (1 - 2*(x*x+y*y)) * s[2], 0,
		t[0], t[1], t[2], 1,
	}
}
