package mesh

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/philipparndt/gopick/pkg/openscad"
	"github.com/philipparndt/gopick/pkg/stl"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memorySource(name string, data []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func stlBytes(t *testing.T, tris []geometry.Triangle) []byte {
	t.Helper()
	model := stl.NewModel("part", stl.FormatBinary)
	model.Triangles = tris
	var buf bytes.Buffer
	require.NoError(t, stl.WriteBinary(&buf, model))
	return buf.Bytes()
}

func TestCube(t *testing.T) {
	m := Cube(2)
	assert.Equal(t, 12, m.TriangleCount())
	assert.NotEmpty(t, m.ID)
	assert.InDelta(t, 24.0, m.SurfaceArea(), 1e-9)

	bbox := m.BoundingBox()
	assert.Equal(t, geometry.NewVector3(-1, -1, -1), bbox.Min)
	assert.Equal(t, geometry.NewVector3(1, 1, 1), bbox.Max)

	// Outward winding: every normal points away from the center
	for _, tri := range m.Triangles {
		assert.Greater(t, tri.Normal.Dot(tri.Center()), 0.0)
	}
}

func TestBuiltin(t *testing.T) {
	m, err := Builtin("")
	require.NoError(t, err)
	assert.Equal(t, BuiltinCube, m.Name)

	m, err = Builtin(BuiltinCubeOnPlane)
	require.NoError(t, err)
	assert.Equal(t, 14, m.TriangleCount())
	assert.Equal(t, -1.0, m.BoundingBox().Min.Y)

	_, err = Builtin("teapot")
	assert.Error(t, err)
}

func TestMeshIdentityIsUnique(t *testing.T) {
	assert.NotEqual(t, Cube(2).ID, Cube(2).ID)
}

func TestLoadSTL(t *testing.T) {
	loader := NewLoader()
	src := memorySource("Part.STL", stlBytes(t, Cube(2).Triangles))

	m, err := loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 12, m.TriangleCount())
	assert.Equal(t, "part", m.Name)
	assert.Equal(t, "Part.STL", m.Source)
}

func TestLoadFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")
	require.NoError(t, os.WriteFile(path, stlBytes(t, Cube(2).Triangles), 0o644))

	m, err := NewLoader().Load(context.Background(), FileSource(path))
	require.NoError(t, err)
	assert.Equal(t, path, m.Source)
	assert.Equal(t, 12, m.TriangleCount())
}

func TestLoadUnsupported(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), memorySource("model.obj", []byte("v 0 0 0")))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadEmpty(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), memorySource("empty.stl", stlBytes(t, nil)))
	assert.ErrorIs(t, err, ErrEmptyMesh)
}

func TestLoadCorrupt(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), memorySource("bad.stl", []byte("garbage")))
	assert.ErrorIs(t, err, stl.ErrMalformed)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader().Load(ctx, memorySource("cube.stl", stlBytes(t, Cube(2).Triangles)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCustomDecoder(t *testing.T) {
	loader := NewLoader(WithDecoder(".CUBE", func(ctx context.Context, src Source) (*Mesh, error) {
		return Cube(4), nil
	}))
	assert.Contains(t, loader.Extensions(), ".cube")

	src := memorySource("x.cube", nil)
	assert.True(t, loader.Supports(src))

	m, err := loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 12, m.TriangleCount())
}

func TestLoadSCADWithoutOpenSCAD(t *testing.T) {
	renderer := openscad.NewRenderer(t.TempDir(), openscad.WithBinary("openscad-binary-that-does-not-exist"))
	loader := NewLoader(WithOpenSCAD(renderer))

	_, err := loader.Load(context.Background(), memorySource("part.scad", []byte("cube(1);")))
	assert.ErrorIs(t, err, openscad.ErrNotInstalled)
}

func writeGLB(t *testing.T, translate [3]float64) string {
	t.Helper()
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name: "Triangle",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2})),
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "Root", Mesh: gltf.Index(0), Translation: translate}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "triangle.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLB(t *testing.T) {
	path := writeGLB(t, [3]float64{0, 0, 2})

	m, err := NewLoader().Load(context.Background(), FileSource(path))
	require.NoError(t, err)
	require.Equal(t, 1, m.TriangleCount())
	assert.Equal(t, "Triangle", m.Name)

	tri := m.Triangles[0]
	assert.Equal(t, geometry.NewVector3(0, 0, 2), tri.V1)
	assert.Equal(t, geometry.NewVector3(1, 0, 2), tri.V2)
	assert.Equal(t, geometry.NewVector3(0, 1, 2), tri.V3)
}

func TestLoadGLBFromReader(t *testing.T) {
	data, err := os.ReadFile(writeGLB(t, [3]float64{}))
	require.NoError(t, err)

	m, err := NewLoader().Load(context.Background(), memorySource("upload.glb", data))
	require.NoError(t, err)
	assert.Equal(t, 1, m.TriangleCount())
}

func TestNodeTransformRotation(t *testing.T) {
	// 90 degrees about Z maps +X to +Y
	node := &gltf.Node{Rotation: [4]float64{0, 0, 0.7071067811865476, 0.7071067811865476}}
	p := localTransform(node).apply([3]float32{1, 0, 0})
	assert.True(t, p.ApproxEqual(geometry.NewVector3(0, 1, 0), 1e-9), "got %v", p)
}
