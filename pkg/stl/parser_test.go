package stl

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel() *Model {
	m := NewModel("sample", FormatUnknown)
	m.AddTriangle(geometry.NewTriangleFromVertices(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	))
	m.AddTriangle(geometry.NewTriangleFromVertices(
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, 0),
		geometry.NewVector3(0, 1, 0),
	))
	return m
}

func TestParseASCII(t *testing.T) {
	data := `solid test part
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid test part
`
	model, err := ParseReader(context.Background(), bytes.NewBufferString(data))
	require.NoError(t, err)

	assert.Equal(t, "test part", model.Name)
	require.Equal(t, 1, model.TriangleCount())
	assert.Equal(t, geometry.NewVector3(1, 0, 0), model.Triangles[0].V2)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), model.Triangles[0].Normal)
}

func TestParseASCIIMalformed(t *testing.T) {
	for name, data := range map[string]string{
		"bad number":    "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 a 0\n",
		"short vertex":  "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0\n",
		"two vertices":  "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid x\n",
		"infinite":      "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 Inf 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseReader(context.Background(), bytes.NewBufferString(data))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, sampleModel()))
	assert.Equal(t, binaryHeaderSize+4+2*binaryFacetSize, buf.Len())

	model, err := ParseReader(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "sample", model.Name)
	assert.Equal(t, FormatBinary, model.Format)
	assert.Equal(t, sampleModel().Triangles, model.Triangles)
}

func TestBinaryHeaderStartingWithSolid(t *testing.T) {
	m := sampleModel()
	m.Name = "solid but binary"

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, m))

	model, err := ParseReader(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())
	assert.Equal(t, "binary", model.Format.String())
}

func TestASCIIRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteASCII(&buf, sampleModel()))

	model, err := ParseReader(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, FormatASCII, model.Format)
	assert.Equal(t, sampleModel().Triangles, model.Triangles)
}

func TestParseTruncatedBinary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, sampleModel()))
	truncated := buf.Bytes()[:buf.Len()-10]

	_, err := ParseReader(context.Background(), bytes.NewReader(truncated))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseBinaryNonFinite(t *testing.T) {
	tests := map[string]struct {
		offset int
		value  float32
	}{
		"nan vertex":      {offset: binaryHeaderSize + 4 + binaryFacetSize + 12, value: float32(math.NaN())},
		"infinite normal": {offset: binaryHeaderSize + 4, value: float32(math.Inf(1))},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteBinary(&buf, sampleModel()))
			data := buf.Bytes()
			binary.LittleEndian.PutUint32(data[tt.offset:], math.Float32bits(tt.value))

			_, err := ParseReader(context.Background(), bytes.NewReader(data))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := ParseReader(context.Background(), bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseCancelled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, sampleModel()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseReader(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteBinary(f, sampleModel()))
	require.NoError(t, f.Close())

	model, err := Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())
	assert.InDelta(t, 1.0, model.SurfaceArea(), 1e-9)

	_, err = Parse(context.Background(), filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}
