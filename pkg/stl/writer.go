package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/gopick/pkg/geometry"
)

// WriteBinary encodes the model as binary STL
func WriteBinary(w io.Writer, model *Model) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, binaryHeaderSize)
	copy(header, model.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	buf := make([]byte, binaryFacetSize)
	for _, t := range model.Triangles {
		normal := t.Normal
		if normal.Length() == 0 {
			normal = t.CalculateNormal()
		}
		for k, v := range [4]geometry.Vector3{normal, t.V1, t.V2, t.V3} {
			off := k * 12
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v.X)))
			binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(float32(v.Y)))
			binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(float32(v.Z)))
		}
		buf[48], buf[49] = 0, 0
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("failed to write triangle: %w", err)
		}
	}

	return bw.Flush()
}

// WriteASCII encodes the model as ASCII STL
func WriteASCII(w io.Writer, model *Model) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "solid %s\n", model.Name)
	for _, t := range model.Triangles {
		n := t.Normal
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.V1.X, t.V1.Y, t.V1.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.V2.X, t.V2.Y, t.V2.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", t.V3.X, t.V3.Y, t.V3.Z)
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", model.Name)

	return bw.Flush()
}
