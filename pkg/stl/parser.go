package stl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gopick/pkg/geometry"
)

const (
	binaryHeaderSize = 80
	binaryFacetSize  = 50

	// cancelCheckInterval is how many facets are parsed between context checks
	cancelCheckInterval = 4096
)

// ErrMalformed is returned when the data is neither valid ASCII nor binary STL
var ErrMalformed = errors.New("malformed STL data")

// Parse reads an STL file and returns a Model
// It automatically detects whether the file is ASCII or binary format
func Parse(ctx context.Context, filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(ctx, file)
}

// ParseReader parses STL data from a stream.
// Binary files whose header happens to start with "solid" are detected by
// looking for a facet keyword near the start of the data.
func ParseReader(ctx context.Context, r io.Reader) (*Model, error) {
	reader := bufio.NewReaderSize(r, 64*1024)

	head, err := reader.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	if isASCII(head) {
		return parseASCII(ctx, reader)
	}
	return parseBinary(ctx, reader)
}

func isASCII(head []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(head, " \t\r\n"), []byte("solid")) {
		return false
	}
	// A short file starting with "solid" and no facets is still an (empty) ASCII solid
	return bytes.Contains(head, []byte("facet")) || bytes.Contains(head, []byte("endsolid"))
}

// parseASCII parses an ASCII STL file
func parseASCII(ctx context.Context, reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("", FormatASCII)

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				currentNormal = n
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformed, lineNo)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("%w: line %d: facet has %d vertices", ErrMalformed, lineNo, len(vertices))
			}
			model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			vertices = vertices[:0]

			if model.TriangleCount()%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geometry.Vector3{}, fmt.Errorf("non-finite coordinate %q", f)
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// parseBinary parses a binary STL file
func parseBinary(ctx context.Context, reader io.Reader) (*Model, error) {
	model := NewModel("", FormatBinary)

	header := make([]byte, binaryHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrMalformed, err)
	}

	// Extract name from header (if present)
	headerStr := strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))
	if len(headerStr) > 0 {
		model.Name = headerStr
	}

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("%w: failed to read triangle count: %v", ErrMalformed, err)
	}

	model.Triangles = make([]geometry.Triangle, 0, min(int(triangleCount), 1<<20))
	buf := make([]byte, binaryFacetSize)

	for i := uint32(0); i < triangleCount; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, fmt.Errorf("%w: failed to read triangle %d of %d: %v", ErrMalformed, i, triangleCount, err)
		}

		// normal, v1, v2, v3 followed by a 2 byte attribute count
		var vecs [4]geometry.Vector3
		for k := range vecs {
			off := k * 12
			var c [3]float64
			for j := range c {
				v := float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off+4*j:])))
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("%w: non-finite coordinate in triangle %d", ErrMalformed, i)
				}
				c[j] = v
			}
			vecs[k] = geometry.NewVector3(c[0], c[1], c[2])
		}
		model.AddTriangle(geometry.NewTriangle(vecs[0], vecs[1], vecs[2], vecs[3]))
	}

	return model, nil
}
