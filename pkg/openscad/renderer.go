// Package openscad renders .scad sources to STL through the openscad executable
// and resolves the files a source depends on.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH. Please install OpenSCAD from https://openscad.org/")

var dependencyRegex = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// RenderError is a failed openscad run with its captured output
type RenderError struct {
	File   string
	Output string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("failed to render %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("failed to render %s: %v\n%s", e.File, e.Err, e.Output)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer runs openscad relative to a working directory
type Renderer struct {
	workDir string
	binary  string
	log     *zap.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithBinary overrides the openscad executable name or path
func WithBinary(binary string) Option {
	return func(r *Renderer) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithLogger sets the logger used for render timings
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRenderer creates a renderer. Relative paths resolve against workDir.
func NewRenderer(workDir string, opts ...Option) *Renderer {
	r := &Renderer{
		workDir: workDir,
		binary:  "openscad",
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) abs(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(r.workDir, file)
}

// RenderToSTL renders scadFile into outputFile.
// Cancelling ctx kills the openscad process and returns ctx.Err().
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return ErrNotInstalled
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.binary, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &RenderError{File: scadFile, Output: strings.TrimSpace(output.String()), Err: err}
	}

	r.log.Debug("Rendered OpenSCAD file",
		zap.String("file", scadFile),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// ResolveDependencies returns scadFile and every file it uses or includes,
// transitively, as absolute paths in discovery order.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	queue := []string{r.abs(scadFile)}
	seen := make(map[string]bool)
	var deps []string

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		if seen[file] {
			continue
		}
		seen[file] = true
		deps = append(deps, file)

		refs, err := r.references(file)
		if err != nil {
			return nil, err
		}
		queue = append(queue, refs...)
	}

	return deps, nil
}

// references lists the use/include targets of one file, skipping comments
func (r *Renderer) references(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var refs []string
	dir := filepath.Dir(scadFile)
	inBlock := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line string
		line, inBlock = stripComments(scanner.Text(), inBlock)
		if m := dependencyRegex.FindStringSubmatch(line); m != nil {
			refs = append(refs, r.resolve(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}

	return refs, nil
}

// stripComments removes // and /* */ comments from one line. inBlock carries
// an unterminated block comment over to the next line.
func stripComments(line string, inBlock bool) (string, bool) {
	var b strings.Builder
	for line != "" {
		if inBlock {
			end := strings.Index(line, "*/")
			if end < 0 {
				return b.String(), true
			}
			line = line[end+2:]
			inBlock = false
			continue
		}

		block := strings.Index(line, "/*")
		comment := strings.Index(line, "//")
		if comment >= 0 && (block < 0 || comment < block) {
			b.WriteString(line[:comment])
			return b.String(), false
		}
		if block < 0 {
			b.WriteString(line)
			break
		}
		b.WriteString(line[:block])
		line = line[block+2:]
		inBlock = true
	}
	return b.String(), inBlock
}

// resolve finds a referenced file next to the referencing file, then in the work dir
func (r *Renderer) resolve(ref, dir string) string {
	local := filepath.Clean(filepath.Join(dir, ref))
	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Clean(r.abs(ref))
}
