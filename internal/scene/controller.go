// Package scene owns the active mesh, its spatial index and the annotation store,
// and keeps them consistent when the mesh is swapped.
package scene

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/philipparndt/gopick/internal/annotation"
	"github.com/philipparndt/gopick/pkg/bvh"
	"github.com/philipparndt/gopick/pkg/mesh"
	"github.com/philipparndt/gopick/pkg/pick"
	"go.uber.org/zap"
)

// State is the lifecycle state of the active mesh
type State int

const (
	// StateDefault means the built-in mesh is active
	StateDefault State = iota
	// StateLoaded means a user-supplied mesh is active
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "default"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// LoadToken identifies a load request. Tokens increase monotonically.
type LoadToken uint64

// Completion is the outcome of a load request
type Completion struct {
	Token  LoadToken
	Source string
	Mesh   *mesh.Mesh
	Err    error
}

// SwapEvent describes a mesh swap that has become visible
type SwapEvent struct {
	MeshID string
	Name   string
	State  State
	Stats  bvh.Stats
}

// MeshLoader decodes mesh sources; *mesh.Loader is the usual implementation
type MeshLoader interface {
	Load(ctx context.Context, src mesh.Source) (*mesh.Mesh, error)
}

// Controller holds the active mesh and swaps it atomically
type Controller struct {
	mu sync.RWMutex

	log        *zap.Logger
	store      *annotation.Store
	indexOpts  []bvh.Option
	allowReset bool
	onSwap     []func(SwapEvent)

	defaultMesh *mesh.Mesh
	active      *mesh.Mesh
	index       *bvh.Index
	state       State

	token     LoadToken
	completed bool
	cancel    context.CancelFunc
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger; the default discards everything
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAllowReset enables ResetToDefault
func WithAllowReset(allow bool) Option {
	return func(c *Controller) {
		c.allowReset = allow
	}
}

// WithIndexOptions passes options to every index build
func WithIndexOptions(opts ...bvh.Option) Option {
	return func(c *Controller) {
		c.indexOpts = append(c.indexOpts, opts...)
	}
}

// WithOnSwap registers a callback invoked after every swap, outside the lock
func WithOnSwap(fn func(SwapEvent)) Option {
	return func(c *Controller) {
		c.onSwap = append(c.onSwap, fn)
	}
}

// NewController creates a controller in the default state with the given mesh active.
// A nil defaultMesh falls back to the built-in cube.
func NewController(defaultMesh *mesh.Mesh, store *annotation.Store, opts ...Option) *Controller {
	if defaultMesh == nil {
		defaultMesh = mesh.Cube(2)
	}
	if store == nil {
		store = annotation.NewStore()
	}

	c := &Controller{
		log:         zap.NewNop(),
		store:       store,
		defaultMesh: defaultMesh,
		state:       StateDefault,
		completed:   true,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.active = defaultMesh
	c.index = c.buildIndex(defaultMesh)
	return c
}

// Store returns the annotation store owned by the controller
func (c *Controller) Store() *annotation.Store {
	return c.store
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Mesh returns the active mesh
func (c *Controller) Mesh() *mesh.Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Index returns the spatial index of the active mesh
func (c *Controller) Index() *bvh.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// OnSwap registers a callback invoked after every swap
func (c *Controller) OnSwap(fn func(SwapEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSwap = append(c.onSwap, fn)
}

// BeginLoad issues a new load token and cancels the context of the previous
// in-flight load. The returned context is cancelled when a newer load begins.
func (c *Controller) BeginLoad(ctx context.Context) (LoadToken, context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.token++
	c.completed = false

	c.log.Debug("Load requested", zap.Uint64("token", uint64(c.token)))
	return c.token, loadCtx
}

// CompleteLoad applies the outcome of a load request.
// Stale completions return ErrStaleLoad and change nothing. Failures return a
// *ModelLoadFailedError and change nothing. Success rebuilds the index, swaps the
// mesh, clears the annotation store and enters StateLoaded as one step.
func (c *Controller) CompleteLoad(result Completion) error {
	if !c.isCurrent(result.Token) {
		c.log.Debug("Dropping stale load", zap.Uint64("token", uint64(result.Token)), zap.String("source", result.Source))
		return ErrStaleLoad
	}

	if result.Err == nil && result.Mesh == nil {
		result.Err = errors.New("loader returned no mesh")
	}
	if result.Err != nil {
		c.mu.Lock()
		stale := result.Token != c.token || c.completed
		if !stale {
			c.finishLoad()
		}
		c.mu.Unlock()
		if stale {
			return ErrStaleLoad
		}

		c.log.Warn("Model load failed", zap.String("source", result.Source), zap.Error(result.Err))
		return &ModelLoadFailedError{Source: result.Source, Err: result.Err}
	}

	start := time.Now()
	index := c.buildIndex(result.Mesh)

	c.mu.Lock()
	if result.Token != c.token || c.completed {
		c.mu.Unlock()
		c.log.Debug("Dropping load superseded during indexing", zap.Uint64("token", uint64(result.Token)))
		return ErrStaleLoad
	}
	c.finishLoad()
	event := c.applySwap(result.Mesh, index, StateLoaded)
	c.mu.Unlock()

	c.log.Info("Mesh swapped",
		zap.String("source", result.Source),
		zap.String("mesh", event.MeshID),
		zap.Int("triangles", event.Stats.Triangles),
		zap.Int("depth", event.Stats.Depth),
		zap.Duration("index_time", time.Since(start)))
	c.notify(event)
	return nil
}

// LoadAsync begins a load and decodes the source on a separate goroutine.
// The completion is delivered on the returned channel for the caller to apply
// with CompleteLoad on its own goroutine.
func (c *Controller) LoadAsync(ctx context.Context, loader MeshLoader, src mesh.Source) <-chan Completion {
	token, loadCtx := c.BeginLoad(ctx)
	out := make(chan Completion, 1)

	go func() {
		defer close(out)
		m, err := loader.Load(loadCtx, src)
		out <- Completion{Token: token, Source: src.Name, Mesh: m, Err: err}
	}()

	return out
}

// ResetToDefault swaps back to the default mesh and supersedes any pending load
func (c *Controller) ResetToDefault() error {
	if !c.allowReset {
		return ErrResetDisabled
	}

	index := c.buildIndex(c.defaultMesh)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.token++
	c.completed = true
	event := c.applySwap(c.defaultMesh, index, StateDefault)
	c.mu.Unlock()

	c.log.Info("Reset to default mesh", zap.String("mesh", event.MeshID))
	c.notify(event)
	return nil
}

// Pick resolves a pointer position against the active mesh
func (c *Controller) Pick(x, y float64, vp pick.Viewport, cam pick.CameraTransform) (bvh.Hit, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pickLocked(x, y, vp, cam)
}

// Confirm picks against the active mesh and appends the hit to the store.
// The read lock is held across both steps, so a swap cannot clear the store
// between the pick and the append and leave a point from the previous mesh.
func (c *Controller) Confirm(x, y float64, vp pick.Viewport, cam pick.CameraTransform) (annotation.Point, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hit, ok, err := c.pickLocked(x, y, vp, cam)
	if err != nil {
		return annotation.Point{}, false, err
	}
	p, ok := c.store.ConfirmHit(hit, ok)
	return p, ok, nil
}

// Hover picks against the active mesh and updates the hover point under the
// same read lock as Confirm.
func (c *Controller) Hover(x, y float64, vp pick.Viewport, cam pick.CameraTransform) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hit, ok, err := c.pickLocked(x, y, vp, cam)
	if err != nil {
		return err
	}
	c.store.SetHover(hit, ok)
	return nil
}

// pickLocked resolves a pick against the current index. Caller holds the lock.
func (c *Controller) pickLocked(x, y float64, vp pick.Viewport, cam pick.CameraTransform) (bvh.Hit, bool, error) {
	hit, ok, err := pick.Pick(x, y, vp, cam, c.index)
	if err != nil {
		c.log.Debug("Skipping pick", zap.Error(err))
	}
	return hit, ok, err
}

func (c *Controller) isCurrent(token LoadToken) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return token == c.token && !c.completed
}

// finishLoad marks the current token as consumed. Caller holds the lock.
func (c *Controller) finishLoad() {
	c.completed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// applySwap is the only state transition. Caller holds the lock.
func (c *Controller) applySwap(m *mesh.Mesh, index *bvh.Index, state State) SwapEvent {
	c.active = m
	c.index = index
	c.store.Clear()
	c.state = state

	return SwapEvent{
		MeshID: m.ID,
		Name:   m.Name,
		State:  state,
		Stats:  index.Stats(),
	}
}

func (c *Controller) buildIndex(m *mesh.Mesh) *bvh.Index {
	opts := append([]bvh.Option{bvh.WithMeshID(m.ID)}, c.indexOpts...)
	return bvh.Build(m.Triangles, opts...)
}

func (c *Controller) notify(event SwapEvent) {
	c.mu.RLock()
	callbacks := append([]func(SwapEvent){}, c.onSwap...)
	c.mu.RUnlock()

	for _, fn := range callbacks {
		fn(event)
	}
}
