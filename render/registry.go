package render

import (
	"fmt"
	"sort"
)

// Node is an opaque renderable item. Renderers type-assert the kinds they
// can handle in CanRender.
type Node any

// Renderer is the pluggable contract shared by post-process steps and
// per-light shadow renderers. Render receives a batch of nodes the registry
// already matched to this renderer; order is the batching priority the batch
// was scheduled under.
type Renderer interface {
	CanRender(node Node, ctx *Context) bool
	Render(nodes []Node, ctx *Context, order int) error

	// Order is the batching priority; lower orders are scheduled first.
	Order() int
}

type registryEntry struct {
	renderer Renderer
	id       uint8
	seq      int
}

// Registry holds renderers in priority order and resolves nodes to the first
// renderer that accepts them: an explicit capability scan, no virtual
// dispatch. IDs are assigned at registration and used in shadow-job sort
// keys, so at most 256 renderers can be registered.
type Registry struct {
	entries []registryEntry
	nextID  int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a renderer and assigns its runtime ID. Renderers with equal
// Order keep registration order.
func (r *Registry) Register(renderer Renderer) (uint8, error) {
	if r.nextID > 255 {
		return 0, fmt.Errorf("registry: renderer id space exhausted (max 256)")
	}
	id := uint8(r.nextID)
	r.entries = append(r.entries, registryEntry{
		renderer: renderer,
		id:       id,
		seq:      r.nextID,
	})
	r.nextID++
	sort.SliceStable(r.entries, func(i, j int) bool {
		if r.entries[i].renderer.Order() != r.entries[j].renderer.Order() {
			return r.entries[i].renderer.Order() < r.entries[j].renderer.Order()
		}
		return r.entries[i].seq < r.entries[j].seq
	})
	return id, nil
}

// Resolve returns the first renderer, in priority order, whose CanRender
// accepts the node.
func (r *Registry) Resolve(node Node, ctx *Context) (Renderer, uint8, bool) {
	for _, e := range r.entries {
		if e.renderer.CanRender(node, ctx) {
			return e.renderer, e.id, true
		}
	}
	return nil, 0, false
}

// Len returns the number of registered renderers.
func (r *Registry) Len() int {
	return len(r.entries)
}
