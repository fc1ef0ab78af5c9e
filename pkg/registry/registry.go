// Package registry tracks the set of loaded urban plans and which one is
// active.
package registry

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cityforge/urbanplan/pkg/plan"
)

// Registry maps plan ids to plans and holds an active pointer. Plans stay
// single-owner and unlocked; the registry's own mutex guards the map and
// the active pointer because the HTTP server calls it from concurrent
// handlers.
type Registry struct {
	mu       sync.Mutex
	plans    map[string]*plan.Plan
	activeID string
	clock    plan.Clock
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{plans: map[string]*plan.Plan{}}
}

// NewWithClock creates a registry whose plans use the given time source.
func NewWithClock(clock plan.Clock) *Registry {
	return &Registry{plans: map[string]*plan.Plan{}, clock: clock}
}

// CreatePlan stores a new empty plan under a fresh id, marks it active and
// returns the id.
func (r *Registry) CreatePlan(name, description string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.plans[id] = plan.NewWithClock(id, name, description, r.clock)
	r.activeID = id
	log.Info().Str("plan_id", id).Str("name", name).Msg("plan created")
	return id
}

// Add inserts an existing plan under its own id, overwriting any plan
// already stored there, and returns the id.
func (r *Registry) Add(p *plan.Plan) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[p.ID] = p
	return p.ID
}

// SetActive switches the active pointer. Returns false without mutation
// when the id is unknown.
func (r *Registry) SetActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return false
	}
	r.activeID = id
	return true
}

// Active returns the active plan, or nil when none is set or the pointer
// dangles.
func (r *Registry) Active() *plan.Plan {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeID == "" {
		return nil
	}
	return r.plans[r.activeID]
}

// Get returns the plan with the given id.
func (r *Registry) Get(id string) (*plan.Plan, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	return p, ok
}

// Remove deletes a plan. The active pointer is left as-is and may dangle;
// Active tolerates that.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return false
	}
	delete(r.plans, id)
	return true
}

// IDs returns the stored plan ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.plans))
	for id := range r.plans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Save serializes a plan to the sink. Returns ok=false when the id is
// unknown.
func (r *Registry) Save(id string, w io.Writer) (bool, error) {
	r.mu.Lock()
	p, ok := r.plans[id]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := p.EncodeTo(w); err != nil {
		return true, err
	}
	return true, nil
}

// Load deserializes a plan from the source and stores it under its own
// embedded id, overwriting any plan with that id. Returns the id.
func (r *Registry) Load(src io.Reader) (string, error) {
	p, err := plan.Decode(src)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	r.plans[p.ID] = p
	r.mu.Unlock()
	log.Info().Str("plan_id", p.ID).Str("name", p.Name).Msg("plan loaded")
	return p.ID, nil
}

// SaveFile writes a plan to a JSON file. A failed write may leave a
// truncated file behind; there is no partial-write recovery.
func (r *Registry) SaveFile(id, path string) (bool, error) {
	if _, ok := r.Get(id); !ok {
		return false, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return r.Save(id, f)
}

// LoadFile reads a plan from a JSON file and returns its id.
func (r *Registry) LoadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return r.Load(f)
}
