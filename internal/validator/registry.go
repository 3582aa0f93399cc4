package validator

// Registry holds checks in the order they are applied.
type Registry struct {
	checks []Check
	index  map[string]int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a check to the registry. A check with an existing key replaces the old one in place.
func (r *Registry) Register(c Check) {
	if i, ok := r.index[c.Key()]; ok {
		r.checks[i] = c
		return
	}
	r.index[c.Key()] = len(r.checks)
	r.checks = append(r.checks, c)
}

// Get returns the check for a given key, or nil if not found.
func (r *Registry) Get(key string) Check {
	i, ok := r.index[key]
	if !ok {
		return nil
	}
	return r.checks[i]
}

// All returns all registered checks in registration order.
func (r *Registry) All() []Check {
	out := make([]Check, len(r.checks))
	copy(out, r.checks)
	return out
}
