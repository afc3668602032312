package internal

// Registry is an ordered key→value store. Keys keep their insertion
// position across re-sets; iteration order is deterministic.
//
// A Registry is request-scoped, single-writer state: plugins and the
// controller mutate it sequentially, so it carries no lock.
type Registry struct {
	data map[string]any
	keys []string
}

// NewRegistry creates an empty registry, optionally pre-filled from maps
// (merged in argument order).
func NewRegistry(init ...map[string]any) *Registry {
	r := &Registry{data: make(map[string]any)}
	for _, m := range init {
		r.SetAll(m)
	}
	return r
}

// Set stores a value under key. A nil value deletes the key.
func (r *Registry) Set(key string, value any) {
	if value == nil {
		r.Unset(key)
		return
	}
	if _, ok := r.data[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.data[key] = value
}

// SetAll merges every entry of m into the registry.
func (r *Registry) SetAll(m map[string]any) {
	for k, v := range m {
		r.Set(k, v)
	}
}

// Get returns the stored value and whether the key exists.
func (r *Registry) Get(key string) (any, bool) {
	v, ok := r.data[key]
	return v, ok
}

// Has reports whether the key exists.
func (r *Registry) Has(key string) bool {
	_, ok := r.data[key]
	return ok
}

// Unset removes the key. Removing an absent key is a no-op.
func (r *Registry) Unset(key string) {
	if _, ok := r.data[key]; !ok {
		return
	}
	delete(r.data, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Count returns the number of stored entries.
func (r *Registry) Count() int {
	return len(r.data)
}
