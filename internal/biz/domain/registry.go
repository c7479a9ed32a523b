package domain

// MaxSubscribers bounds the subscriber roster
const MaxSubscribers = 10

// AddResult is the outcome of a registry add attempt
type AddResult int

const (
	// Admitted means the subscriber was inserted
	Admitted AddResult = iota
	// AlreadyPresent means the subscriber was registered before (no-op success)
	AlreadyPresent
	// CapacityReached means the roster is full and the subscriber was rejected
	CapacityReached
)

// Subscriber is one registered chat participant
type Subscriber struct {
	ID   string
	Name string
}

// SubscriberRegistry is the bounded roster of chats receiving outbound
// notifications. It is owned exclusively by the reconciliation engine and
// never persisted; the process starts with the configured seed roster.
type SubscriberRegistry struct {
	names map[string]string
	order []string // insertion order, for deterministic snapshots
}

// NewSubscriberRegistry creates an empty registry
func NewSubscriberRegistry() *SubscriberRegistry {
	return &SubscriberRegistry{
		names: make(map[string]string),
	}
}

// TryAdd inserts a subscriber if there is room. Adding an existing
// subscriber is a no-op success.
func (r *SubscriberRegistry) TryAdd(id, name string) AddResult {
	if _, ok := r.names[id]; ok {
		return AlreadyPresent
	}
	if len(r.names) >= MaxSubscribers {
		return CapacityReached
	}
	r.names[id] = name
	r.order = append(r.order, id)
	return Admitted
}

// Remove deletes a subscriber and reports whether it was present
func (r *SubscriberRegistry) Remove(id string) bool {
	if _, ok := r.names[id]; !ok {
		return false
	}
	delete(r.names, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains checks whether a subscriber is registered
func (r *SubscriberRegistry) Contains(id string) bool {
	_, ok := r.names[id]
	return ok
}

// Len returns the current roster size
func (r *SubscriberRegistry) Len() int {
	return len(r.names)
}

// Snapshot returns the roster in insertion order
func (r *SubscriberRegistry) Snapshot() []Subscriber {
	subs := make([]Subscriber, 0, len(r.order))
	for _, id := range r.order {
		subs = append(subs, Subscriber{ID: id, Name: r.names[id]})
	}
	return subs
}

// IDByName finds the first subscriber with the given display name
func (r *SubscriberRegistry) IDByName(name string) (string, bool) {
	for _, id := range r.order {
		if r.names[id] == name {
			return id, true
		}
	}
	return "", false
}
