package chat

import "sync"

// Registry maps user IDs to their live connection handles. Many handles may
// serve a single user (multi-device); a handle belongs to at most one user at
// a time. The zero state after a deregister is indistinguishable from never
// having registered.
type Registry struct {
	mu       sync.RWMutex
	byUser   map[uint]map[*Client]struct{}
	byHandle map[*Client]uint
}

func NewRegistry() *Registry {
	return &Registry{
		byUser:   make(map[uint]map[*Client]struct{}),
		byHandle: make(map[*Client]uint),
	}
}

// Register associates the handle with userID. Registering the same handle
// again is safe; a different userID moves the handle over.
func (r *Registry) Register(userID uint, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byHandle[c]; ok {
		if prev == userID {
			return
		}
		r.removeLocked(prev, c)
	}

	handles, ok := r.byUser[userID]
	if !ok {
		handles = make(map[*Client]struct{})
		r.byUser[userID] = handles
	}
	handles[c] = struct{}{}
	r.byHandle[c] = userID
}

// Deregister drops the handle. Unknown handles are a no-op: a client may
// disconnect before it ever sent its register event.
func (r *Registry) Deregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byHandle[c]
	if !ok {
		return
	}
	r.removeLocked(userID, c)
}

func (r *Registry) removeLocked(userID uint, c *Client) {
	delete(r.byHandle, c)
	if handles, ok := r.byUser[userID]; ok {
		delete(handles, c)
		if len(handles) == 0 {
			delete(r.byUser, userID)
		}
	}
}

// HandlesFor returns a snapshot of the user's live handles.
func (r *Registry) HandlesFor(userID uint) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := r.byUser[userID]
	if len(handles) == 0 {
		return nil
	}

	out := make([]*Client, 0, len(handles))
	for c := range handles {
		out = append(out, c)
	}
	return out
}
