// Package tracking holds the group-tracking overlay state: which hiker
// groups are shown on the map and the markers derived from their recorded
// coordinates.
package tracking

import (
	"sort"
	"sync"
)

// Visibility tracks a per-group "shown on map" flag. Unknown groups are
// visible. It is safe for concurrent use.
type Visibility struct {
	flags map[string]bool
	mu    sync.RWMutex
}

// NewVisibility returns a model with every id in ids visible.
func NewVisibility(ids []string) *Visibility {
	v := &Visibility{}
	v.Initialize(ids)
	return v
}

// Initialize replaces all state: every id becomes visible and earlier
// toggles are discarded, including those for ids no longer in the list.
func (v *Visibility) Initialize(ids []string) {
	flags := make(map[string]bool, len(ids))
	for _, id := range ids {
		flags[id] = true
	}

	v.mu.Lock()
	v.flags = flags
	v.mu.Unlock()
}

// Toggle flips the flag for id and returns the new value. An unknown id
// starts visible, so its first toggle hides it.
func (v *Visibility) Toggle(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.flags == nil {
		v.flags = make(map[string]bool)
	}
	current, ok := v.flags[id]
	if !ok {
		current = true
	}
	v.flags[id] = !current
	return !current
}

// IsVisible reports the flag for id.
func (v *Visibility) IsVisible(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	shown, ok := v.flags[id]
	if !ok {
		return true
	}
	return shown
}

// VisibleIDs returns the known ids that are currently shown, sorted.
func (v *Visibility) VisibleIDs() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ids := make([]string, 0, len(v.flags))
	for id, shown := range v.flags {
		if shown {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of tracked ids.
func (v *Visibility) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.flags)
}
