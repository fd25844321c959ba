package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-delta-analyzer/internal/dataset"
	"go-delta-analyzer/internal/model"
)

// Dataset slots an upload can fill
const (
	RoleBefore = "before"
	RoleAfter  = "after"
)

// ValidRole reports whether role names a dataset slot
func ValidRole(role string) bool {
	return role == RoleBefore || role == RoleAfter
}

// Entry is one uploaded dataset. The dataset is never modified after Put,
// so callers may share it across concurrent analyses.
type Entry struct {
	ID         string         `json:"id"`
	Role       string         `json:"file_type"`
	FileName   string         `json:"filename"`
	UploadedAt time.Time      `json:"uploaded_at"`
	Info       dataset.Info   `json:"info"`
	Dataset    *model.Dataset `json:"-"`
}

// Registry holds the latest upload for each slot
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

func New() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Put stores a loaded dataset under role, replacing any earlier upload
func (r *Registry) Put(role, fileName string, res *dataset.Result) (*Entry, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("file_type must be %q or %q, got %q", RoleBefore, RoleAfter, role)
	}
	if res == nil || res.Dataset == nil {
		return nil, fmt.Errorf("no dataset to store for %s", role)
	}

	e := &Entry{
		ID:         uuid.New().String(),
		Role:       role,
		FileName:   fileName,
		UploadedAt: r.now(),
		Info:       res.Info,
		Dataset:    res.Dataset,
	}

	r.mu.Lock()
	r.entries[role] = e
	r.mu.Unlock()
	return e, nil
}

// Get returns the current upload for role
func (r *Registry) Get(role string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[role]
	return e, ok
}

// Pair returns the current before and after datasets. Either may be nil
// when that slot has not been filled yet.
func (r *Registry) Pair() (before, after *model.Dataset) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[RoleBefore]; ok {
		before = e.Dataset
	}
	if e, ok := r.entries[RoleAfter]; ok {
		after = e.Dataset
	}
	return before, after
}

// List returns all current uploads ordered by role
func (r *Registry) List() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out
}

// Clear drops every upload
func (r *Registry) Clear() {
	r.mu.Lock()
	r.entries = make(map[string]*Entry)
	r.mu.Unlock()
}
