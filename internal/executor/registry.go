package executor

import (
	"sort"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/intent"
)

// Registry maps intent categories to executors. Built once at startup
// and never mutated, so lookups need no locking.
type Registry struct {
	executors map[intent.Category]Executor
}

func NewRegistry(executors map[intent.Category]Executor) *Registry {
	own := make(map[intent.Category]Executor, len(executors))
	for c, e := range executors {
		own[c] = e
	}
	return &Registry{executors: own}
}

// Lookup returns the executor registered for category.
func (r *Registry) Lookup(category intent.Category) (Executor, error) {
	e, ok := r.executors[category]
	if !ok {
		return nil, stderrors.NewNoExecutorError(string(category))
	}
	return e, nil
}

// Names returns the registered executor names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.executors))
	for _, e := range r.executors {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
