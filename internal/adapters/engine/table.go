package engine

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// entry is one registered engine and the owner's release action.
type entry struct {
	engine  ports.Engine
	release func()
	once    sync.Once
}

// Table is the owner of registered engines. It hands out handles that
// frontends borrow through ports.EngineRef; only Delete ends an engine's
// life, and it runs the release action exactly once.
type Table struct {
	entries cmap.ConcurrentMap[string, *entry]
	next    atomic.Uintptr
}

var _ ports.EngineResolver = (*Table)(nil)

// NewTable creates an empty table. Handles start at 1 so that the zero
// handle never resolves.
func NewTable() *Table {
	return &Table{entries: cmap.New[*entry]()}
}

func key(h ports.EngineHandle) string {
	return strconv.FormatUint(uint64(h), 16)
}

// Register adds an engine and returns its handle. release runs when the
// handle is deleted; it may be nil.
func (t *Table) Register(e ports.Engine, release func()) ports.EngineHandle {
	h := ports.EngineHandle(t.next.Add(1))
	t.entries.Set(key(h), &entry{engine: e, release: release})

	return h
}

// Lookup implements ports.EngineResolver.
func (t *Table) Lookup(h ports.EngineHandle) (ports.Engine, bool) {
	ent, ok := t.entries.Get(key(h))
	if !ok {
		return nil, false
	}

	return ent.engine, true
}

// Delete removes the engine and runs its release action.
// Unknown handles yield a domain.NotFoundError.
func (t *Table) Delete(h ports.EngineHandle) error {
	ent, ok := t.entries.Pop(key(h))
	if !ok {
		return domain.NewNotFoundError(fmt.Sprintf("engine handle %s not registered", h))
	}

	if ent.release != nil {
		ent.once.Do(ent.release)
	}

	return nil
}

// Len returns the number of registered engines.
func (t *Table) Len() int {
	return t.entries.Count()
}
