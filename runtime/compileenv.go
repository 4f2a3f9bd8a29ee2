package runtime

import "github.com/dolthub/swiss"

// CompileBinding is what a CompileTimeEnvironment yields for a resolved
// name: which slot of the environment's dense binding vector holds it.
type CompileBinding struct {
	Index uint32
}

// CompileTimeEnvironment is the static, per-scope descriptor produced by the
// compiler: how many bindings a scope has, whether it is a function scope,
// and the name -> slot table used to turn an identifier into an indexed
// read/write. The environment subsystem only ever consumes it; nothing here
// mutates a CompileTimeEnvironment that a real bytecode compiler handed in.
type CompileTimeEnvironment interface {
	NumBindings() uint32
	IsFunction() bool
	GetBinding(name string) (CompileBinding, bool)
}

// StaticScope is the CompileTimeEnvironment this interpreter produces for
// itself. There is no separate compilation pass here: scopes are discovered
// incrementally as the tree-walking evaluator declares names into them, so
// StaticScope grows on demand instead of arriving fully formed. Lookups are
// backed by a swiss.Map, the same hash table mna-nenuphar's resolver reaches
// for when it needs a fast name table.
type StaticScope struct {
	names      *swiss.Map[string, uint32]
	order      []string
	isFunction bool
}

func newStaticScope(isFunction bool) *StaticScope {
	return &StaticScope{
		names:      swiss.NewMap[string, uint32](8),
		isFunction: isFunction,
	}
}

func (s *StaticScope) NumBindings() uint32 { return uint32(len(s.order)) }

func (s *StaticScope) IsFunction() bool { return s.isFunction }

func (s *StaticScope) GetBinding(name string) (CompileBinding, bool) {
	idx, ok := s.names.Get(name)
	if !ok {
		return CompileBinding{}, false
	}
	return CompileBinding{Index: idx}, true
}

// declare assigns a slot to name if it doesn't already have one and reports
// the (possibly pre-existing) slot index.
func (s *StaticScope) declare(name string) uint32 {
	if idx, ok := s.names.Get(name); ok {
		return idx
	}
	idx := uint32(len(s.order))
	s.names.Put(name, idx)
	s.order = append(s.order, name)
	return idx
}
