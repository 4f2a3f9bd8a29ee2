package runtime

import "fmt"

// LocatorEnvKind tags where a BindingLocator's environment component points.
type LocatorEnvKind int

const (
	// LocatorGlobalObject means the binding lives on the global object
	// itself (a var/function declared at top level, looked up as a
	// property rather than a declarative slot).
	LocatorGlobalObject LocatorEnvKind = iota
	// LocatorGlobalDeclarative means the binding lives in the global
	// declarative record (let/const/class declared at top level).
	LocatorGlobalDeclarative
	// LocatorStack means the binding lives in a declarative record at a
	// specific index of the current EnvironmentStack's frame vector.
	LocatorStack
)

// BindingLocator is the packed, statically-resolved description of where an
// identifier's binding lives: the encoding mirrors what a bytecode compiler
// would bake into an instruction operand. environment==0 means the global
// object, environment==1 means the global declarative record, and
// environment>=2 means Stack(environment-2); slot is meaningless for
// LocatorGlobalObject (the binding is found by name, not index).
type BindingLocator struct {
	Name        string
	environment uint32
	slot        uint32
}

const (
	locatorGlobalObjectTag      uint32 = 0
	locatorGlobalDeclarativeTag uint32 = 1
	locatorStackBase            uint32 = 2
)

// NewGlobalObjectLocator builds a locator for a binding resolved onto the
// global object.
func NewGlobalObjectLocator(name string) BindingLocator {
	return BindingLocator{Name: name, environment: locatorGlobalObjectTag}
}

// NewGlobalDeclarativeLocator builds a locator for a binding resolved into
// the global declarative record at the given slot.
func NewGlobalDeclarativeLocator(name string, slot uint32) BindingLocator {
	return BindingLocator{Name: name, environment: locatorGlobalDeclarativeTag, slot: slot}
}

// NewStackLocator builds a locator for a binding resolved to a declarative
// record at a specific stack index.
func NewStackLocator(name string, stackIndex uint32, slot uint32) BindingLocator {
	return BindingLocator{Name: name, environment: locatorStackBase + stackIndex, slot: slot}
}

// Kind reports which of the three encodings this locator uses.
func (b BindingLocator) Kind() LocatorEnvKind {
	switch b.environment {
	case locatorGlobalObjectTag:
		return LocatorGlobalObject
	case locatorGlobalDeclarativeTag:
		return LocatorGlobalDeclarative
	default:
		return LocatorStack
	}
}

// StackIndex returns the frame index for a LocatorStack locator. Only valid
// when Kind() == LocatorStack.
func (b BindingLocator) StackIndex() uint32 { return b.environment - locatorStackBase }

// Slot returns the binding slot index within the resolved environment.
func (b BindingLocator) Slot() uint32 { return b.slot }

// Pack returns the raw (environment, slot) pair, for callers (e.g. a
// bytecode encoder) that want to store the locator as two plain integers
// and reconstruct it later with Unpack — this is the exact round trip a
// real instruction stream depends on.
func (b BindingLocator) Pack() (name string, environment uint32, slot uint32) {
	return b.Name, b.environment, b.slot
}

// Unpack reconstructs a BindingLocator from a previously Packed triple.
func Unpack(name string, environment uint32, slot uint32) BindingLocator {
	return BindingLocator{Name: name, environment: environment, slot: slot}
}

// ResolveBindingLocator performs the static resolution a compiler would do
// ahead of time: walk the declarative chain from the given environment
// outward, skipping object environment records entirely (a `with` scope is
// invisible to static resolution; only FindRuntimeBinding at call time can
// see it), and return the first declarative record that has the name. The
// stack index recorded in the result is the index of that record within
// frames, as supplied by the caller (normally EnvironmentStack.indexOf).
func ResolveBindingLocator(env *Environment, indexOf func(*Environment) (uint32, bool), name string) BindingLocator {
	for cur := env; cur != nil; cur = cur.outer {
		if cur.Tag == EnvObject {
			continue
		}
		d := cur.Decl
		if cb, ok := d.compile.GetBinding(name); ok {
			if d.Kind == DeclGlobal {
				kind := d.bindings[cb.Index].kind
				if kind == "var" || kind == "function" {
					return NewGlobalObjectLocator(name)
				}
				return NewGlobalDeclarativeLocator(name, cb.Index)
			}
			if idx, ok := indexOf(cur); ok {
				return NewStackLocator(name, idx, cb.Index)
			}
		}
	}
	return NewGlobalObjectLocator(name)
}

// FindRuntimeBinding re-verifies a statically-resolved locator against the
// live environment chain, per the dynamic resolution algorithm: if the
// innermost scope is neither poisoned nor a `with` scope, the static
// locator is trusted as-is (the fast path — nothing dynamic could have
// shadowed it). Otherwise every scope between the innermost and the
// resolved target is rescanned by name, honoring `with` object properties
// (and @@unscopables) and stopping at the first non-with, non-poisoned
// declarative scope that would have stopped static resolution too. A
// poisoned global scope is the final fallback.
func FindRuntimeBinding(innermost *Environment, indexOf func(*Environment) (uint32, bool), loc BindingLocator) (BindingLocator, *Environment, error) {
	nd := innermost.nearestDeclarative()
	if nd == nil {
		return loc, nil, fmt.Errorf("ReferenceError: %s is not defined", loc.Name)
	}
	if innermost.Tag != EnvObject && !nd.Decl.poisoned && !nd.Decl.with {
		return loc, resolveEnvForLocator(innermost, indexOf, loc), nil
	}

	for cur := innermost; cur != nil; cur = cur.outer {
		if cur.Tag == EnvObject {
			has := cur.Obj.HasProperty(loc.Name) && !isUnscopable(cur.Obj, loc.Name)
			if has {
				idx, _ := indexOf(cur)
				return NewStackLocator(loc.Name, idx, 0), cur, nil
			}
			continue
		}
		d := cur.Decl
		if cb, ok := d.compile.GetBinding(loc.Name); ok {
			if d.Kind == DeclGlobal {
				kind := d.bindings[cb.Index].kind
				if kind == "var" || kind == "function" {
					return NewGlobalObjectLocator(loc.Name), cur, nil
				}
				return NewGlobalDeclarativeLocator(loc.Name, cb.Index), cur, nil
			}
			idx, _ := indexOf(cur)
			return NewStackLocator(loc.Name, idx, cb.Index), cur, nil
		}
	}
	return loc, nil, fmt.Errorf("ReferenceError: %s is not defined", loc.Name)
}

func resolveEnvForLocator(innermost *Environment, indexOf func(*Environment) (uint32, bool), loc BindingLocator) *Environment {
	switch loc.Kind() {
	case LocatorGlobalObject, LocatorGlobalDeclarative:
		for cur := innermost; cur != nil; cur = cur.outer {
			if cur.Tag == EnvDeclarative && cur.Decl.Kind == DeclGlobal {
				return cur
			}
		}
		return nil
	default:
		for cur := innermost; cur != nil; cur = cur.outer {
			if idx, ok := indexOf(cur); ok && idx == loc.StackIndex() {
				return cur
			}
		}
		return nil
	}
}

func isUnscopable(obj *Object, name string) bool {
	unscopablesVal := obj.GetSymbolOwn(SymUnscopables)
	if unscopablesVal == nil || unscopablesVal.Type != TypeObject {
		return false
	}
	prop := unscopablesVal.Object.Get(name)
	return prop != nil && prop.ToBoolean()
}
