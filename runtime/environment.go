package runtime

import "fmt"

// DeclKind is the kind tag of a DeclarativeEnvironment record.
type DeclKind int

const (
	DeclGlobal DeclKind = iota
	DeclFunction
	DeclLexical
	DeclModule
)

func (k DeclKind) String() string {
	switch k {
	case DeclGlobal:
		return "global"
	case DeclFunction:
		return "function"
	case DeclLexical:
		return "lexical"
	case DeclModule:
		return "module"
	default:
		return "unknown"
	}
}

// ThisBindingStatus is the tri-state of a function environment's `this`.
type ThisBindingStatus int

const (
	// ThisLexical means `this` is not locally bound; arrow functions look
	// it up in the enclosing environment instead.
	ThisLexical ThisBindingStatus = iota
	ThisInitialized
	// ThisUninitialized marks a derived-constructor environment before
	// super() has run. Reading `this` in this state is a ReferenceError.
	ThisUninitialized
)

// FunctionSlots holds the extra state a Function-kind DeclarativeEnvironment
// carries on top of its ordinary bindings.
type FunctionSlots struct {
	This       *Value
	ThisStatus ThisBindingStatus
	NewTarget  *Value
	HomeObject *Object // for super property/method resolution
}

// bindingSlot is one entry of a DeclarativeEnvironment's dense binding
// vector. initialized=false models the TDZ: the slot exists (the compiler
// reserved it) but has never been assigned a value.
type bindingSlot struct {
	value       *Value
	initialized bool
	mutable     bool
	kind        string // "var", "let", "const", "function" — informational
}

// DeclarativeEnvironment is the runtime storage for one lexical scope's
// bindings: a function body, a block, a module, or the global record.
type DeclarativeEnvironment struct {
	Kind     DeclKind
	compile  *StaticScope
	bindings []bindingSlot

	// poisoned and with are monotonic: once set they never clear, matching
	// the invariant that a nested `with`/`eval` can only ever widen what a
	// dynamic lookup must consider, never narrow it back.
	poisoned bool
	with     bool

	fn *FunctionSlots // non-nil only when Kind == DeclFunction

	// globalObj links the Global record to the global object so that
	// var/function declarations are mirrored as the object's own
	// properties, matching how `with`/property lookups expect to see them.
	globalObj *Object

	annexB map[string]bool
}

func newDeclarativeEnvironment(kind DeclKind) *DeclarativeEnvironment {
	return &DeclarativeEnvironment{
		Kind:    kind,
		compile: newStaticScope(kind == DeclFunction),
	}
}

// CompileEnv returns the compile-time environment that shaped this record.
func (d *DeclarativeEnvironment) CompileEnv() CompileTimeEnvironment { return d.compile }

// NumBindings is the length of the dense binding vector.
func (d *DeclarativeEnvironment) NumBindings() uint32 { return uint32(len(d.bindings)) }

// Get is the O(1) indexed read: ok is false for a TDZ slot.
func (d *DeclarativeEnvironment) Get(slot uint32) (*Value, bool) {
	if int(slot) >= len(d.bindings) {
		return nil, false
	}
	b := d.bindings[slot]
	if !b.initialized {
		return nil, false
	}
	return b.value, true
}

// Set is the O(1) indexed write. It does not check mutability; enforcing
// const/let reassignment rules is the caller's static responsibility, per
// the spec this subsystem implements.
func (d *DeclarativeEnvironment) Set(slot uint32, v *Value) {
	if int(slot) >= len(d.bindings) {
		return
	}
	d.bindings[slot].value = v
	d.bindings[slot].initialized = true
}

// PutIfUninitialized writes v only if the slot has never been initialized,
// and is a no-op otherwise.
func (d *DeclarativeEnvironment) PutIfUninitialized(slot uint32, v *Value) {
	if int(slot) >= len(d.bindings) || d.bindings[slot].initialized {
		return
	}
	d.bindings[slot].value = v
	d.bindings[slot].initialized = true
}

func (d *DeclarativeEnvironment) IsMutable(slot uint32) bool {
	if int(slot) >= len(d.bindings) {
		return true
	}
	return d.bindings[slot].mutable
}

// HasThisBinding reports whether this record type can hold `this` at all.
func (d *DeclarativeEnvironment) HasThisBinding() bool {
	switch d.Kind {
	case DeclGlobal, DeclModule:
		return true
	case DeclFunction:
		return d.fn != nil && d.fn.ThisStatus != ThisLexical
	default:
		return false
	}
}

// GetThisBinding implements the GetThisBinding operation for this record.
func (d *DeclarativeEnvironment) GetThisBinding() (*Value, error) {
	switch d.Kind {
	case DeclGlobal, DeclModule:
		if d.globalObj != nil {
			return NewObject(d.globalObj), nil
		}
		return Undefined, nil
	case DeclFunction:
		if d.fn == nil {
			return nil, nil
		}
		switch d.fn.ThisStatus {
		case ThisLexical:
			return nil, nil
		case ThisUninitialized:
			return nil, fmt.Errorf("ReferenceError: must call super constructor before accessing 'this'")
		default:
			return d.fn.This, nil
		}
	default:
		return nil, nil
	}
}

// BindThisValue initializes an Uninitialized derived-constructor `this`,
// called when the constructor's super() call returns.
func (d *DeclarativeEnvironment) BindThisValue(v *Value) {
	if d.fn == nil {
		return
	}
	d.fn.This = v
	d.fn.ThisStatus = ThisInitialized
}

func (d *DeclarativeEnvironment) Slots() *FunctionSlots { return d.fn }

// Poison sets the poisoned flag. Idempotent, and never clears once set.
func (d *DeclarativeEnvironment) Poison() { d.poisoned = true }

func (d *DeclarativeEnvironment) Poisoned() bool { return d.poisoned }

func (d *DeclarativeEnvironment) With() bool { return d.with }

// declareSlot reserves a new slot (or reuses the existing one) for name and
// returns its index, mirroring how a real compiler would have already fixed
// the scope's shape; this tree-walking interpreter instead discovers it
// on first declaration.
func (d *DeclarativeEnvironment) declareSlot(name string, kind string, mutable bool) uint32 {
	idx := d.compile.declare(name)
	for uint32(len(d.bindings)) <= idx {
		d.bindings = append(d.bindings, bindingSlot{})
	}
	d.bindings[idx].kind = kind
	d.bindings[idx].mutable = mutable
	return idx
}

// EnvTag distinguishes the two shapes a stack entry can take.
type EnvTag int

const (
	EnvDeclarative EnvTag = iota
	EnvObject
)

// Environment is one entry of the runtime scope chain: a sum type over a
// DeclarativeEnvironment and an object environment record backed by an
// ordinary object, introduced by `with` or standing in for the global
// object.
type Environment struct {
	Tag   EnvTag
	Decl  *DeclarativeEnvironment // set when Tag == EnvDeclarative
	Obj   *Object                 // set when Tag == EnvObject
	outer *Environment
}

func newDeclEnvironment(outer *Environment, decl *DeclarativeEnvironment) *Environment {
	return &Environment{Tag: EnvDeclarative, Decl: decl, outer: outer}
}

func newObjEnvironment(outer *Environment, obj *Object) *Environment {
	return &Environment{Tag: EnvObject, Obj: obj, outer: outer}
}

// NewObjectEnvironment pushes an object environment record over obj on top
// of outer — the binding object a `with` statement resolves identifiers
// against before falling through to its lexical outer scope.
func NewObjectEnvironment(outer *Environment, obj *Object) *Environment {
	return newObjEnvironment(outer, obj)
}

// Outer returns the enclosing environment, or nil only for the global
// record (which has no outer; it sits below the reachable chain).
func (e *Environment) Outer() *Environment { return e.outer }

// IsObjectEnv reports whether this entry is an object environment record.
func (e *Environment) IsObjectEnv() bool { return e != nil && e.Tag == EnvObject }

// nearestDeclarative walks outward (including self) to the first
// declarative record, skipping object environments. Declarations always
// land in a declarative scope; `with` never changes where a `var`/`let`
// is recorded, only how existing names are looked up.
func (e *Environment) nearestDeclarative() *Environment {
	for cur := e; cur != nil; cur = cur.outer {
		if cur.Tag == EnvDeclarative {
			return cur
		}
	}
	return nil
}

// ---- Compatibility surface -------------------------------------------
//
// The methods below preserve the call shape the interpreter and builtins
// package already use (Declare/Get/Set/...), now implemented against the
// richer Declarative/Object/TDZ model instead of a bare map.

// NewEnvironment constructs a standalone declarative environment (Lexical,
// or Global when outer is nil). Prefer EnvironmentStack.Push* when a real
// stack is available; this constructor exists for call sites (builtins
// bootstrap, tests) that just need one scope without stack bookkeeping.
func NewEnvironment(outer *Environment, isBlock bool) *Environment {
	kind := DeclLexical
	if !isBlock && outer == nil {
		kind = DeclGlobal
	}
	decl := newDeclarativeEnvironment(kind)
	env := newDeclEnvironment(outer, decl)
	if outer != nil {
		if outer.IsObjectEnv() {
			decl.with = true
		} else if nd := outer.nearestDeclarative(); nd != nil {
			decl.with = nd.Decl.with
			decl.poisoned = nd.Decl.poisoned
		}
	}
	return env
}

// SetGlobalObject links this environment to a global object so that
// var/function bindings are mirrored as own properties of the object.
func (e *Environment) SetGlobalObject(obj *Object) {
	d := e.nearestDeclarative().Decl
	d.globalObj = obj
	if obj.Internal == nil {
		obj.Internal = make(map[string]interface{})
	}
	obj.Internal["globalEnv"] = e
	for i, name := range d.compile.order {
		b := d.bindings[i]
		if b.kind == "var" || b.kind == "function" {
			obj.Properties[name] = &Property{
				Value:        b.value,
				Writable:     true,
				Enumerable:   false,
				Configurable: true,
			}
		}
	}
}

// GlobalObject returns the global object if set.
func (e *Environment) GlobalObject() *Object {
	return e.nearestDeclarative().Decl.globalObj
}

// GetBinding returns the binding value for a name in the current scope
// only, mirroring the old map-based accessor used by a couple of call
// sites that need to inspect a binding without walking the chain.
func (e *Environment) GetBinding(name string) (*Value, bool) {
	d := e.nearestDeclarative().Decl
	cb, ok := d.compile.GetBinding(name)
	if !ok {
		return nil, false
	}
	v, _ := d.Get(cb.Index)
	return v, true
}

// DeclareNoMirror declares a variable without mirroring to the global
// object. Used by Object.DefineProperty to avoid infinite recursion.
func (e *Environment) DeclareNoMirror(name string, kind string, value *Value) {
	d := e.nearestDeclarative().Decl
	if _, ok := d.compile.GetBinding(name); ok {
		return
	}
	idx := d.declareSlot(name, kind, true)
	d.Set(idx, value)
}

// Declare declares a variable in the current scope.
func (e *Environment) Declare(name string, kind string, value *Value) error {
	d := e.nearestDeclarative().Decl
	if kind == "let" || kind == "const" {
		if idx, ok := d.compile.GetBinding(name); ok {
			if d.bindings[idx].kind == "let" || d.bindings[idx].kind == "const" {
				return fmt.Errorf("SyntaxError: Identifier '%s' has already been declared", name)
			}
		}
	}
	idx := d.declareSlot(name, kind, kind != "const")
	d.Set(idx, value)
	if d.globalObj != nil && (kind == "var" || kind == "function") {
		if existing, ok := d.globalObj.Properties[name]; ok {
			existing.Value = value
		} else {
			d.globalObj.Properties[name] = &Property{
				Value:        value,
				Writable:     true,
				Enumerable:   true,
				Configurable: true,
			}
		}
	}
	return nil
}

// Get retrieves a variable value, walking up the scope chain. This is the
// plain (non-locator) resolution path the interpreter's tree-walking
// evaluator actually uses for every identifier reference in user source
// (see interpreter.evalIdentifier); it folds the BindingLocator subsystem's
// @@unscopables check directly into the walk rather than going through a
// separate two-phase Resolve+FindRuntimeBinding pass, since there is no
// cached locator here to re-verify in the first place — every call already
// walks the live chain.
func (e *Environment) Get(name string) (*Value, error) {
	for cur := e; cur != nil; cur = cur.outer {
		if cur.Tag == EnvObject {
			if cur.Obj.HasProperty(name) && !isUnscopable(cur.Obj, name) {
				return cur.Obj.Get(name), nil
			}
			continue
		}
		d := cur.Decl
		if idx, ok := d.compile.GetBinding(name); ok {
			v, initialized := d.Get(idx)
			if !initialized {
				return nil, fmt.Errorf("ReferenceError: Cannot access '%s' before initialization", name)
			}
			return v, nil
		}
	}
	if nd := e.nearestDeclarative(); nd != nil && nd.Decl.globalObj != nil {
		g := nd.Decl.globalObj
		if g.HasProperty(name) {
			return g.Get(name), nil
		}
	}
	return nil, fmt.Errorf("ReferenceError: %s is not defined", name)
}

// Set updates a variable value in the scope where it was declared, honoring
// @@unscopables the same way Get does.
func (e *Environment) Set(name string, value *Value) error {
	for cur := e; cur != nil; cur = cur.outer {
		if cur.Tag == EnvObject {
			if cur.Obj.HasProperty(name) && !isUnscopable(cur.Obj, name) {
				cur.Obj.Set(name, value)
				return nil
			}
			continue
		}
		d := cur.Decl
		if idx, ok := d.compile.GetBinding(name); ok {
			if !d.IsMutable(idx) {
				return fmt.Errorf("TypeError: Assignment to constant variable '%s'", name)
			}
			d.Set(idx, value)
			if d.globalObj != nil {
				kind := d.bindings[idx].kind
				if kind == "var" || kind == "function" {
					if prop, ok := d.globalObj.Properties[name]; ok {
						prop.Value = value
					}
				}
			}
			return nil
		}
	}
	return fmt.Errorf("ReferenceError: %s is not defined", name)
}

// SetInCurrentScope sets/creates a variable in the current scope (for var
// hoisting).
func (e *Environment) SetInCurrentScope(name string, value *Value) {
	d := e.nearestDeclarative().Decl
	if idx, ok := d.compile.GetBinding(name); ok {
		d.Set(idx, value)
		if d.globalObj != nil {
			if prop, ok := d.globalObj.Properties[name]; ok {
				prop.Value = value
			}
		}
		return
	}
	idx := d.declareSlot(name, "var", true)
	d.Set(idx, value)
	if d.globalObj != nil {
		d.globalObj.Properties[name] = &Property{
			Value:        value,
			Writable:     true,
			Enumerable:   true,
			Configurable: true,
		}
	}
}

// DeclareVar declares a var binding only if the name doesn't already exist
// in this scope. Used for Annex B block-level function hoisting.
func (e *Environment) DeclareVar(name string) {
	e.DeclareVarEx(name, true)
}

func (e *Environment) DeclareVarEx(name string, configurable bool) {
	d := e.nearestDeclarative().Decl
	if d.annexB == nil {
		d.annexB = make(map[string]bool)
	}
	d.annexB[name] = true
	if _, ok := d.compile.GetBinding(name); ok {
		return
	}
	idx := d.declareSlot(name, "var", true)
	d.Set(idx, Undefined)
	if d.globalObj != nil {
		if _, ok := d.globalObj.Properties[name]; !ok {
			d.globalObj.Properties[name] = &Property{
				Value:        Undefined,
				Writable:     true,
				Enumerable:   true,
				Configurable: configurable,
			}
		}
	}
}

// IsAnnexBHoisted returns true if the given name was Annex B hoisted in
// this scope.
func (e *Environment) IsAnnexBHoisted(name string) bool {
	d := e.nearestDeclarative().Decl
	return d.annexB != nil && d.annexB[name]
}

// GetFunctionScope walks up to find the nearest function, module, or
// global declarative scope.
func (e *Environment) GetFunctionScope() *Environment {
	nd := e.nearestDeclarative()
	if nd.Decl.Kind != DeclLexical {
		return nd
	}
	if nd.outer != nil {
		return nd.outer.GetFunctionScope()
	}
	return nd
}

// HasVarBinding returns true if the given name has a var or function
// binding in this scope.
func (e *Environment) HasVarBinding(name string) bool {
	d := e.nearestDeclarative().Decl
	idx, ok := d.compile.GetBinding(name)
	if !ok {
		return false
	}
	kind := d.bindings[idx].kind
	return kind == "var" || kind == "function"
}

// IsBlock returns true if this is a block (lexical, non-function) scope.
func (e *Environment) IsBlock() bool {
	return e.nearestDeclarative().Decl.Kind == DeclLexical
}

// HasLexicalInEnclosingBlocks checks whether any block scope between this
// scope's parent and the target scope (exclusive) has a lexical binding
// (let/const/function) for the given name.
func (e *Environment) HasLexicalInEnclosingBlocks(name string, target *Environment) bool {
	for cur := e.outer; cur != nil && cur != target; cur = cur.outer {
		if cur.Tag == EnvObject {
			break
		}
		if cur.Decl.Kind != DeclLexical {
			break
		}
		if idx, ok := cur.Decl.compile.GetBinding(name); ok {
			kind := cur.Decl.bindings[idx].kind
			if kind == "let" || kind == "const" || kind == "function" {
				return true
			}
		}
	}
	return false
}

// ForEachBinding calls fn for each binding in the current scope.
func (e *Environment) ForEachBinding(fn func(name string, kind string)) {
	d := e.nearestDeclarative().Decl
	for i, name := range d.compile.order {
		fn(name, d.bindings[i].kind)
	}
}

// HasBinding returns true if this scope has a binding for the given name.
func (e *Environment) HasBinding(name string) bool {
	d := e.nearestDeclarative().Decl
	_, ok := d.compile.GetBinding(name)
	return ok
}

// ThisFromObjectEnvironment walks outward from e looking for the object
// environment (a with-statement binding object) that would supply `this`
// for an unqualified call to name — the plain-chain equivalent of
// EnvironmentStack.ThisFromObjectEnvironmentBinding, used by the
// interpreter's call evaluator so `with (o) { f() }` binds `this` to o when
// f is one of o's own (non-unscopable) properties. ok is false when
// resolution would land on a declarative binding instead, or when no
// `with` is in effect at all.
func (e *Environment) ThisFromObjectEnvironment(name string) (obj *Object, ok bool) {
	if e.Tag != EnvObject {
		if nd := e.nearestDeclarative(); nd == nil || !nd.Decl.with {
			return nil, false
		}
	}
	for cur := e; cur != nil; cur = cur.outer {
		if cur.Tag == EnvObject {
			if cur.Obj.HasProperty(name) {
				if !isUnscopable(cur.Obj, name) {
					return cur.Obj, true
				}
			}
			continue
		}
		d := cur.Decl
		if d.poisoned {
			if d.compile.IsFunction() {
				if _, ok := d.compile.GetBinding(name); ok {
					break
				}
			}
		} else if !d.with {
			break
		}
	}
	return nil, false
}
