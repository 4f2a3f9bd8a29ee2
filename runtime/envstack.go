package runtime

import "fmt"

// EnvironmentStack owns scope push/pop for one evaluation thread. It keeps
// two views of the same scopes in lockstep: frames is a dense vector
// giving every pushed declarative/object environment a stable integer
// index (what a BindingLocator's Stack(n) refers to), while each
// Environment's own outer pointer gives the cheap linked-list walk the
// tree-walking evaluator and closures actually traverse. Pop/Truncate/
// Extend keep the two views consistent.
type EnvironmentStack struct {
	global  *Environment
	frames  []*Environment
	private []*PrivateEnvironment
	nextPID uint32
}

// NewEnvironmentStack creates a stack rooted at a fresh Global environment.
func NewEnvironmentStack() *EnvironmentStack {
	global := newDeclEnvironment(nil, newDeclarativeEnvironment(DeclGlobal))
	return &EnvironmentStack{global: global, frames: []*Environment{global}}
}

// Global returns the Global environment.
func (s *EnvironmentStack) Global() *Environment { return s.global }

// Current returns the innermost pushed environment.
func (s *EnvironmentStack) Current() *Environment {
	if len(s.frames) == 0 {
		return s.global
	}
	return s.frames[len(s.frames)-1]
}

// Len is the number of frames currently on the stack, including the
// global frame at index 0.
func (s *EnvironmentStack) Len() uint32 { return uint32(len(s.frames)) }

// indexOf returns the frame index of env, used to build/verify
// BindingLocator stack indices.
func (s *EnvironmentStack) indexOf(env *Environment) (uint32, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i] == env {
			return uint32(i), true
		}
	}
	return 0, false
}

func (s *EnvironmentStack) push(env *Environment) *Environment {
	s.frames = append(s.frames, env)
	return env
}

// PushLexical pushes a new Lexical (block) declarative scope.
func (s *EnvironmentStack) PushLexical() *Environment {
	outer := s.Current()
	decl := newDeclarativeEnvironment(DeclLexical)
	decl.with = outer.Tag == EnvObject || outer.nearestDeclarative().Decl.with
	decl.poisoned = outer.nearestDeclarative().Decl.poisoned
	return s.push(newDeclEnvironment(outer, decl))
}

// PushFunction pushes a new Function declarative scope with the given
// `this`/new.target/home-object slots.
func (s *EnvironmentStack) PushFunction(slots *FunctionSlots) *Environment {
	outer := s.Current()
	decl := newDeclarativeEnvironment(DeclFunction)
	decl.fn = slots
	nd := outer.nearestDeclarative()
	decl.with = outer.Tag == EnvObject || nd.Decl.with
	decl.poisoned = nd.Decl.poisoned
	return s.push(newDeclEnvironment(outer, decl))
}

// PushModule pushes a new Module declarative scope.
func (s *EnvironmentStack) PushModule() *Environment {
	outer := s.Current()
	decl := newDeclarativeEnvironment(DeclModule)
	return s.push(newDeclEnvironment(outer, decl))
}

// PushObject pushes an object environment record over obj — the
// implementation of entering a `with` statement. The new binding object
// environment, and every scope nested inside it, is marked `with`: sticky,
// so a dynamic lookup never forgets it might have to consult this object.
func (s *EnvironmentStack) PushObject(obj *Object) *Environment {
	outer := s.Current()
	env := newObjEnvironment(outer, obj)
	return s.push(env)
}

// Pop removes the innermost frame. It never pops the global frame.
func (s *EnvironmentStack) Pop() {
	if len(s.frames) <= 1 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// PopToGlobal truncates the stack back to just the global frame, returning
// the discarded frames so a caller (a function call) can restore a
// different chain in their place and Extend back to the original later.
func (s *EnvironmentStack) PopToGlobal() []*Environment {
	saved := s.frames[1:]
	s.frames = s.frames[:1]
	return saved
}

// Truncate resets the stack to exactly the given frame slice (a snapshot
// previously returned by PopToGlobal, Frames, or Extend). It is the
// caller's responsibility to ensure frames[0] == s.global.
func (s *EnvironmentStack) Truncate(frames []*Environment) {
	s.frames = frames
}

// Frames returns the current frame vector. Closures capture this slice
// verbatim (it is never mutated in place — push/pop/extend always
// reslice or reassign) so a captured snapshot stays valid after the stack
// that produced it moves on.
func (s *EnvironmentStack) Frames() []*Environment {
	return s.frames
}

// Extend appends the given frames (typically a closure's captured chain)
// on top of the current stack, copying into a fresh slice so earlier
// snapshots are left untouched.
func (s *EnvironmentStack) Extend(extra []*Environment) {
	s.frames = append(append([]*Environment{}, s.frames...), extra...)
}

// GetThisEnvironment walks outward from the current scope to the nearest
// environment record that can hold `this`.
func (s *EnvironmentStack) GetThisEnvironment() *Environment {
	for cur := s.Current(); cur != nil; cur = cur.outer {
		if cur.Tag == EnvDeclarative && cur.Decl.HasThisBinding() {
			return cur
		}
	}
	return s.global
}

// GetThisBinding resolves the `this` value visible from the current scope.
func (s *EnvironmentStack) GetThisBinding() (*Value, error) {
	env := s.GetThisEnvironment()
	return env.Decl.GetThisBinding()
}

// OuterFunctionEnvironment returns the nearest enclosing Function
// environment strictly outside the given one — used by arrow functions
// to find which `this`/new.target/home-object binding they inherit, and
// by `super` resolution. Defaults to the global environment when no
// enclosing Function scope exists, matching every other EnvironmentStack
// scan (GetThisEnvironment, resolveDynamic's global fallback): callers may
// rely on a non-nil result.
func (s *EnvironmentStack) OuterFunctionEnvironment(from *Environment) *Environment {
	for cur := from.outer; cur != nil; cur = cur.outer {
		if cur.Tag == EnvDeclarative && cur.Decl.Kind == DeclFunction {
			return cur
		}
	}
	return s.global
}

// CurrentDeclarativeRef returns the nearest declarative environment at or
// enclosing the current scope (skipping any object/with environments).
func (s *EnvironmentStack) CurrentDeclarativeRef() *Environment {
	return s.Current().nearestDeclarative()
}

// CurrentCompileEnvironment exposes the current scope's static table.
func (s *EnvironmentStack) CurrentCompileEnvironment() CompileTimeEnvironment {
	return s.CurrentDeclarativeRef().Decl.compile
}

// PoisonUntilLastFunction marks every scope from the current one out to
// (and including) the nearest enclosing Function/Global scope as poisoned.
// This is what a direct eval() does: once it runs, every binding lookup
// within that function for the rest of its lifetime must be prepared to
// find a name eval introduced, so every scope it could have touched is
// marked permanently suspect.
func (s *EnvironmentStack) PoisonUntilLastFunction() {
	for cur := s.Current(); cur != nil; cur = cur.outer {
		if cur.Tag == EnvObject {
			continue
		}
		cur.Decl.Poison()
		if cur.Decl.Kind == DeclFunction || cur.Decl.Kind == DeclGlobal {
			break
		}
	}
}

// HasObjectEnvironment reports whether a `with` object environment sits
// anywhere between the current scope and the global scope.
func (s *EnvironmentStack) HasObjectEnvironment() bool {
	for cur := s.Current(); cur != nil; cur = cur.outer {
		if cur.Tag == EnvObject {
			return true
		}
	}
	return false
}

// ---- PrivateEnvironment stack -----------------------------------------

// PushPrivate pushes a new PrivateEnvironment, used while evaluating a
// class body, and returns it so the caller can Declare its private names.
func (s *EnvironmentStack) PushPrivate() *PrivateEnvironment {
	s.nextPID++
	pe := newPrivateEnvironment(s.nextPID)
	s.private = append(s.private, pe)
	return pe
}

// PopPrivate pops the innermost PrivateEnvironment once a class body has
// finished being evaluated.
func (s *EnvironmentStack) PopPrivate() {
	if len(s.private) == 0 {
		return
	}
	s.private = s.private[:len(s.private)-1]
}

// ResolvePrivateIdentifier resolves `#name` against the innermost
// enclosing PrivateEnvironment that declares it, matching how nested
// classes shadow same-spelled private names by declaration nesting rather
// than by textual scope.
func (s *EnvironmentStack) ResolvePrivateIdentifier(name string) (PrivateName, error) {
	for i := len(s.private) - 1; i >= 0; i-- {
		if s.private[i].has(name) {
			return PrivateName{Description: name, EnvID: s.private[i].ID()}, nil
		}
	}
	return PrivateName{}, fmt.Errorf("SyntaxError: Private field '%s' must be declared in an enclosing class", name)
}

// PrivateNameDescriptions returns the top-down union of names declared
// across every live PrivateEnvironment on the private stack, deduplicated
// preserving first-seen (innermost-first) order, for brand-check
// diagnostics and `#x in obj`.
func (s *EnvironmentStack) PrivateNameDescriptions() []string {
	var result []string
	seen := make(map[string]bool)
	for i := len(s.private) - 1; i >= 0; i-- {
		for _, name := range s.private[i].Descriptions() {
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}
	return result
}

// ---- Locator-driven operations -----------------------------------------

// resolveDynamic runs the two-phase resolution: a static-style
// ResolveBindingLocator from the current scope, then FindRuntimeBinding to
// re-verify it against whatever `with`/eval-poisoned scopes actually exist
// right now.
func (s *EnvironmentStack) resolveDynamic(name string) (BindingLocator, *Environment, error) {
	cur := s.Current()
	loc := ResolveBindingLocator(cur, s.indexOf, name)
	return FindRuntimeBinding(cur, s.indexOf, loc)
}

// GetBinding reads a variable by name using the full two-phase locator
// resolution path this subsystem specifies. The tree-walking interpreter's
// own identifier references go through the plain-chain Environment.Get
// instead (see its doc comment); GetBinding is exercised directly by this
// package's own tests and is available for a future caller that threads a
// single EnvironmentStack through evaluation.
func (s *EnvironmentStack) GetBinding(name string) (*Value, error) {
	loc, env, err := s.resolveDynamic(name)
	if err != nil {
		return nil, err
	}
	return s.getAtLocator(loc, env)
}

func (s *EnvironmentStack) getAtLocator(loc BindingLocator, env *Environment) (*Value, error) {
	switch loc.Kind() {
	case LocatorGlobalObject:
		g := s.global.Decl.globalObj
		if g == nil || !g.HasProperty(loc.Name) {
			return nil, fmt.Errorf("ReferenceError: %s is not defined", loc.Name)
		}
		return g.Get(loc.Name), nil
	case LocatorGlobalDeclarative:
		v, ok := s.global.Decl.Get(loc.Slot())
		if !ok {
			return nil, fmt.Errorf("ReferenceError: Cannot access '%s' before initialization", loc.Name)
		}
		return v, nil
	default:
		if env == nil || env.Tag != EnvDeclarative {
			if env != nil && env.Tag == EnvObject {
				return env.Obj.Get(loc.Name), nil
			}
			return nil, fmt.Errorf("ReferenceError: %s is not defined", loc.Name)
		}
		v, ok := env.Decl.Get(loc.Slot())
		if !ok {
			return nil, fmt.Errorf("ReferenceError: Cannot access '%s' before initialization", loc.Name)
		}
		return v, nil
	}
}

// SetBinding writes a variable by name using the full locator resolution
// path. strict controls whether assigning to an undeclared name throws
// (strict mode) or implicitly creates a global (sloppy mode).
func (s *EnvironmentStack) SetBinding(name string, value *Value, strict bool) error {
	loc, env, err := s.resolveDynamic(name)
	if err != nil {
		if strict {
			return err
		}
		g := s.global.Decl.globalObj
		if g != nil {
			g.Set(name, value)
		}
		return nil
	}
	switch loc.Kind() {
	case LocatorGlobalObject:
		g := s.global.Decl.globalObj
		if g != nil {
			g.Set(loc.Name, value)
		}
		return nil
	case LocatorGlobalDeclarative:
		if !s.global.Decl.IsMutable(loc.Slot()) {
			return fmt.Errorf("TypeError: Assignment to constant variable '%s'", loc.Name)
		}
		s.global.Decl.Set(loc.Slot(), value)
		return nil
	default:
		if env != nil && env.Tag == EnvObject {
			env.Obj.Set(loc.Name, value)
			return nil
		}
		if env == nil || env.Tag != EnvDeclarative {
			return fmt.Errorf("ReferenceError: %s is not defined", loc.Name)
		}
		if !env.Decl.IsMutable(loc.Slot()) {
			return fmt.Errorf("TypeError: Assignment to constant variable '%s'", loc.Name)
		}
		env.Decl.Set(loc.Slot(), value)
		return nil
	}
}

// IsInitializedBinding reports whether name is currently past its TDZ,
// without raising a ReferenceError for an uninitialized slot.
func (s *EnvironmentStack) IsInitializedBinding(name string) bool {
	loc, env, err := s.resolveDynamic(name)
	if err != nil {
		return false
	}
	switch loc.Kind() {
	case LocatorGlobalObject:
		g := s.global.Decl.globalObj
		return g != nil && g.HasProperty(loc.Name)
	case LocatorGlobalDeclarative:
		_, ok := s.global.Decl.Get(loc.Slot())
		return ok
	default:
		if env == nil {
			return false
		}
		if env.Tag == EnvObject {
			return env.Obj.HasProperty(loc.Name)
		}
		_, ok := env.Decl.Get(loc.Slot())
		return ok
	}
}

// DeleteBinding implements the `delete` operator on a bare identifier: only
// an object-environment (`with`-introduced) or global-object property
// binding can ever be deleted; declarative bindings (var/let/const/
// function) are not configurable and deletion is a silent no-op per
// sloppy-mode `delete` semantics.
func (s *EnvironmentStack) DeleteBinding(name string) bool {
	for cur := s.Current(); cur != nil; cur = cur.outer {
		if cur.Tag == EnvObject {
			if cur.Obj.HasProperty(name) {
				if prop, ok := cur.Obj.Properties[name]; ok && !prop.Configurable {
					return false
				}
				delete(cur.Obj.Properties, name)
				return true
			}
			continue
		}
		if _, ok := cur.Decl.compile.GetBinding(name); ok {
			return false
		}
	}
	if g := s.global.Decl.globalObj; g != nil {
		if prop, ok := g.Properties[name]; ok {
			if !prop.Configurable {
				return false
			}
			delete(g.Properties, name)
			return true
		}
	}
	return true
}

// ThisFromObjectEnvironmentBinding returns the object environment's
// binding object that resolved loc.Name, if any — the `this` a call like
// `with (o) { f() }` should bind when f comes from o itself rather than
// from a declarative scope. Scans from the top of the stack down to the
// locator's own stack index, honoring `@@unscopables`, matching the
// original engine's this_from_object_environment_binding. Returns
// (nil, false) when resolution would land on a declarative binding, or
// when no `with` is in effect at all (the fast-path early exit).
func (s *EnvironmentStack) ThisFromObjectEnvironmentBinding(loc BindingLocator) (*Object, bool) {
	if cur := s.Current(); cur.Tag != EnvObject {
		if !cur.Decl.with {
			return nil, false
		}
	}

	minIndex := uint32(0)
	if loc.Kind() == LocatorStack {
		minIndex = loc.StackIndex()
	}

	for i := int(s.Len()) - 1; i >= int(minIndex); i-- {
		env := s.frames[i]
		if env.Tag == EnvDeclarative {
			d := env.Decl
			if d.poisoned {
				if d.compile.IsFunction() {
					if _, ok := d.compile.GetBinding(loc.Name); ok {
						break
					}
				}
			} else if !d.with {
				break
			}
			continue
		}
		if env.Obj.HasProperty(loc.Name) {
			if !isUnscopable(env.Obj, loc.Name) {
				return env.Obj, true
			}
		}
	}
	return nil, false
}
