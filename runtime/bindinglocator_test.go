package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveBindingLocatorSkipsObjectEnvironments verifies static
// resolution never sees into a `with` object: it must land on the outer
// declarative binding regardless of what properties the object carries.
func TestResolveBindingLocatorSkipsObjectEnvironments(t *testing.T) {
	stack := NewEnvironmentStack()
	require.NoError(t, stack.Current().Declare("x", "let", NewNumber(9)))
	withObj := NewOrdinaryObject(nil)
	withObj.Set("x", NewNumber(1))
	stack.PushObject(withObj)

	loc := ResolveBindingLocator(stack.Current(), stack.indexOf, "x")
	assert.Equal(t, LocatorGlobalDeclarative, loc.Kind(), "static resolution must skip the with object entirely")
}

// TestFindRuntimeBindingRescansUnderWith exercises the divergence between
// static and dynamic resolution: a name that statically resolves to an
// outer scope, but a nested with-object shadows it, must come back
// pointing at the object environment once FindRuntimeBinding re-verifies.
func TestFindRuntimeBindingRescansUnderWith(t *testing.T) {
	stack := NewEnvironmentStack()
	require.NoError(t, stack.Current().Declare("x", "let", NewNumber(9)))

	staticLoc := ResolveBindingLocator(stack.Current(), stack.indexOf, "x")
	require.Equal(t, LocatorGlobalDeclarative, staticLoc.Kind())

	withObj := NewOrdinaryObject(nil)
	withObj.Set("x", NewNumber(42))
	stack.PushObject(withObj)

	resolved, env, err := FindRuntimeBinding(stack.Current(), stack.indexOf, staticLoc)
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.True(t, env.IsObjectEnv())
	assert.Equal(t, LocatorStack, resolved.Kind())

	v, err := stack.getAtLocator(resolved, env)
	require.NoError(t, err)
	assert.Equal(t, float64(42), v.Number)
}

// TestFindRuntimeBindingFallsThroughNonMatchingWith checks that a with
// object lacking the name falls through to the outer declarative binding,
// not a ReferenceError.
func TestFindRuntimeBindingFallsThroughNonMatchingWith(t *testing.T) {
	stack := NewEnvironmentStack()
	require.NoError(t, stack.Current().Declare("x", "let", NewNumber(9)))

	withObj := NewOrdinaryObject(nil)
	withObj.Set("y", NewNumber(1))
	stack.PushObject(withObj)

	v, err := stack.GetBinding("x")
	require.NoError(t, err)
	assert.Equal(t, float64(9), v.Number)
}

// TestGlobalVarGoesThroughObjectLocator checks that a top-level `var`
// resolves as a global-object locator (mirrored property), while a
// top-level `let` resolves as a global-declarative slot — the two
// global-scope encodings BindingLocator distinguishes.
func TestGlobalVarGoesThroughObjectLocator(t *testing.T) {
	stack := NewEnvironmentStack()
	global := stack.Global()
	globalObj := NewOrdinaryObject(nil)
	global.SetGlobalObject(globalObj)

	require.NoError(t, global.Declare("v", "var", NewNumber(1)))
	require.NoError(t, global.Declare("c", "let", NewNumber(2)))

	varLoc := ResolveBindingLocator(global, stack.indexOf, "v")
	letLoc := ResolveBindingLocator(global, stack.indexOf, "c")

	assert.Equal(t, LocatorGlobalObject, varLoc.Kind())
	assert.Equal(t, LocatorGlobalDeclarative, letLoc.Kind())
}

func TestModuleEnvironmentHasThisBindingUndefined(t *testing.T) {
	stack := NewEnvironmentStack()
	mod := stack.PushModule()
	v, err := mod.Decl.GetThisBinding()
	require.NoError(t, err)
	assert.Equal(t, TypeUndefined, v.Type, "a module record with no bound global object reports this as undefined")
}
