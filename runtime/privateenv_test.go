package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrivateEnvironmentDeclareIsIdempotent(t *testing.T) {
	pe := newPrivateEnvironment(1)
	pe.Declare("#x")
	pe.Declare("#x") // getter/setter pair sharing one private name
	assert.Equal(t, []string{"#x"}, pe.Descriptions())
}

func TestPrivateNameKeyDisambiguatesByEnvID(t *testing.T) {
	a := PrivateName{Description: "#x", EnvID: 1}
	b := PrivateName{Description: "#x", EnvID: 2}
	assert.NotEqual(t, a.Key(), b.Key(), "two classes declaring the same spelling must not collide in storage")
}

func TestPrivateNameKeyStable(t *testing.T) {
	a := PrivateName{Description: "#x", EnvID: 5}
	b := PrivateName{Description: "#x", EnvID: 5}
	assert.Equal(t, a.Key(), b.Key())
}
