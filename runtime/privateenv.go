package runtime

import "strconv"

// PrivateEnvironment is the parallel scope that tracks the private names
// (`#x`) declared by one class body. Its id disambiguates two classes that
// both declare a field spelled the same way, so shadowing is resolved by
// identity, not just by name.
type PrivateEnvironment struct {
	id           uint32
	descriptions []string
	seen         map[string]bool
}

func newPrivateEnvironment(id uint32) *PrivateEnvironment {
	return &PrivateEnvironment{id: id, seen: make(map[string]bool)}
}

// ID returns the stable identity of this private scope.
func (p *PrivateEnvironment) ID() uint32 { return p.id }

// Descriptions returns the private names declared in this scope, in
// declaration order.
func (p *PrivateEnvironment) Descriptions() []string { return p.descriptions }

// Declare registers a private name in this scope. Re-declaring the same
// name (e.g. a getter/setter pair sharing `#x`) is a no-op.
func (p *PrivateEnvironment) Declare(name string) {
	if p.seen[name] {
		return
	}
	p.seen[name] = true
	p.descriptions = append(p.descriptions, name)
}

func (p *PrivateEnvironment) has(name string) bool { return p.seen[name] }

// PrivateName is a resolved private identifier: the spelling plus the id of
// the PrivateEnvironment that declared it, which is what actually keys
// storage on an object's private element list (two nested classes can both
// declare `#x`; only the id tells them apart).
type PrivateName struct {
	Description string
	EnvID       uint32
}

// Key returns the composite string used to key private element storage.
// Object-model storage for private elements is out of this subsystem's
// scope; this is the identity callers should store elements under.
func (p PrivateName) Key() string {
	return privateKey(p.EnvID, p.Description)
}

func privateKey(envID uint32, description string) string {
	return strconv.FormatUint(uint64(envID), 10) + ":" + description
}
