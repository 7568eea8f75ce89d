package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r-mibu/congress/policy"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	b, ok := r.Builtin(policy.ParseTablename("plus", true), 3)
	require.True(t, ok)
	require.Equal(t, 2, b.NumInputs)

	require.True(t, r.IsBuiltin(policy.ParseTablename("lt", true), 2))
	require.False(t, r.IsBuiltin(policy.ParseTablename("lt", true), 3))
	require.False(t, r.IsBuiltin(policy.ParseTablename("servers", true), 2))
}

func TestBuiltinServiceQualification(t *testing.T) {
	r := DefaultRegistry()

	// the builtin service prefix is accepted, others are not
	require.True(t, r.IsBuiltin(policy.ParseTablename("builtin:plus", true), 3))
	require.False(t, r.IsBuiltin(policy.ParseTablename("nova:plus", true), 3))

	// a modal disqualifies a table from being a builtin
	modal := policy.NewTablename("plus", "", "execute")
	require.False(t, r.IsBuiltin(modal, 3))
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	require.False(t, r.IsBuiltin(policy.ParseTablename("plus", true), 3))
}

func TestRegisterUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(Builtin{Name: "custom", Arity: 2, NumInputs: 1})
	require.True(t, r.IsBuiltin(policy.ParseTablename("custom", true), 2))

	// same name at a new arity coexists
	r.Register(Builtin{Name: "custom", Arity: 3, NumInputs: 2})
	require.True(t, r.IsBuiltin(policy.ParseTablename("custom", true), 2))
	require.True(t, r.IsBuiltin(policy.ParseTablename("custom", true), 3))

	// re-registering replaces
	r.Register(Builtin{Name: "custom", Arity: 2, NumInputs: 2})
	b, _ := r.Builtin(policy.ParseTablename("custom", true), 2)
	require.Equal(t, 2, b.NumInputs)

	r.Unregister("custom", 2)
	require.False(t, r.IsBuiltin(policy.ParseTablename("custom", true), 2))
	require.True(t, r.IsBuiltin(policy.ParseTablename("custom", true), 3))
}
