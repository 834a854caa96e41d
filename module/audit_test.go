package module_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sghaida/odimod/container"
	"github.com/sghaida/odimod/module"
)

type yamlDependant struct {
	Type   string `yaml:"type"`
	Module string `yaml:"module"`
}

type yamlReport struct {
	Unresolved []struct {
		Dependency string          `yaml:"dependency"`
		NeededBy   []yamlDependant `yaml:"needed_by"`
	} `yaml:"unresolved"`
}

type entry struct {
	dep        reflect.Type
	dependants []module.Dependant
}

func collect(seq func(func(reflect.Type, []module.Dependant) bool)) []entry {
	var out []entry
	seq(func(dep reflect.Type, ds []module.Dependant) bool {
		out = append(out, entry{dep: dep, dependants: ds})
		return true
	})
	return out
}

// TestAudit_CombinedModules reports each declaring module's missing
// dependency, then nothing once both are registered.
func TestAudit_CombinedModules(t *testing.T) {
	t.Parallel()

	cat := container.NewConstructors()
	_, opts := quiet(cat)

	a := module.Must(module.Require[*Clock](module.New("a", opts...)))
	b := module.Must(module.Require[*Mailer](module.New("b", opts...)))
	b = module.Must(module.AddScoped[INum2, *Num2](b, nil))

	combined := a.Combine(b)

	target := container.NewCollection()
	require.NoError(t, combined.Apply(target))

	got := collect(module.UnresolvedDependencies(target, opts...))
	require.Len(t, got, 2)
	assert.Equal(t, reflect.TypeFor[*Clock](), got[0].dep)
	assert.Equal(t, reflect.TypeFor[*Mailer](), got[1].dep)

	report := module.Audit(target, opts...)
	require.False(t, report.OK())
	require.Error(t, report.Err())
	assert.ErrorIs(t, report.Err(), module.ErrUnresolved)
	assert.EqualError(t, report.Err(), "module: 2 unresolved dependencies: *module_test.Clock, *module_test.Mailer")

	target.Add(container.Type[*Clock](container.Singleton), container.Type[*Mailer](container.Singleton))
	assert.Empty(t, collect(module.UnresolvedDependencies(target, opts...)))
	assert.True(t, module.Audit(target, opts...).OK())
	assert.NoError(t, module.Audit(target, opts...).Err())
}

// TestAudit_CombinedModulesNameDeclaringModule verifies a combined module
// attributes each missing type to the module that declared it.
func TestAudit_CombinedModulesNameDeclaringModule(t *testing.T) {
	t.Parallel()

	cat := newCatalog(t, NewDigest, NewNotifier)
	_, opts := quiet(cat)

	a := module.Must(module.AddScopedType[*Digest](module.New("a", opts...), nil))
	b := module.Must(module.AddScopedType[*Notifier](module.New("b", opts...), nil))

	target := container.NewCollection()
	require.NoError(t, a.Combine(b).Apply(target))

	got := collect(module.UnresolvedDependencies(target, opts...))
	require.Len(t, got, 2)

	assert.Equal(t, reflect.TypeFor[*Clock](), got[0].dep)
	assert.Equal(t, []module.Dependant{{Type: reflect.TypeFor[*Digest](), Module: "a"}}, got[0].dependants)

	assert.Equal(t, reflect.TypeFor[*Mailer](), got[1].dep)
	assert.Equal(t, []module.Dependant{{Type: reflect.TypeFor[*Notifier](), Module: "b"}}, got[1].dependants)
}

// TestAudit_Dependants verifies the report names who needs the missing type and which module declared it.
func TestAudit_Dependants(t *testing.T) {
	t.Parallel()

	cat := newCatalog(t, NewReports, NewBilling, NewBillingDefault)
	_, opts := quiet(cat)

	reports := module.Must(module.AddScopedType[*Reports](module.New("reports", opts...), nil))
	billing := module.Must(module.AddScopedType[*Billing](module.New("billing", opts...), nil))
	clock := module.Must(module.AddSingletonType[*Clock](module.New("clock", opts...), nil))

	target := container.NewCollection()
	require.NoError(t, module.Apply(target, reports, billing, clock))

	got := collect(module.UnresolvedDependencies(target, opts...))
	require.Len(t, got, 1)
	assert.Equal(t, reflect.TypeFor[*Mailer](), got[0].dep)
	// Billing never declared *Mailer (ambiguous constructors) but still needs it.
	assert.Equal(t, []module.Dependant{
		{Type: reflect.TypeFor[*Reports](), Module: "reports"},
		{Type: reflect.TypeFor[*Billing](), Module: "reports"},
	}, got[0].dependants)

	out, err := module.Audit(target, opts...).YAML()
	require.NoError(t, err)

	var doc yamlReport
	require.NoError(t, yaml.Unmarshal(out, &doc))
	require.Len(t, doc.Unresolved, 1)
	assert.Equal(t, "*module_test.Mailer", doc.Unresolved[0].Dependency)
	assert.Equal(t, []yamlDependant{
		{Type: "*module_test.Reports", Module: "reports"},
		{Type: "*module_test.Billing", Module: "reports"},
	}, doc.Unresolved[0].NeededBy)
}

// TestAudit_Deduplication verifies one entry per (module, dependency) pair.
func TestAudit_Deduplication(t *testing.T) {
	t.Parallel()

	_, opts := quiet(container.NewConstructors())

	a := module.New("a", opts...)
	module.Must(module.Require[*Clock](a))
	module.Must(module.Require[*Clock](a))
	b := module.Must(module.Require[*Clock](module.New("b", opts...)))

	target := container.NewCollection()
	require.NoError(t, module.Apply(target, a, b))

	got := collect(module.UnresolvedDependencies(target, opts...))
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, reflect.TypeFor[*Clock](), e.dep)
		assert.Empty(t, e.dependants)
	}
}

// TestAudit_SkipsResolverType verifies the container self-reference is always satisfied.
func TestAudit_SkipsResolverType(t *testing.T) {
	t.Parallel()

	_, opts := quiet(container.NewConstructors())
	m := module.Must(module.Require[container.Resolver](module.New("self", opts...)))

	target := container.NewCollection()
	require.NoError(t, m.Apply(target))
	assert.True(t, module.Audit(target, opts...).OK())
}

// TestAudit_NoModules verifies an untouched or invalid target yields nothing.
func TestAudit_NoModules(t *testing.T) {
	t.Parallel()

	target := container.NewCollection()
	target.Add(container.Type[*Clock](container.Singleton))

	assert.Empty(t, collect(module.UnresolvedDependencies(target)))
	assert.Empty(t, collect(module.UnresolvedDependencies(nil)))
	assert.True(t, module.Audit(target).OK())

	out, err := module.Audit(target).YAML()
	require.NoError(t, err)
	var doc yamlReport
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Empty(t, doc.Unresolved)
}

// TestAudit_RestartableAndLazy verifies each iteration recomputes and early exit stops the walk.
func TestAudit_RestartableAndLazy(t *testing.T) {
	t.Parallel()

	_, opts := quiet(container.NewConstructors())
	m := module.Must(module.Require[*Clock](module.New("m", opts...)))
	module.Must(module.Require[*Mailer](m))

	target := container.NewCollection()
	require.NoError(t, m.Apply(target))

	seq := module.UnresolvedDependencies(target, opts...)
	assert.Len(t, collect(seq), 2)
	assert.Len(t, collect(seq), 2)

	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)

	// the sequence sees registrations added after it was created
	target.Add(container.Type[*Clock](container.Singleton))
	got := collect(seq)
	require.Len(t, got, 1)
	assert.Equal(t, reflect.TypeFor[*Mailer](), got[0].dep)
}

// TestAudit_ModuleAsTarget verifies a module can be audited like any collection.
func TestAudit_ModuleAsTarget(t *testing.T) {
	t.Parallel()

	_, opts := quiet(container.NewConstructors())
	m := module.Must(module.Require[*Clock](module.New("m", opts...)))
	assert.False(t, module.Audit(m, opts...).OK())

	module.Must(module.AddSingletonType[*Clock](m, nil))
	assert.True(t, module.Audit(m, opts...).OK())
}
