package module_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/odimod/container"
	"github.com/sghaida/odimod/module"
)

var (
	numbers2 = module.Must(module.AddScoped[INum2, *Num2](module.New("numbers2"), nil))

	numbers1 = module.Must(module.AddScoped[INum1, *Num1](
		module.New("numbers1").Combine(numbers2), nil))
)

// TestEndToEnd composes two modules into a fresh collection, resolves both
// abstractions and checks the audit is clean.
func TestEndToEnd(t *testing.T) {
	t.Parallel()

	services := container.NewCollection()
	require.NoError(t, module.Apply(services, numbers1))

	p, err := services.Build()
	require.NoError(t, err)
	scope := p.CreateScope()

	n1, err := container.Get[INum1](scope)
	require.NoError(t, err)
	require.NotNil(t, n1)
	assert.Equal(t, "1", n1.StringValue())

	n2, err := container.Get[INum2](scope)
	require.NoError(t, err)
	require.NotNil(t, n2)
	assert.Equal(t, 1, n2.IntValue())

	assert.True(t, module.Audit(services).OK())
}

func Example() {
	services := container.NewCollection()
	if err := module.Apply(services, numbers1, numbers2); err != nil {
		panic(err)
	}

	p, err := services.Build()
	if err != nil {
		panic(err)
	}
	scope := p.CreateScope()

	fmt.Println(container.MustGet[INum1](scope).StringValue())
	fmt.Println(container.MustGet[INum2](scope).IntValue())
	fmt.Println(len(services.Descriptors()), module.Audit(services).OK())
	// Output:
	// 1
	// 1
	// 4 true
}
