package gdext

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/testing/hosttest"
)

// plainNode borrows a builtin class name so it can be constructed without
// registration.
type plainNode struct {
	Label string
	Count int
}

func (plainNode) ClassName() string { return "Node" }

// aliasNode claims the same host class with a different Go type.
type aliasNode struct {
	Other float64
}

func (aliasNode) ClassName() string { return "Node" }

type testNode struct {
	Name   string
	Health int64
}

func (testNode) ClassName() string { return "TestNode" }
func (testNode) BaseClassName() string { return "Node" }

func (n *testNode) InitDefault() {
	n.Health = 100
	n.Name = "default"
}

func (n *testNode) RegisterMethods(b *ClassBuilder[testNode]) {
	RegisterMethod0R(b, "get_health", func(n *testNode) int64 { return n.Health })
	RegisterMethod1(b, "set_health", func(n *testNode, v int64) { n.Health = v })
	RegisterMethod1R(b, "greet", func(n *testNode, who string) string { return "hi " + who + " from " + n.Name })
	RegisterMethod0(b, "reset", func(n *testNode) { n.Health = 0 })
}

func (n *testNode) RegisterExports(b *ClassBuilder[testNode]) {
	b.RegisterProperty(
		DefaultExportInfo[int64]().Property("health", b.ClassName(), global.PropertyUsageDefault),
		"set_health", "get_health")
}

type otherNode struct{}

func (otherNode) ClassName() string { return "OtherNode" }

func newTestRuntime(t *testing.T) (*Runtime, *hosttest.Host) {
	t.Helper()
	host := hosttest.New()
	rt, err := NewRuntime(host.Interface(), host.Library())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt, host
}

// requirePanicAs runs f, requires it to panic with an error of type E and
// returns that error.
func requirePanicAs[E error](t *testing.T, f func()) E {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		f()
	}()
	require.NotNil(t, recovered, "expected a panic")

	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v is not an error", recovered)

	var target E
	require.True(t, stdErrors.As(err, &target), "panic %v is not a %T", err, target)
	return target
}
