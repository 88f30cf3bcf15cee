package gdext

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mardigontoler/gdext/errors"
	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
	"github.com/mardigontoler/gdext/testing/hosttest"
)

func TestNewRuntime_NilInterface(t *testing.T) {
	_, err := NewRuntime(nil, 0)

	var ie *errors.InterfaceError
	require.ErrorAs(t, err, &ie)
	assert.Empty(t, ie.Missing)
}

func TestNewRuntime_MissingEntries(t *testing.T) {
	host := hosttest.New()
	iface := host.Interface()
	iface.ObjectDestroy = nil
	iface.PrintError = nil

	_, err := NewRuntime(iface, host.Library())

	var ie *errors.InterfaceError
	require.ErrorAs(t, err, &ie)
	assert.ElementsMatch(t, []string{"ObjectDestroy", "PrintError"}, ie.Missing)
}

func TestNewRuntime_MissingConverter(t *testing.T) {
	host := hosttest.New()
	iface := host.Interface()
	full := iface.GetVariantToTypeConstructor
	iface.GetVariantToTypeConstructor = func(t global.VariantType) abi.TypeFromVariantFunc {
		if t == global.VariantTypeObject {
			return nil
		}
		return full(t)
	}

	_, err := NewRuntime(iface, host.Library())

	var ie *errors.InterfaceError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []string{"type_from_variant(OBJECT)"}, ie.Missing)
}

func TestNewRuntime_DefaultLoggerPrintsThroughHost(t *testing.T) {
	rt, host := newTestRuntime(t)

	rt.Logger().Warn("careful", "class", "Player")
	rt.Logger().Error("broken", "class", "Player")

	require.Len(t, host.Warnings, 1)
	assert.Equal(t, "careful class=Player", host.Warnings[0].Description)
	require.Len(t, host.Errors, 1)
	assert.Equal(t, "broken class=Player", host.Errors[0].Description)
}

func TestWithLogger(t *testing.T) {
	host := hosttest.New()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rt, err := NewRuntime(host.Interface(), host.Library(), WithLogger(logger))
	require.NoError(t, err)
	defer rt.Close()

	require.NoError(t, Register[testNode](rt))

	out := buf.String()
	assert.Contains(t, out, "registered class")
	assert.Contains(t, out, "class=TestNode")
	assert.Contains(t, out, "property=health")
	assert.Contains(t, out, "getter=get_health")
	assert.Same(t, logger, rt.Logger())
}

func TestRuntime_Accessors(t *testing.T) {
	host := hosttest.New(hosttest.WithLibrary(0xabc))
	iface := host.Interface()

	rt, err := NewRuntime(iface, host.Library())
	require.NoError(t, err)
	defer rt.Close()

	assert.Same(t, iface, rt.Interface())
	assert.Equal(t, abi.ClassLibraryPtr(0xabc), rt.Library())
}
