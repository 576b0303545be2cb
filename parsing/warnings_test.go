package parsing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustNewWarnings(t *testing.T, policy WarningOverflowPolicy, cap int) Warnings {
	t.Helper()
	w, err := NewWarnings(policy, cap)
	require.NoError(t, err)
	return w
}

func newWarn(line int) Warning {
	return Warning{
		Kind: IndentTabSpaces,
		Line: line,
	}
}

func TestNewWarnings_NegativeCap_ReturnsConfigError(t *testing.T) {
	_, err := NewWarnings(WarnOverflowDrop, -1)
	require.Error(t, err)

	var ce *ConfigError
	require.True(t, errors.As(err, &ce), "expected *ConfigError, got %T (%v)", err, err)
	require.Equal(t, NegativeWarningsCap, ce.Kind)
}

func TestWarnings_NoRec_NoOp(t *testing.T) {
	w := mustNewWarnings(t, WarnOverflowNoRec, 3)

	w.Add(newWarn(1))
	w.Add(newWarn(2))

	require.False(t, w.IsOverflow())
	require.Len(t, w.List(), 0)
}

func TestWarnings_ZeroValue_IsUncapped(t *testing.T) {
	var w Warnings

	for i := 1; i <= 10; i++ {
		w.Add(newWarn(i))
	}

	require.False(t, w.IsOverflow())
	require.Len(t, w.List(), 10)
	require.Equal(t, 10, w.List()[9].Line)
}

func TestWarnings_Drop_KeepsFirstN_ThenDiscards(t *testing.T) {
	w := mustNewWarnings(t, WarnOverflowDrop, 2)

	for i := 1; i <= 4; i++ {
		w.Add(newWarn(i))
	}

	require.True(t, w.IsOverflow())
	require.Equal(t, 0, w.DroppedCount(), "Drop policy should not count dropped warnings")
	require.Equal(t, 3, w.FirstDropLine())
	require.Len(t, w.List(), 2)
}

func TestWarnings_Trunc_ReservesSlotForMarker(t *testing.T) {
	w := mustNewWarnings(t, WarnOverflowTrunc, 3)

	for i := 1; i <= 5; i++ {
		w.Add(newWarn(i))
	}

	require.True(t, w.IsOverflow())
	require.Equal(t, 3, w.DroppedCount(), "expected dropped warnings: lines 3,4,5")
	require.Equal(t, 3, w.FirstDropLine())

	require.Len(t, w.List(), 3)
	last := w.List()[2]
	require.Equal(t, WarningsTruncated, last.Kind)
	require.Equal(t, 3, last.Line)
}

func TestParser_CollectsIndentWarnings(t *testing.T) {
	res, err := Parse(jl(
		"%",
		"  %",
		"\t  %",
	), WithWarnings(WarnOverflowNoCap, 0))
	require.NoError(t, err)

	list := res.Warnings.List()
	require.Len(t, list, 1)
	require.Equal(t, IndentTabSpaces, list[0].Kind)
	require.Equal(t, 3, list[0].Line)
	require.Equal(t, Params{"tabs": 1, "spaces": 2}, list[0].Params)
	require.Equal(t, "At line 3: Using tabs (1) and spaces (2) in one line at once. Parsing continues but may fail.", list[0].String())
}

func TestParser_WarningsSurviveFailure(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	_, err = p.ParseLines(NewStringSource(jl(
		"%",
		"\t%",
		"%",
		"\t\t %",
	)))
	requireKind(t, err, InvalidIndent)

	w := p.Warnings()
	list := w.List()
	require.Len(t, list, 1)
	require.Equal(t, 2, list[0].Params["tabs"])
	require.Equal(t, 1, list[0].Params["spaces"])
}

func TestWithWarnings_NegativeCap(t *testing.T) {
	_, err := Parse("%", WithWarnings(WarnOverflowDrop, -1))

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}
