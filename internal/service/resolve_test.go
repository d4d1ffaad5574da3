package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/fieldpost/internal/intake"
)

var knownCalls = []string{
	"CALL_20250810_091200",
	"CALL_20250812_142355",
	"CALL_20250812_183000",
}

func TestResolveCall(t *testing.T) {
	t.Parallel()

	id, err := ResolveCall("CALL_20250812_142355", knownCalls)
	require.NoError(t, err)
	require.Equal(t, "CALL_20250812_142355", id)

	id, err = ResolveCall("0810", knownCalls)
	require.NoError(t, err)
	require.Equal(t, "CALL_20250810_091200", id, "unique fragment resolves")

	id, err = ResolveCall("call_20250810_091200", knownCalls)
	require.NoError(t, err)
	require.Equal(t, "CALL_20250810_091200", id, "case does not matter")

	// one digit off the real id still lands on it
	id, err = ResolveCall("CALL_20250810_091201", knownCalls)
	require.NoError(t, err)
	require.Equal(t, "CALL_20250810_091200", id)
}

func TestResolveCallSentinel(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"NEW_CALL", "new_call", " New_Call ", "new", "NEW"} {
		id, err := ResolveCall(in, knownCalls)
		require.NoError(t, err)
		require.Equal(t, intake.NewCallSentinel, id)
	}

	// sentinel resolves even with no known calls at all
	id, err := ResolveCall("NEW_CALL", nil)
	require.NoError(t, err)
	require.Equal(t, intake.NewCallSentinel, id)
}

func TestResolveCallAmbiguous(t *testing.T) {
	t.Parallel()

	_, err := ResolveCall("0812", knownCalls)
	require.Error(t, err)
	require.Contains(t, err.Error(), "CALL_20250812_142355")
	require.Contains(t, err.Error(), "CALL_20250812_183000")
}

func TestResolveCallMisses(t *testing.T) {
	t.Parallel()

	_, err := ResolveCall("ZEBRA", knownCalls)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no call matches")

	_, err = ResolveCall("   ", knownCalls)
	require.ErrorIs(t, err, ErrNoCallTarget)

	_, err = ResolveCall("anything", nil)
	require.Error(t, err)
}
