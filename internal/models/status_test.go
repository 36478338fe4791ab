package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusToInternal_MapsOnlyInProgress(t *testing.T) {
	for _, s := range []string{"todo", "done", "canceled"} {
		got, err := StatusToInternal(s)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}

	got, err := StatusToInternal("in-progress")
	require.NoError(t, err)
	require.Equal(t, "in_progress", got)
}

func TestStatusToExternal_MapsOnlyInProgress(t *testing.T) {
	for _, s := range []string{"todo", "done", "canceled"} {
		got, err := StatusToExternal(s)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}

	got, err := StatusToExternal("in_progress")
	require.NoError(t, err)
	require.Equal(t, "in-progress", got)
}

func TestStatusMapping_RoundTrips(t *testing.T) {
	for _, s := range AllStatuses {
		internal, err := StatusToInternal(string(s))
		require.NoError(t, err)
		external, err := StatusToExternal(internal)
		require.NoError(t, err)
		require.Equal(t, string(s), external)
	}
}

func TestStatusMapping_RejectsUnknownValues(t *testing.T) {
	_, err := StatusToInternal("blocked")
	require.Error(t, err)

	// The stored form is not a valid external value and vice versa.
	_, err = StatusToInternal("in_progress")
	require.Error(t, err)
	_, err = StatusToExternal("in-progress")
	require.Error(t, err)
}

func TestStatusInternalExternalMethods(t *testing.T) {
	require.Equal(t, TaskStatus("in_progress"), StatusInProgress.Internal())
	require.Equal(t, StatusInProgress, TaskStatus("in_progress").External())
	require.Equal(t, StatusDone, StatusDone.Internal())
	require.Equal(t, StatusDone, StatusDone.External())
}
