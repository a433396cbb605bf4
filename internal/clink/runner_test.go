package clink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkstore/internal/links"
)

func TestExecRunner_MissingBinaryIsUnavailable(t *testing.T) {
	r := &ExecRunner{
		Binary: "clink-definitely-not-installed",
		DBPath: filepath.Join(t.TempDir(), "test.links"),
	}

	_, _, err := r.Run(context.Background(), links.ReadAllQuery(), Flags{After: true})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestExecRunner_MissingBinaryPathIsUnavailable(t *testing.T) {
	r := &ExecRunner{
		Binary: filepath.Join(t.TempDir(), "no-such-clink"),
		DBPath: filepath.Join(t.TempDir(), "test.links"),
	}

	_, _, err := r.Run(context.Background(), links.ReadAllQuery(), Flags{After: true})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err), "an unreachable binary path is unavailability, not a query fault")
	assert.False(t, IsQueryFailed(err))
}
