package job

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/pkg/errors"
)

func TestJobLifecycle(t *testing.T) {
	j := New(TypeExtraction, uuid.New(), uuid.New(), 3)
	assert.Equal(t, StatusPending, j.Status)
	assert.Zero(t, j.Attempts)

	require.NoError(t, j.Start())
	assert.Equal(t, StatusRunning, j.Status)
	assert.Equal(t, 1, j.Attempts)
	require.NotNil(t, j.StartedAt)

	j.Succeed("app-id-123")
	assert.Equal(t, StatusSucceeded, j.Status)
	assert.Equal(t, "app-id-123", j.ResultRef)
	assert.Empty(t, j.LastError)
	require.NotNil(t, j.FinishedAt)
}

func TestJobCannotRestartAfterSuccess(t *testing.T) {
	j := New(TypeADSGen, uuid.New(), uuid.Nil, 1)
	require.NoError(t, j.Start())
	j.Succeed("key")

	err := j.Start()
	assert.True(t, errors.IsCode(err, errors.ErrCodeJobAlreadyDone))
}

func TestJobFailReturnsToPendingWhileRetriesRemain(t *testing.T) {
	j := New(TypeExtraction, uuid.New(), uuid.New(), 2)

	require.NoError(t, j.Start())
	j.Fail("llm timeout")
	assert.Equal(t, StatusPending, j.Status)
	assert.Equal(t, "llm timeout", j.LastError)
	assert.True(t, j.Retryable())
	assert.Nil(t, j.FinishedAt)
}

func TestJobGoesTerminalWhenRetryBudgetSpent(t *testing.T) {
	j := New(TypeExtraction, uuid.New(), uuid.New(), 1)

	// Attempt 1 and the single retry both fail.
	require.NoError(t, j.Start())
	j.Fail("parse error")
	assert.Equal(t, StatusPending, j.Status)
	require.NoError(t, j.Start())
	j.Fail("parse error")

	assert.Equal(t, StatusFailed, j.Status)
	assert.False(t, j.Retryable())
	require.NotNil(t, j.FinishedAt)
}
