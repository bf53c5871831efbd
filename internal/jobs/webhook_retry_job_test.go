package jobs_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWebhookRetrier struct {
	mock.Mock
}

func (m *MockWebhookRetrier) RetryDue(ctx context.Context) int {
	return m.Called(ctx).Int(0)
}

func TestWebhookRetryJob_Run(t *testing.T) {
	retrier := new(MockWebhookRetrier)
	retrier.On("RetryDue", mock.Anything).Return(2).Once()

	job := jobs.NewWebhookRetryJob(retrier, "", slog.Default())
	job.Run(context.Background())

	retrier.AssertExpectations(t)
}

func TestWebhookRetryJob_RunsOnSchedule(t *testing.T) {
	retrier := new(MockWebhookRetrier)
	called := make(chan struct{}, 10)
	retrier.On("RetryDue", mock.Anything).Run(func(mock.Arguments) { called <- struct{}{} }).Return(0)

	job := jobs.NewWebhookRetryJob(retrier, "* * * * * *", slog.Default())
	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("retry sweep did not run")
	}
}

func TestJobManager_InvalidScheduleFailsStart(t *testing.T) {
	manager := jobs.NewJobManager(new(MockWebhookRetrier), "not a schedule", slog.Default())

	err := manager.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook retry job")
}
