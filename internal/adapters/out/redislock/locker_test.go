package redislock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/adapters/out/redislock"
	"storefront/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewBoolResult(args.Bool(0), args.Error(1))
}

func (m *MockClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	called := m.Called(ctx, script, keys, args)
	return redis.NewCmdResult(called.Get(0), called.Error(1))
}

func TestNewLocker_RequiresClient(t *testing.T) {
	_, err := redislock.NewLocker(nil, nil)
	require.Error(t, err)
}

func TestLock_RetriesUntilKeyIsFree(t *testing.T) {
	client := new(MockClient)
	id := kernel.NewUUID()
	key := redislock.DefaultKeyPrefix + id.String()

	client.On("SetNX", mock.Anything, key, mock.AnythingOfType("string"), redislock.DefaultTTL).Return(false, nil).Twice()
	client.On("SetNX", mock.Anything, key, mock.AnythingOfType("string"), redislock.DefaultTTL).Return(true, nil).Once()
	client.On("Eval", mock.Anything, mock.Anything, []string{key}, mock.Anything).Return(int64(1), nil).Once()

	locker, err := redislock.NewLocker(client, nil)
	require.NoError(t, err)

	unlock, err := locker.Lock(context.Background(), id)
	require.NoError(t, err)
	unlock()
	unlock()

	client.AssertExpectations(t)
}

func TestLock_ReleasesWithTheAcquiringToken(t *testing.T) {
	client := new(MockClient)
	id := kernel.NewUUID()

	var token string
	client.On("SetNX", mock.Anything, mock.Anything, mock.Anything, 5*time.Second).
		Run(func(args mock.Arguments) { token = args.String(2) }).
		Return(true, nil)
	client.On("Eval", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			values := args.Get(3).([]interface{})
			assert.Equal(t, token, values[0])
		}).
		Return(int64(1), nil)

	locker, err := redislock.NewLocker(client, nil, redislock.WithTTL(5*time.Second))
	require.NoError(t, err)

	unlock, err := locker.Lock(context.Background(), id)
	require.NoError(t, err)
	unlock()

	assert.NotEmpty(t, token)
	client.AssertNumberOfCalls(t, "Eval", 1)
}

func TestLock_StopsWhenContextIsDone(t *testing.T) {
	client := new(MockClient)
	client.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	locker, err := redislock.NewLocker(client, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, kernel.NewUUID())

	require.ErrorIs(t, err, context.DeadlineExceeded)
	client.AssertNotCalled(t, "Eval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLock_RedisErrorIsNotRetried(t *testing.T) {
	client := new(MockClient)
	boom := errors.New("connection refused")
	client.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, boom).Once()

	locker, err := redislock.NewLocker(client, nil)
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), kernel.NewUUID())

	require.ErrorIs(t, err, boom)
	client.AssertExpectations(t)
}
