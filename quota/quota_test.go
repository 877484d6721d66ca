package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"experience-nv/config"
)

func limiterWith(perMinute, perDay int) *GenerationQuotaLimiter {
	return NewFromConfig(config.AppConfig{
		GenerationQuota: config.GenerationQuotaConfig{
			RequestsPerMinute: perMinute,
			RequestsPerDay:    perDay,
		},
	})
}

func TestUnlimitedAllowsImmediately(t *testing.T) {
	l := limiterWith(0, 0)
	for i := 0; i < 5; i++ {
		ok, err := l.WaitAndReserve(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestDailyBudgetExhaustionIsNotAnError(t *testing.T) {
	l := limiterWith(0, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.WaitAndReserve(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.WaitAndReserve(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIntervalWaitRespectsContext(t *testing.T) {
	// 1 rpm means a one-minute interval between calls
	l := limiterWith(1, 0)

	ok, err := l.WaitAndReserve(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ok, err = l.WaitAndReserve(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
