package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCachesUntilInvalidated(t *testing.T) {
	s := New()
	ctx := context.Background()

	var fetches atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		fetches.Add(1)
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := s.Read(ctx, "k", fetch)
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, int32(1), fetches.Load())

	s.Invalidate("k")

	v, err := s.Read(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	s := New()
	ctx := context.Background()

	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		fetches.Add(1)
		<-release
		return 42, nil
	}

	const readers = 16
	var wg sync.WaitGroup
	results := make([]any, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := s.Read(ctx, "k", fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFailedFetchReturnsStaleValue(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Read(ctx, "k", func(ctx context.Context) (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)

	s.Invalidate("k")

	fetchErr := errors.New("service unreachable")
	v, err := s.Read(ctx, "k", func(ctx context.Context) (any, error) {
		return nil, fetchErr
	})
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, "fresh", v, "stale value must survive a failed refresh")

	// The entry stays invalid, so the next read tries the source again.
	v, err = s.Read(ctx, "k", func(ctx context.Context) (any, error) {
		return "fresher", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresher", v)
}

func TestFailedFetchWithoutPreviousValue(t *testing.T) {
	s := New()

	fetchErr := errors.New("boom")
	v, err := s.Read(context.Background(), "k", func(ctx context.Context) (any, error) {
		return nil, fetchErr
	})
	assert.ErrorIs(t, err, fetchErr)
	assert.Nil(t, v)
}

func TestInvalidateFamily(t *testing.T) {
	s := New()
	ctx := context.Background()

	var fetches atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		fetches.Add(1)
		return "v", nil
	}

	_, _ = s.Read(ctx, "reminders-list?status=all", fetch)
	_, _ = s.Read(ctx, "reminders-list?status=Failed", fetch)
	_, _ = s.Read(ctx, "reminder-detail:r-1", fetch)
	require.Equal(t, int32(3), fetches.Load())

	s.InvalidateFamily("reminders-list")

	_, _ = s.Read(ctx, "reminders-list?status=all", fetch)
	_, _ = s.Read(ctx, "reminders-list?status=Failed", fetch)
	assert.Equal(t, int32(5), fetches.Load(), "both list entries refetch")

	_, _ = s.Read(ctx, "reminder-detail:r-1", fetch)
	assert.Equal(t, int32(5), fetches.Load(), "detail entry untouched")
}

func TestPeek(t *testing.T) {
	s := New()

	_, valid := s.Peek("k")
	assert.False(t, valid)

	_, _ = s.Read(context.Background(), "k", func(ctx context.Context) (any, error) {
		return "v", nil
	})

	v, valid := s.Peek("k")
	assert.True(t, valid)
	assert.Equal(t, "v", v)

	s.Invalidate("k")
	v, valid = s.Peek("k")
	assert.False(t, valid)
	assert.Equal(t, "v", v, "value retained for stale fallback")
}
