package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// verifyNoLeaks проверяет горутины теста. Воркер opencensus стартует в init
// зависимостей AI-клиента и живёт весь процесс.
func verifyNoLeaks(t *testing.T) func() {
	t.Helper()
	opts := []goleak.Option{
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
		goleak.IgnoreCurrent(),
	}
	return func() { goleak.VerifyNone(t, opts...) }
}

func TestLoadingRotator_RoundRobin(t *testing.T) {
	defer verifyNoLeaks(t)()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewLoadingRotator([]string{"a", "b", "c"}, time.Millisecond)
	ch := r.Start(ctx)

	var got []string
	for i := 0; i < 5; i++ {
		got = append(got, <-ch)
	}
	cancel()
	for range ch {
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b"}, got)
}

func TestLoadingRotator_FirstMessageImmediate(t *testing.T) {
	defer verifyNoLeaks(t)()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := NewLoadingRotator([]string{"SISTEMATIZANDO..."}, time.Hour).Start(ctx)

	select {
	case msg := <-ch:
		assert.Equal(t, "SISTEMATIZANDO...", msg)
	case <-time.After(time.Second):
		t.Fatal("first loading message was not emitted immediately")
	}
	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestLoadingRotator_StopsWhenNobodyReads(t *testing.T) {
	defer verifyNoLeaks(t)()

	ctx, cancel := context.WithCancel(context.Background())
	ch := NewLoadingRotator([]string{"x"}, time.Millisecond).Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestLoadingRotator_EmptyMessagesClosesImmediately(t *testing.T) {
	ch := NewLoadingRotator(nil, time.Millisecond).Start(context.Background())
	_, open := <-ch
	assert.False(t, open)
}
