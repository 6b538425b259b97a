package apiclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAsync_DeliversValue(t *testing.T) {
	ch := Async(context.Background(), func(context.Context) (string, error) {
		return "hola", nil
	})
	v, err := Await(context.Background(), ch).Unwrap()
	assert.NoError(t, err)
	assert.Equal(t, "hola", v)
}

func TestAsync_DeliversError(t *testing.T) {
	boom := errors.New("boom")
	ch := Async(context.Background(), func(context.Context) (int, error) {
		return 0, boom
	})
	r := <-ch
	assert.ErrorIs(t, r.Err, boom)

	_, open := <-ch
	assert.False(t, open, "channel must be closed after the single result")
}

func TestAwait_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	ch := Async(context.Background(), func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	r := Await(ctx, ch)
	assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
}
