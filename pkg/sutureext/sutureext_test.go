package sutureext

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thejerf/suture/v4"
)

func TestSanitizeError(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, SanitizeError(ctx, nil))

	err := errors.New("boom")
	assert.Same(t, err, SanitizeError(ctx, err))

	err = SanitizeError(ctx, errors.Join(context.Canceled, suture.ErrTerminateSupervisorTree))
	assert.NotErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, suture.ErrTerminateSupervisorTree)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, SanitizeError(cancelled, errors.New("late")), context.Canceled)
}

func TestServiceFunc(t *testing.T) {
	s := NewServiceFunc("test", func(ctx context.Context) error { return context.Canceled })

	assert.Equal(t, "test", s.String())
	err := sanitizeService{Service: s}.Serve(context.Background())
	assert.EqualError(t, err, "context canceled")
	assert.NotErrorIs(t, err, context.Canceled)
}
