package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestCallWithTimeoutTimesOut(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	logger, hook := test.NewNullLogger()
	err := callWithTimeout(context.Background(), logger, time.Nanosecond, func(ctx context.Context) error {
		<-done
		return errors.New("should not return")
	})

	require.ErrorIs(t, err, errTimeout)
	require.Equal(t, http.StatusGatewayTimeout, errorStatus(err))

	require.Eventually(t, func() bool {
		return len(hook.AllEntries()) == 1
	}, 3*time.Second, 50*time.Millisecond)
	require.Equal(t, errMisbehavingHandler, hook.LastEntry().Message)
}

func TestCallWithTimeoutReturnsHandlerError(t *testing.T) {
	callError := errors.New("this should be the result")
	err := callWithTimeout(context.Background(), nil, time.Minute, func(ctx context.Context) error {
		return callError
	})
	require.ErrorIs(t, err, callError)
}

func TestCallWithoutTimeout(t *testing.T) {
	err := callWithTimeout(context.Background(), nil, 0, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		require.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}
