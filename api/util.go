package api

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// errTimeout is returned when callWithTimeout has a normal timeout.
var errTimeout = errors.New("timeout during call")

// isTimeoutError compares the given error against the timeout errors.
func isTimeoutError(err error) bool {
	return errors.Is(err, errTimeout)
}

// errMisbehavingHandler is written to the log when a handler does not return.
var errMisbehavingHandler = "Misbehaving handler did not exit after 1 second."

// misbehavingHandlerDetector warn if ch does not exit after 1 second.
func misbehavingHandlerDetector(log *log.Logger, ch chan struct{}) {
	if log == nil {
		return
	}

	select {
	case <-ch:
		return
	case <-time.After(1 * time.Second):
		log.Warn(errMisbehavingHandler)
	}
}

// callWithTimeout runs handler with a context bounded by timeout, no bound when timeout is 0.
// The node client honors cancellation, so the handler is expected to return promptly once
// the deadline passes; a handler that does not is reported by misbehavingHandlerDetector.
func callWithTimeout(ctx context.Context, log *log.Logger, timeout time.Duration, handler func(ctx context.Context) error) error {
	if timeout == 0 {
		return handler(ctx)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan struct{})
	var err error
	go func(routineCtx context.Context) {
		err = handler(routineCtx)
		close(done)
	}(timeoutCtx)

	select {
	case <-done:
		// the handler may have failed because the deadline was reached.
		if timeoutCtx.Err() == context.DeadlineExceeded {
			return errTimeout
		}
		return err
	case <-timeoutCtx.Done():
		go misbehavingHandlerDetector(log, done)
		if timeoutCtx.Err() == context.DeadlineExceeded {
			return errTimeout
		}
		return timeoutCtx.Err()
	}
}
