// Package retry provides retry mechanisms with configurable backoff strategies
// for the job runner. It supports exponential backoff, jitter, and
// maximum retry attempts.
//
// The package is designed to handle transient failures in distributed systems
// with customizable retry policies per operation type.
//
// Basic usage:
//
//	err := retry.Do(
//	    func() error {
//	        return someOperation()
//	    },
//	    retry.WithMaxAttempts(3),
//	    retry.WithBackoffStrategy(retry.NewExponentialBackoff()),
//	)
//
// Custom backoff (the delay cap is the MaxDelay field; retry.WithMaxDelay
// is a Do option, not a backoff option):
//
//	backoff := retry.NewExponentialBackoff(
//	    retry.WithInitialDelay(100*time.Millisecond),
//	    retry.WithMultiplier(2.0),
//	)
//	backoff.MaxDelay = 10 * time.Second
//	err := retry.Do(operation, retry.WithBackoffStrategy(backoff))
package retry
