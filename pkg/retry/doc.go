// Package retry provides bounded fixed-delay retry logic for handling
// transient failures in iNaturalist API calls.
//
// A page request that fails with a retryable error is attempted again
// after a fixed delay, up to a configured maximum number of attempts,
// after which the last error is returned wrapped in a terminal failure.
// The delay matches the pipeline's inter-request pacing so a retried
// request never arrives faster than a normal one.
//
// Basic usage:
//
//	cfg := &retry.Config{
//		MaxAttempts: 3,
//		Delay:       time.Second,
//		RetryIf:     retry.DefaultRetryIf,
//		Context:     ctx,
//		Logger:      logger.GetLogger(),
//	}
//	page, err := retry.DoWithResult(func() (*inaturalist.ObservationsResponse, error) {
//		return client.FetchObservations(ctx, query)
//	}, cfg)
//
// Non-retryable errors (not-found, parsing, filesystem, context
// cancellation) fail immediately.
package retry
