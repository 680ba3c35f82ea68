// Package ratelimit provides request pacing for the iNaturalist API.
//
// The iNaturalist API recommends keeping clients to roughly one request
// per second. The pipeline performs one request at a time, so pacing is
// expressed as a fixed minimum delay between consecutive requests rather
// than a token bucket: the delay between any two requests is a hard
// contract, not an average.
//
// Interface:
//
// All limiters implement the Limiter interface:
//   - Wait() - Block until the next request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// At least one second between requests
//	limiter := ratelimit.NewInterval(time.Second)
//
//	for page := 1; ; page++ {
//	    limiter.Wait()
//	    // Perform the request
//	}
package ratelimit
