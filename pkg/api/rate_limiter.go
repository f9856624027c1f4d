package api

import (
	"github.com/pkg/errors"
	"github.com/throttled/throttled/v2"
	"github.com/throttled/throttled/v2/store/memstore"
)

// newRateLimiter limits requests per client address and lease signer, so parties behind one
// proxy get separate quotas. Unsigned requests share the quota of their address.
func newRateLimiter(opts *RateLimiterOptions) (throttled.HTTPRateLimiter, error) {
	if opts.MaxRequestsPerSecond <= 0 {
		return throttled.HTTPRateLimiter{}, errors.Errorf("invalid rate %d requests per second", opts.MaxRequestsPerSecond)
	}
	store, err := memstore.New(opts.MemoryCacheSize)
	if err != nil {
		return throttled.HTTPRateLimiter{}, errors.Wrapf(err, "failed to create rate limiter store of %d keys", opts.MemoryCacheSize)
	}
	limiter, err := throttled.NewGCRARateLimiter(store, throttled.RateQuota{
		MaxRate:  throttled.PerSec(opts.MaxRequestsPerSecond),
		MaxBurst: opts.MaxBurst,
	})
	if err != nil {
		return throttled.HTTPRateLimiter{}, errors.Wrap(err, "failed to create rate limiter")
	}
	return throttled.HTTPRateLimiter{
		RateLimiter: limiter,
		VaryBy: &throttled.VaryBy{
			RemoteAddr: true,
			Headers:    []string{signerHeader},
		},
	}, nil
}
