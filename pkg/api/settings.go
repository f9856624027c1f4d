package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultRateLimiterStorageSize = 64 * 1024 // 64 KB
	DefaultMaxBodySize            = 64 * 1024
	DefaultMaxClockSkew           = 30 * time.Second
)

type RunOptions struct {
	RateLimiterOpts      *RateLimiterOptions
	LogHttpRequestOpts   bool
	CollectMetrics       bool
	UseRealIPMiddleware  bool
	EnableHeartbeatRoute bool
	RouteNotFoundHandler func(w http.ResponseWriter, r *http.Request)
	MaxBodySize          int64
	MaxClockSkew         time.Duration
	MaxConnections       int
}

type RateLimiterOptions struct {
	MemoryCacheSize      int
	MaxRequestsPerSecond int
	MaxBurst             int
}

func DefaultRunOptions() *RunOptions {
	return &RunOptions{
		RateLimiterOpts: &RateLimiterOptions{
			MemoryCacheSize:      DefaultRateLimiterStorageSize,
			MaxRequestsPerSecond: 20,
			MaxBurst:             50,
		},
		LogHttpRequestOpts:   false,
		EnableHeartbeatRoute: true,
		UseRealIPMiddleware:  false,
		CollectMetrics:       true,
		RouteNotFoundHandler: func(w http.ResponseWriter, r *http.Request) {
			zap.S().Debugf("LeaseApi not found %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		},
		MaxBodySize:  DefaultMaxBodySize,
		MaxClockSkew: DefaultMaxClockSkew,
	}
}
