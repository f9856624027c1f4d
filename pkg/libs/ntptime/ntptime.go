package ntptime

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	initialQueryTimeout = 5 * time.Second
	maxOffset           = time.Hour
)

type inner interface {
	Query(addr string) (*ntp.Response, error)
}

type ntpInner struct {
}

func (a ntpInner) Query(addr string) (*ntp.Response, error) {
	return ntp.Query(addr)
}

// Clock is the local clock corrected by the offset reported by an NTP server.
// Returned time never goes backwards, even if the offset is corrected.
type Clock struct {
	mu     sync.RWMutex
	err    error
	offset time.Duration
	addr   string
	inner  inner
	last   *atomic.Int64
}

// New creates a clock synchronized with the NTP server at addr. Empty addr gives the plain local clock.
func New(ctx context.Context, addr string) *Clock {
	return newClock(ctx, addr, ntpInner{}, initialQueryTimeout)
}

func newClock(ctx context.Context, addr string, inner inner, timeout time.Duration) *Clock {
	c := &Clock{
		addr:  addr,
		inner: inner,
		last:  atomic.NewInt64(0),
	}
	if addr == "" {
		return c
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = time.Second
	bo.MaxElapsedTime = timeout
	err := backoff.Retry(c.query, backoff.WithContext(bo, ctx))
	if err != nil {
		zap.S().Warnf("NTP server %q is unavailable, local clock is used: %v", addr, err)
	}
	return c
}

func (c *Clock) query() error {
	tm, err := c.inner.Query(c.addr)
	if err == nil {
		err = tm.Validate()
	}
	if err == nil && (tm.ClockOffset > maxOffset || tm.ClockOffset < -maxOffset) {
		err = backoff.Permanent(errors.Errorf("clock offset %s is too large", tm.ClockOffset))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = errors.Wrapf(err, "failed to query NTP server %q", c.addr)
		return err
	}
	c.offset = tm.ClockOffset
	c.err = nil
	return nil
}

// Run refreshes the offset every interval until ctx is done.
func (c *Clock) Run(ctx context.Context, interval time.Duration) {
	if c.addr == "" {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			if err := c.query(); err != nil {
				zap.S().Debugf("NTP query failed: %v", err)
			}
		}
	}
}

func (c *Clock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// Now returns the corrected time and the error of the last synchronization attempt.
func (c *Clock) Now() (time.Time, error) {
	c.mu.RLock()
	offset, err := c.offset, c.err
	c.mu.RUnlock()
	now := time.Now().Add(offset)
	for {
		last := c.last.Load()
		if now.UnixNano() <= last {
			return time.Unix(0, last), err
		}
		if c.last.CompareAndSwap(last, now.UnixNano()) {
			return now, err
		}
	}
}
