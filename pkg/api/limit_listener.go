package api

import (
	"net"
	"sync"
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

const defaultConnQuotaWait = time.Second

// limitListener accepts at most n simultaneous connections. When no slot frees up within the
// quota wait, the connection that has been idle for the longest time is closed.
type limitListener struct {
	net.Listener
	sem       chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	quotaWait time.Duration

	mu     sync.Mutex
	nextID uint64
	// connections ordered by their last read, the least recently read first
	conns *orderedmap.OrderedMap[uint64, *limitedConn]
}

func newLimitListener(l net.Listener, n int) *limitListener {
	return &limitListener{
		Listener:  l,
		sem:       make(chan struct{}, n),
		done:      make(chan struct{}),
		quotaWait: defaultConnQuotaWait,
		conns:     orderedmap.NewOrderedMap[uint64, *limitedConn](),
	}
}

func (l *limitListener) acquire() bool {
	for {
		timer := time.NewTimer(l.quotaWait)
		select {
		case <-l.done:
			timer.Stop()
			return false
		case l.sem <- struct{}{}:
			timer.Stop()
			return true
		case <-timer.C:
			l.evictIdle()
		}
	}
}

func (l *limitListener) evictIdle() {
	l.mu.Lock()
	el := l.conns.Front()
	if el == nil {
		l.mu.Unlock()
		return
	}
	l.conns.Delete(el.Key)
	l.mu.Unlock()
	metricApiEvictedConnections.Inc()
	_ = el.Value.Close()
}

func (l *limitListener) touch(c *limitedConn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conns.Delete(c.id)
	l.conns.Set(c.id, c)
}

func (l *limitListener) release(c *limitedConn) {
	l.mu.Lock()
	l.conns.Delete(c.id)
	l.mu.Unlock()
	<-l.sem
}

func (l *limitListener) Accept() (net.Conn, error) {
	if !l.acquire() {
		// closed: drain whatever the underlying listener still returns
		for {
			c, err := l.Listener.Accept()
			if err != nil {
				return nil, err
			}
			_ = c.Close()
		}
	}
	c, err := l.Listener.Accept()
	if err != nil {
		<-l.sem
		return nil, err
	}
	l.mu.Lock()
	lc := &limitedConn{Conn: c, l: l, id: l.nextID}
	l.nextID++
	l.conns.Set(lc.id, lc)
	l.mu.Unlock()
	return lc, nil
}

func (l *limitListener) Close() error {
	err := l.Listener.Close()
	l.closeOnce.Do(func() { close(l.done) })
	return err
}

type limitedConn struct {
	net.Conn
	l           *limitListener
	id          uint64
	releaseOnce sync.Once
}

func (c *limitedConn) Read(b []byte) (int, error) {
	c.l.touch(c)
	return c.Conn.Read(b)
}

func (c *limitedConn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(func() { c.l.release(c) })
	return err
}
