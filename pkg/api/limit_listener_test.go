package api

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitListenerEvictsIdle(t *testing.T) {
	inner, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	l := newLimitListener(inner, 1)
	l.quotaWait = 50 * time.Millisecond
	defer func() {
		_ = l.Close()
	}()

	accepted := make(chan net.Conn, 2)
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			accepted <- c
		}
	}()

	first, err := net.Dial("tcp", inner.Addr().String())
	require.NoError(t, err)
	defer func() { _ = first.Close() }()
	c1 := <-accepted

	second, err := net.Dial("tcp", inner.Addr().String())
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	select {
	case c2 := <-accepted:
		defer func() { _ = c2.Close() }()
	case <-time.After(5 * time.Second):
		require.FailNow(t, "second connection is not accepted")
	}

	require.NoError(t, first.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = first.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
	_, err = c1.Write([]byte{1})
	assert.Error(t, err)
}

func TestLimitListenerClose(t *testing.T) {
	inner, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	l := newLimitListener(inner, 1)
	require.NoError(t, l.Close())
	_, err = l.Accept()
	assert.Error(t, err)
}
