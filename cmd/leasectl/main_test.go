package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentflow/rentflow/pkg/crypto"
)

func newTestCommand(opts Opts) (*command, *bytes.Buffer) {
	out := new(bytes.Buffer)
	opts.PathToWallet = "/wallet.dat"
	return &command{
		opts:   opts,
		fs:     afero.NewMemMapFs(),
		out:    out,
		passwd: func() ([]byte, error) { return []byte("secret"), nil },
	}, out
}

func TestKeygenAndWhoami(t *testing.T) {
	c, out := newTestCommand(Opts{Timeout: time.Second})
	require.NoError(t, c.run([]string{"keygen"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	pk := strings.TrimPrefix(lines[1], "public key: ")

	out.Reset()
	require.NoError(t, c.run([]string{"whoami"}))
	assert.Equal(t, pk+"\n", out.String())

	sk, err := c.secretKey()
	require.NoError(t, err)
	assert.Equal(t, pk, crypto.GeneratePublicKey(*sk).String())

	c.opts.Key = crypto.PublicKey{}.String()
	_, err = c.secretKey()
	assert.Error(t, err)
}

func TestUsageErrors(t *testing.T) {
	c, _ := newTestCommand(Opts{Timeout: time.Second})
	for _, a := range [][]string{nil, {"unknown"}, {"show"}, {"sign", "L1"}, {"init", "a", "b"}} {
		assert.ErrorIs(t, c.run(a), errUsage, a)
	}
	assert.Error(t, c.run([]string{"status", "L1", "Paused"}))
}

func TestGraph(t *testing.T) {
	c, out := newTestCommand(Opts{Timeout: time.Second})
	require.NoError(t, c.run([]string{"graph"}))
	assert.Contains(t, out.String(), "digraph")
}

func TestInitializeRequest(t *testing.T) {
	_, tenant := crypto.GenerateKeyPair([]byte("tenant"))
	c, _ := newTestCommand(Opts{
		Tenant:   tenant.String(),
		Content:  "/lease.pdf",
		Rent:     1000,
		Deposit:  2000,
		Duration: 24 * time.Hour,
	})
	require.NoError(t, afero.WriteFile(c.fs, "/lease.pdf", []byte("contract"), 0600))
	now := time.Unix(1_700_000_000, 0)

	req, err := c.initializeRequest("L1", now)
	require.NoError(t, err)
	assert.Equal(t, "L1", req.LeaseID)
	assert.Equal(t, tenant, req.Tenant)
	assert.Equal(t, crypto.MustFastHash([]byte("contract")), req.ContentHash)
	assert.Equal(t, now.Unix(), req.StartDate)
	assert.Equal(t, now.Unix()+86400, req.EndDate)

	c.opts.Start, c.opts.End = "2024-01-01T00:00:00Z", "2025-01-01T00:00:00Z"
	req, err = c.initializeRequest("L1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1704067200), req.StartDate)
	assert.Equal(t, int64(1735689600), req.EndDate)

	c.opts.Tenant = "bad"
	_, err = c.initializeRequest("L1", now)
	assert.Error(t, err)
}
