package proto

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentflow/rentflow/pkg/crypto"
)

func testLease(t *testing.T) *Lease {
	_, manager := crypto.GenerateKeyPair([]byte("manager"))
	_, tenant := crypto.GenerateKeyPair([]byte("tenant"))
	return &Lease{
		LeaseID:         "L1",
		ContentHash:     crypto.MustFastHash([]byte("agreement text")),
		Manager:         manager,
		Tenant:          tenant,
		MonthlyRent:     1000,
		SecurityDeposit: 500,
		StartTime:       1000,
		EndTime:         2000,
		Status:          LeaseStatusPending,
		CreatedAt:       900,
		Salt:            254,
	}
}

func TestLeaseBinaryRoundTrip(t *testing.T) {
	l := testLease(t)
	l.SetSignature(PartyManager, crypto.MustFastHash([]byte("m")))
	l.SetSignature(PartyTenant, crypto.MustFastHash([]byte("t")))
	l.Status = LeaseStatusActive
	l.ActivatedAt = 1500

	b, err := l.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, l.BinarySize())

	var l2 Lease
	require.NoError(t, l2.UnmarshalBinary(b))
	if diff := deep.Equal(l, &l2); diff != nil {
		t.Fatalf("decoded lease differs: %v", diff)
	}
}

func TestLeaseBinaryLayout(t *testing.T) {
	l := testLease(t)
	b, err := l.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, leaseRecordVersion, b[0])
	assert.Equal(t, []byte{0, 2, 'L', '1'}, b[1:5])
	assert.Equal(t, l.ContentHash[:], b[5:37])
	assert.Equal(t, l.Manager[:], b[37:69])
	assert.Equal(t, l.Tenant[:], b[69:101])
	assert.Equal(t, byte(254), b[len(b)-1])

	long := testLease(t)
	long.LeaseID = strings.Repeat("z", MaxLeaseIDLength)
	lb, err := long.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, lb, LeaseMaxBinarySize)
}

func TestLeaseUnmarshalBinaryErrors(t *testing.T) {
	b, err := testLease(t).MarshalBinary()
	require.NoError(t, err)

	var l Lease
	assert.Error(t, l.UnmarshalBinary(b[:len(b)-1]))
	assert.EqualError(t, l.UnmarshalBinary(append(b, 0)), "1 trailing bytes after lease record")

	bad := append([]byte{}, b...)
	bad[0] = 2
	assert.EqualError(t, l.UnmarshalBinary(bad), "unsupported lease record version 2")
}

func TestLeaseValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(l *Lease)
		err    string
	}{
		{"valid", func(l *Lease) {}, ""},
		{"long id", func(l *Lease) { l.LeaseID = strings.Repeat("a", 65) }, "lease ID length 65 exceeds 64"},
		{"zero rent", func(l *Lease) { l.MonthlyRent = 0 }, "zero monthly rent"},
		{"dates", func(l *Lease) { l.EndTime = l.StartTime }, "end 1000 is not after start 1000"},
		{"active unsigned", func(l *Lease) { l.Status = LeaseStatusActive }, "lease in status Active is not signed by both parties"},
		{"pending activated", func(l *Lease) { l.ActivatedAt = 1 }, "pending lease has activation time"},
		{"stray signature", func(l *Lease) { l.TenantSignature[0] = 1 }, "tenant signature without tenant sign flag"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := testLease(t)
			tc.modify(l)
			err := l.Validate()
			if tc.err == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.err)
			}
		})
	}
}

func TestLeaseParties(t *testing.T) {
	l := testLease(t)
	p, ok := l.PartyOf(l.Manager)
	assert.True(t, ok)
	assert.Equal(t, PartyManager, p)
	p, ok = l.PartyOf(l.Tenant)
	assert.True(t, ok)
	assert.Equal(t, PartyTenant, p)
	_, stranger := crypto.GenerateKeyPair([]byte("stranger"))
	_, ok = l.PartyOf(stranger)
	assert.False(t, ok)

	assert.False(t, l.HasSigned(PartyTenant))
	l.SetSignature(PartyTenant, crypto.MustFastHash([]byte("sig")))
	assert.True(t, l.HasSigned(PartyTenant))
	assert.False(t, l.FullySigned())
	assert.False(t, l.Verified())
}

func TestLeaseClone(t *testing.T) {
	l := testLease(t)
	c, err := l.Clone()
	require.NoError(t, err)
	assert.Equal(t, l, c)
	c.ManagerSigned = true
	c.ContentHash[0] ^= 0xff
	assert.False(t, l.ManagerSigned)
	assert.NotEqual(t, l.ContentHash, c.ContentHash)
}
