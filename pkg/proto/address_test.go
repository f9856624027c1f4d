package proto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentflow/rentflow/pkg/crypto"
)

var testProgramID = ProgramID(crypto.MustFastHash([]byte("rentflow-core")))

func TestFindDerivedAddress(t *testing.T) {
	a1, s1, err := FindDerivedAddress(testProgramID, LeaseSeeds("L1")...)
	require.NoError(t, err)
	a2, s2, err := FindDerivedAddress(testProgramID, LeaseSeeds("L1")...)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, s1, s2)
	assert.False(t, crypto.IsOnCurve(a1))

	a3, _, err := FindDerivedAddress(testProgramID, LeaseSeeds("L2")...)
	require.NoError(t, err)
	assert.NotEqual(t, a1, a3)

	other := ProgramID(crypto.MustFastHash([]byte("other-program")))
	a4, _, err := FindDerivedAddress(other, LeaseSeeds("L1")...)
	require.NoError(t, err)
	assert.NotEqual(t, a1, a4)
}

func TestCreateDerivedAddressWithFoundSalt(t *testing.T) {
	for _, id := range []string{"", "L1", "lease-2024-0001", strings.Repeat("x", MaxLeaseIDLength)} {
		addr, salt, err := FindDerivedAddress(testProgramID, LeaseSeeds(id)...)
		require.NoError(t, err, id)
		recreated, err := CreateDerivedAddress(testProgramID, salt, LeaseSeeds(id)...)
		require.NoError(t, err, id)
		assert.Equal(t, addr, recreated, id)
	}
}

func TestDerivedAddressSeedLimits(t *testing.T) {
	_, _, err := FindDerivedAddress(testProgramID, []byte(LeaseNamespace), make([]byte, MaxSeedLength+1))
	assert.EqualError(t, err, "seed 1 is too long 65, max 64")
	seeds := make([][]byte, MaxSeeds+1)
	_, err = CreateDerivedAddress(testProgramID, 255, seeds...)
	assert.EqualError(t, err, "too many seeds 17, max 16")
}

func TestAddressString(t *testing.T) {
	addr, _, err := FindDerivedAddress(testProgramID, LeaseSeeds("L1")...)
	require.NoError(t, err)
	parsed, err := NewAddressFromString(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	js, err := addr.MarshalJSON()
	require.NoError(t, err)
	var fromJSON Address
	require.NoError(t, fromJSON.UnmarshalJSON(js))
	assert.Equal(t, addr, fromJSON)

	_, err = NewAddressFromString("3yZe7d")
	assert.Error(t, err)
}

func TestProgramIDFromString(t *testing.T) {
	p, err := NewProgramIDFromString(testProgramID.String())
	require.NoError(t, err)
	assert.Equal(t, testProgramID, p)
	_, err = NewProgramIDFromString("111")
	assert.EqualError(t, err, "incorrect ProgramID size 3, expected 32")
}
