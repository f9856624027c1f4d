package proto

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"

	"github.com/rentflow/rentflow/pkg/crypto"
)

const (
	AddressSize   = 32
	ProgramIDSize = 32

	MaxSeeds      = 16
	MaxSeedLength = 64

	addressMarker = "RecordDerivedAddress"
)

var ErrNoViableSalt = errors.New("unable to find a viable salt for derived address")

// ProgramID identifies the program owning derived records.
type ProgramID [ProgramIDSize]byte

func NewProgramIDFromString(s string) (ProgramID, error) {
	var p ProgramID
	b, err := base58.Decode(s)
	if err != nil {
		return p, errors.Wrap(err, "invalid Base58 string")
	}
	if l := len(b); l != ProgramIDSize {
		return p, errors.Errorf("incorrect ProgramID size %d, expected %d", l, ProgramIDSize)
	}
	copy(p[:], b)
	return p, nil
}

func MustProgramIDFromString(s string) ProgramID {
	p, err := NewProgramIDFromString(s)
	if err != nil {
		panic(err.Error())
	}
	return p
}

func (p ProgramID) String() string {
	return base58.Encode(p[:])
}

// Address is a location of a record in the ledger. Addresses are derived from seeds and never
// lie on the Ed25519 curve, so no identity can hold a key for one.
type Address [AddressSize]byte

func NewAddressFromString(s string) (Address, error) {
	var a Address
	b, err := base58.Decode(s)
	if err != nil {
		return a, errors.Wrap(err, "invalid Base58 string")
	}
	a, err = NewAddressFromBytes(b)
	if err != nil {
		return a, fmt.Errorf("failed to create an Address from Base58 string: %s", err.Error())
	}
	return a, nil
}

func NewAddressFromBytes(b []byte) (Address, error) {
	var a Address
	if l := len(b); l != AddressSize {
		return a, fmt.Errorf("incorrect Address size %d, expected %d", l, AddressSize)
	}
	copy(a[:], b)
	return a, nil
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(value []byte) error {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return errors.Wrap(err, "failed to unmarshal Address from JSON")
	}
	addr, err := NewAddressFromString(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Errorf("too many seeds %d, max %d", len(seeds), MaxSeeds)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Errorf("seed %d is too long %d, max %d", i, len(s), MaxSeedLength)
		}
	}
	return nil
}

func derivedAddressCandidate(program ProgramID, salt byte, seeds [][]byte) (crypto.Digest, error) {
	size := 1 + ProgramIDSize + len(addressMarker)
	for _, s := range seeds {
		size += len(s)
	}
	buf := make([]byte, 0, size)
	for _, s := range seeds {
		buf = append(buf, s...)
	}
	buf = append(buf, salt)
	buf = append(buf, program[:]...)
	buf = append(buf, addressMarker...)
	return crypto.SecureHash(buf)
}

// CreateDerivedAddress hashes seeds with the salt and the program ID. It fails if the result
// is a valid curve point.
func CreateDerivedAddress(program ProgramID, salt byte, seeds ...[]byte) (Address, error) {
	if err := validateSeeds(seeds); err != nil {
		return Address{}, err
	}
	h, err := derivedAddressCandidate(program, salt, seeds)
	if err != nil {
		return Address{}, errors.Wrap(err, "failed to hash seeds")
	}
	if crypto.IsOnCurve(h) {
		return Address{}, errors.Errorf("derived address for salt %d is on curve", salt)
	}
	return Address(h), nil
}

// FindDerivedAddress searches salts from 255 down and returns the first address off the curve.
func FindDerivedAddress(program ProgramID, seeds ...[]byte) (Address, byte, error) {
	if err := validateSeeds(seeds); err != nil {
		return Address{}, 0, err
	}
	for salt := 255; salt >= 0; salt-- {
		h, err := derivedAddressCandidate(program, byte(salt), seeds)
		if err != nil {
			return Address{}, 0, errors.Wrap(err, "failed to hash seeds")
		}
		if !crypto.IsOnCurve(h) {
			return Address(h), byte(salt), nil
		}
	}
	return Address{}, 0, ErrNoViableSalt
}
