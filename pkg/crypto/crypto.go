package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	DigestSize    = 32
	PublicKeySize = ed25519.PublicKeySize
	SecretKeySize = ed25519.SeedSize
	SignatureSize = ed25519.SignatureSize
)

type Digest [DigestSize]byte

func NewDigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if l := len(b); l != DigestSize {
		return d, errors.Errorf("incorrect digest length %d, expected %d", l, DigestSize)
	}
	copy(d[:], b)
	return d, nil
}

func NewDigestFromBase58(s string) (Digest, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Digest{}, errors.Wrap(err, "invalid base58 digest")
	}
	return NewDigestFromBytes(b)
}

func MustDigestFromBase58(s string) Digest {
	d, err := NewDigestFromBase58(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Digest) String() string {
	return base58.Encode(d[:])
}

func (d Digest) Bytes() []byte {
	return d[:]
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) MarshalJSON() ([]byte, error) {
	return toBase58JSON(d[:]), nil
}

func (d *Digest) UnmarshalJSON(value []byte) error {
	b, err := fromBase58JSON(value, DigestSize, "Digest")
	if err != nil {
		return err
	}
	copy(d[:], b)
	return nil
}

type SecretKey [SecretKeySize]byte

func NewSecretKeyFromBase58(s string) (SecretKey, error) {
	var sk SecretKey
	b, err := base58.Decode(s)
	if err != nil {
		return sk, errors.Wrap(err, "invalid base58 secret key")
	}
	if l := len(b); l != SecretKeySize {
		return sk, errors.Errorf("incorrect secret key length %d, expected %d", l, SecretKeySize)
	}
	copy(sk[:], b)
	return sk, nil
}

func (k SecretKey) String() string {
	return base58.Encode(k[:])
}

// PublicKey identifies a party. Every public key is a point on the Ed25519 curve.
type PublicKey [PublicKeySize]byte

func NewPublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if l := len(b); l != PublicKeySize {
		return pk, errors.Errorf("incorrect public key length %d, expected %d", l, PublicKeySize)
	}
	copy(pk[:], b)
	return pk, nil
}

func NewPublicKeyFromBase58(s string) (PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "invalid base58 public key")
	}
	return NewPublicKeyFromBytes(b)
}

func MustPublicKeyFromBase58(s string) PublicKey {
	pk, err := NewPublicKeyFromBase58(s)
	if err != nil {
		panic(err.Error())
	}
	return pk
}

func (k PublicKey) String() string {
	return base58.Encode(k[:])
}

func (k PublicKey) Bytes() []byte {
	return k[:]
}

func (k PublicKey) MarshalJSON() ([]byte, error) {
	return toBase58JSON(k[:]), nil
}

func (k *PublicKey) UnmarshalJSON(value []byte) error {
	b, err := fromBase58JSON(value, PublicKeySize, "PublicKey")
	if err != nil {
		return err
	}
	copy(k[:], b)
	return nil
}

type Signature [SignatureSize]byte

func NewSignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if l := len(b); l != SignatureSize {
		return s, errors.Errorf("incorrect signature length %d, expected %d", l, SignatureSize)
	}
	copy(s[:], b)
	return s, nil
}

func NewSignatureFromBase58(s string) (Signature, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Signature{}, errors.Wrap(err, "invalid base58 signature")
	}
	return NewSignatureFromBytes(b)
}

func (s Signature) String() string {
	return base58.Encode(s[:])
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return toBase58JSON(s[:]), nil
}

func (s *Signature) UnmarshalJSON(value []byte) error {
	b, err := fromBase58JSON(value, SignatureSize, "Signature")
	if err != nil {
		return err
	}
	copy(s[:], b)
	return nil
}

func Keccak256(data []byte) (digest Digest) {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(digest[:0])
	return
}

func FastHash(data []byte) (digest Digest, err error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return
	}
	h.Write(data)
	h.Sum(digest[:0])
	return
}

func MustFastHash(data []byte) Digest {
	d, err := FastHash(data)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// SecureHash is Keccak256 of Blake2b256.
func SecureHash(data []byte) (digest Digest, err error) {
	fh, err := blake2b.New256(nil)
	if err != nil {
		return
	}
	fh.Write(data)
	fh.Sum(digest[:0])
	h := sha3.NewLegacyKeccak256()
	h.Write(digest[:DigestSize])
	h.Sum(digest[:0])
	return
}

func GenerateSecretKey(seed []byte) (sk SecretKey) {
	h := sha256.Sum256(seed)
	copy(sk[:], h[:])
	return sk
}

func GeneratePublicKey(sk SecretKey) (pk PublicKey) {
	private := ed25519.NewKeyFromSeed(sk[:])
	copy(pk[:], private.Public().(ed25519.PublicKey))
	return pk
}

func GenerateKeyPair(seed []byte) (sk SecretKey, pk PublicKey) {
	sk = GenerateSecretKey(seed)
	pk = GeneratePublicKey(sk)
	return
}

func Sign(secretKey SecretKey, data []byte) (sig Signature) {
	private := ed25519.NewKeyFromSeed(secretKey[:])
	copy(sig[:], ed25519.Sign(private, data))
	return
}

func Verify(publicKey PublicKey, signature Signature, data []byte) bool {
	return ed25519.Verify(publicKey[:], data, signature[:])
}

// IsOnCurve reports whether b decodes to a point of the Ed25519 curve.
func IsOnCurve(b [32]byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b[:])
	return err == nil
}

func toBase58JSON(b []byte) []byte {
	s := base58.Encode(b)
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteRune('"')
	sb.WriteString(s)
	sb.WriteRune('"')
	return []byte(sb.String())
}

func fromBase58JSON(value []byte, size int, name string) ([]byte, error) {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s from JSON", name)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s from base58", name)
	}
	if l := len(b); l != size {
		return nil, errors.Errorf("incorrect %s length %d, expected %d", name, l, size)
	}
	return b, nil
}
