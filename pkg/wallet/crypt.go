package wallet

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize = 16

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var ErrInvalidPassword = errors.New("invalid password")

// crypt seals wallet data with XChaCha20-Poly1305 under a key derived from the password.
// Sealed layout: salt | nonce | ciphertext.
type crypt struct {
	password []byte
	params   scryptParams
}

type scryptParams struct {
	n, r, p int
}

var defaultScryptParams = scryptParams{n: scryptN, r: scryptR, p: scryptP}

func newCrypt(password []byte, params scryptParams) *crypt {
	return &crypt{password: password, params: params}
}

func (a *crypt) key(salt []byte) ([]byte, error) {
	return scrypt.Key(a.password, salt, a.params.n, a.params.r, a.params.p, chacha20poly1305.KeySize)
}

func (a *crypt) Encrypt(plaintext, ad []byte) ([]byte, error) {
	out := make([]byte, saltSize+chacha20poly1305.NonceSizeX, saltSize+chacha20poly1305.NonceSizeX+len(plaintext)+chacha20poly1305.Overhead)
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return nil, err
	}
	key, err := a.key(out[:saltSize])
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(out, out[saltSize:], plaintext, ad), nil
}

func (a *crypt) Decrypt(sealed, ad []byte) ([]byte, error) {
	if l := len(sealed); l < saltSize+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return nil, errors.Errorf("invalid cipher size %d", l)
	}
	key, err := a.key(sealed[:saltSize])
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := sealed[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	plaintext, err := aead.Open(nil, nonce, sealed[saltSize+chacha20poly1305.NonceSizeX:], ad)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	return plaintext, nil
}
