package wallet

import (
	"encoding/binary"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"

	"github.com/rentflow/rentflow/pkg/crypto"
)

const (
	curVersion     = 1
	mnemonicBits   = 160
	versionSize    = 4
	zeroSeedNonce  = 0
	seedNonceBytes = 4
)

var (
	ErrPublicKeyNotFound = errors.New("public key not found in wallet")
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrDuplicateSeed     = errors.New("seed is already in wallet")
)

type WalletFormat struct {
	Seeds [][]byte `json:"seeds"`
}

type Wallet interface {
	Seeds() [][]byte
	AddSeed([]byte) error
	PublicKeys() []crypto.PublicKey
	SecretKey(pk crypto.PublicKey) (crypto.SecretKey, error)
	Encode(pass []byte) ([]byte, error)
}

type WalletImpl struct {
	Version uint32
	format  WalletFormat
	scrypt  scryptParams
}

func NewWallet() *WalletImpl {
	return &WalletImpl{
		Version: curVersion,
		format:  WalletFormat{},
		scrypt:  defaultScryptParams,
	}
}

// NewMnemonic generates a fresh BIP-39 phrase for a new account seed.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicBits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}
	return bip39.NewMnemonic(entropy)
}

// SeedFromMnemonic validates the phrase checksum and returns it as an account seed.
func SeedFromMnemonic(mnemonic string) ([]byte, error) {
	m := strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(m) {
		return nil, ErrInvalidMnemonic
	}
	return []byte(m), nil
}

func (a *WalletImpl) Seeds() [][]byte {
	return a.format.Seeds
}

// AddSeed stores the account seed. Keys are generated from the hash of the nonce prefixed seed.
func (a *WalletImpl) AddSeed(seed []byte) error {
	for _, s := range a.format.Seeds {
		if string(s) == string(seed) {
			return ErrDuplicateSeed
		}
	}
	a.format.Seeds = append(a.format.Seeds, append([]byte(nil), seed...))
	return nil
}

func accountKeyPair(seed []byte) (crypto.SecretKey, crypto.PublicKey, error) {
	s := make([]byte, seedNonceBytes+len(seed))
	binary.BigEndian.PutUint32(s[:seedNonceBytes], zeroSeedNonce)
	copy(s[seedNonceBytes:], seed)
	h, err := crypto.SecureHash(s)
	if err != nil {
		return crypto.SecretKey{}, crypto.PublicKey{}, errors.Wrap(err, "failed to generate hash from seed")
	}
	sk, pk := crypto.GenerateKeyPair(h[:])
	return sk, pk, nil
}

func (a *WalletImpl) PublicKeys() []crypto.PublicKey {
	res := make([]crypto.PublicKey, 0, len(a.format.Seeds))
	for _, s := range a.format.Seeds {
		_, pk, err := accountKeyPair(s)
		if err != nil {
			continue
		}
		res = append(res, pk)
	}
	return res
}

func (a *WalletImpl) SecretKey(pk crypto.PublicKey) (crypto.SecretKey, error) {
	for _, s := range a.format.Seeds {
		sk, public, err := accountKeyPair(s)
		if err != nil {
			return crypto.SecretKey{}, err
		}
		if public == pk {
			return sk, nil
		}
	}
	return crypto.SecretKey{}, ErrPublicKeyNotFound
}

func (a *WalletImpl) Encode(password []byte) ([]byte, error) {
	walletData, err := json.Marshal(a.format)
	if err != nil {
		return nil, err
	}
	header := make([]byte, versionSize)
	binary.BigEndian.PutUint32(header, curVersion)
	rs, err := newCrypt(password, a.scrypt).Encrypt(walletData, header)
	if err != nil {
		return nil, err
	}
	return append(header, rs...), nil
}

func Decode(walletData []byte, password []byte) (Wallet, error) {
	return decode(walletData, password, defaultScryptParams)
}

func decode(walletData []byte, password []byte, params scryptParams) (*WalletImpl, error) {
	if len(walletData) < versionSize {
		return nil, errors.Errorf("invalid wallet size %d", len(walletData))
	}
	version := binary.BigEndian.Uint32(walletData[:versionSize])
	if version != curVersion {
		return nil, errors.Errorf("unsupported wallet version %d", version)
	}
	bts, err := newCrypt(password, params).Decrypt(walletData[versionSize:], walletData[:versionSize])
	if err != nil {
		return nil, err
	}

	format := WalletFormat{}
	if err := json.Unmarshal(bts, &format); err != nil {
		return nil, errors.Wrap(err, "corrupted wallet")
	}
	return &WalletImpl{
		Version: version,
		format:  format,
		scrypt:  params,
	}, nil
}
