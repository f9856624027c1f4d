package wallet

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const defaultWalletFile = ".rentflow/wallet.dat"

// Storage reads and writes the encrypted wallet file.
type Storage struct {
	fs   afero.Fs
	path string
}

func NewStorage(fs afero.Fs, path string) *Storage {
	return &Storage{fs: fs, path: path}
}

// DefaultPath returns the wallet path inside the home directory of the current user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultWalletFile), nil
}

func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) Exists() (bool, error) {
	return afero.Exists(s.fs, s.path)
}

func (s *Storage) Load(password []byte) (Wallet, error) {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read wallet %s", s.path)
	}
	return Decode(b, password)
}

// Save encrypts the wallet and writes it readable by the owner only.
func (s *Storage) Save(w Wallet, password []byte) error {
	b, err := w.Encode(password)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrap(err, "failed to create wallet directory")
	}
	if err := afero.WriteFile(s.fs, s.path, b, 0600); err != nil {
		return errors.Wrapf(err, "failed to write wallet %s", s.path)
	}
	return nil
}

// LoadOrCreate returns the stored wallet or a new empty one when there is no file yet.
func (s *Storage) LoadOrCreate(password []byte) (Wallet, error) {
	ok, err := s.Exists()
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewWallet(), nil
	}
	return s.Load(password)
}
