package ledger

import (
	"bytes"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"

	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/libs/deserializer"
	"github.com/rentflow/rentflow/pkg/libs/serializer"
)

// Account is the envelope of record data stored at an address.
type Account struct {
	Payer crypto.PublicKey
	Size  uint32
	Data  []byte
}

func (a *Account) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, crypto.PublicKeySize+4+4+len(a.Data)))
	s := serializer.New(buf)
	if err := s.PublicKey(a.Payer); err != nil {
		return nil, err
	}
	if err := s.Uint32(a.Size); err != nil {
		return nil, err
	}
	if err := s.BytesWithUInt32Len(a.Data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Account) UnmarshalBinary(data []byte) error {
	d := deserializer.NewDeserializer(data)
	var err error
	if a.Payer, err = d.PublicKey(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if a.Size, err = d.Uint32(); err != nil {
		return errors.Wrap(err, "size")
	}
	b, err := d.BytesWithUInt32Len()
	if err != nil {
		return errors.Wrap(err, "data")
	}
	a.Data = make([]byte, len(b))
	copy(a.Data, b)
	if rest := d.Len(); rest != 0 {
		return errors.Errorf("%d trailing bytes after account", rest)
	}
	return nil
}

func accountSize(size int) (uint32, error) {
	s, err := safecast.ToUint32(size)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid account size %d", size)
	}
	return s, nil
}
