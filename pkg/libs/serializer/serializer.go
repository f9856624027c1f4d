package serializer

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"

	"github.com/rentflow/rentflow/pkg/crypto"
)

// Serializer writes big-endian fixed width values and counts written bytes.
type Serializer struct {
	w io.Writer
	n int
}

func New(w io.Writer) *Serializer {
	return &Serializer{
		w: w,
		n: 0,
	}
}

func (a *Serializer) Write(b []byte) (int, error) {
	n, err := a.w.Write(b)
	if err != nil {
		return 0, err
	}
	a.n += n
	return n, nil
}

func (a *Serializer) StringWithUInt16Len(s string) error {
	l, err := safecast.ToUint16(len(s))
	if err != nil {
		return errors.Errorf("too long string, expected max %d, found %d", math.MaxUint16, len(s))
	}
	if err := a.Uint16(l); err != nil {
		return err
	}
	return a.String(s)
}

func (a *Serializer) BytesWithUInt16Len(data []byte) error {
	l, err := safecast.ToUint16(len(data))
	if err != nil {
		return errors.Errorf("too long slice, expected max %d, found %d", math.MaxUint16, len(data))
	}
	if err := a.Uint16(l); err != nil {
		return err
	}
	return a.Bytes(data)
}

func (a *Serializer) BytesWithUInt32Len(data []byte) error {
	l, err := safecast.ToUint32(len(data))
	if err != nil {
		return errors.Errorf("too long slice, expected max %d, found %d", uint32(math.MaxUint32), len(data))
	}
	if err := a.Uint32(l); err != nil {
		return err
	}
	return a.Bytes(data)
}

func (a *Serializer) Uint16(v uint16) error {
	buf := [2]byte{}
	binary.BigEndian.PutUint16(buf[:], v)
	return a.Bytes(buf[:])
}

func (a *Serializer) Uint32(v uint32) error {
	buf := [4]byte{}
	binary.BigEndian.PutUint32(buf[:], v)
	return a.Bytes(buf[:])
}

func (a *Serializer) Uint64(v uint64) error {
	buf := [8]byte{}
	binary.BigEndian.PutUint64(buf[:], v)
	return a.Bytes(buf[:])
}

// Int64 writes two's complement representation of v.
func (a *Serializer) Int64(v int64) error {
	return a.Uint64(uint64(v))
}

func (a *Serializer) String(s string) error {
	return a.Bytes([]byte(s))
}

func (a *Serializer) Byte(b byte) error {
	return a.Bytes([]byte{b})
}

func (a *Serializer) N() int64 {
	return int64(a.n)
}

func (a *Serializer) Bool(b bool) error {
	var v byte = 0
	if b {
		v = 1
	}
	return a.Byte(v)
}

func (a *Serializer) Digest(d crypto.Digest) error {
	return a.Bytes(d[:])
}

func (a *Serializer) PublicKey(pk crypto.PublicKey) error {
	return a.Bytes(pk[:])
}

func (a *Serializer) Bytes(b []byte) error {
	n, err := a.w.Write(b)
	if err != nil {
		return err
	}
	a.n += n
	return nil
}
