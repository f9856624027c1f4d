package ledger

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/rentflow/rentflow/pkg/proto"
)

const (
	accountKeyPrefix byte = iota
	eventKeyPrefix
	eventCounterKeyPrefix
)

type accountKey struct {
	address proto.Address
}

func (k accountKey) bytes() []byte {
	buf := make([]byte, 1+proto.AddressSize)
	buf[0] = accountKeyPrefix
	copy(buf[1:], k.address[:])
	return buf
}

func (k *accountKey) fromBytes(data []byte) error {
	if l := len(data); l < 1+proto.AddressSize {
		return errors.Errorf("%d bytes is not enough for accountKey", l)
	}
	if data[0] != accountKeyPrefix {
		return errors.Errorf("invalid accountKey prefix %d", data[0])
	}
	copy(k.address[:], data[1:1+proto.AddressSize])
	return nil
}

type eventKey struct {
	address proto.Address
	seq     uint64
}

func (k eventKey) bytes() []byte {
	buf := make([]byte, 1+proto.AddressSize+8)
	buf[0] = eventKeyPrefix
	copy(buf[1:], k.address[:])
	binary.BigEndian.PutUint64(buf[1+proto.AddressSize:], k.seq)
	return buf
}

func (k *eventKey) fromBytes(data []byte) error {
	if l := len(data); l < 1+proto.AddressSize+8 {
		return errors.Errorf("%d bytes is not enough for eventKey", l)
	}
	data = data[1:]
	copy(k.address[:], data[:proto.AddressSize])
	k.seq = binary.BigEndian.Uint64(data[proto.AddressSize:])
	return nil
}

func eventsPrefix(addr proto.Address) []byte {
	buf := make([]byte, 1+proto.AddressSize)
	buf[0] = eventKeyPrefix
	copy(buf[1:], addr[:])
	return buf
}

type eventCounterKey struct {
	address proto.Address
}

func (k eventCounterKey) bytes() []byte {
	buf := make([]byte, 1+proto.AddressSize)
	buf[0] = eventCounterKeyPrefix
	copy(buf[1:], k.address[:])
	return buf
}
