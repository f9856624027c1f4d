package proto

import (
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/rentflow/rentflow/pkg/crypto"
)

// Headers of authenticated API requests.
const (
	SignerHeader    = "X-Lease-Signer"
	TimestampHeader = "X-Lease-Timestamp"
	SignatureHeader = "X-Lease-Signature"
)

// RequestDigest returns the digest an identity signs to authenticate an API request.
// Path is unescaped, timestamp is in milliseconds.
func RequestDigest(method, path string, timestamp int64, body []byte) (crypto.Digest, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.B = append(buf.B, method...)
	buf.B = append(buf.B, '\n')
	buf.B = append(buf.B, path...)
	buf.B = append(buf.B, '\n')
	buf.B = strconv.AppendInt(buf.B, timestamp, 10)
	buf.B = append(buf.B, '\n')
	buf.B = append(buf.B, body...)
	return crypto.FastHash(buf.B)
}

// SignRequest returns the signature of the request by the secret key.
func SignRequest(sk crypto.SecretKey, method, path string, timestamp int64, body []byte) (crypto.Signature, error) {
	d, err := RequestDigest(method, path, timestamp, body)
	if err != nil {
		return crypto.Signature{}, err
	}
	return crypto.Sign(sk, d.Bytes()), nil
}

// VerifyRequest checks the request signature of the public key.
func VerifyRequest(pk crypto.PublicKey, sig crypto.Signature, method, path string, timestamp int64, body []byte) (bool, error) {
	d, err := RequestDigest(method, path, timestamp, body)
	if err != nil {
		return false, err
	}
	return crypto.Verify(pk, sig, d.Bytes()), nil
}
