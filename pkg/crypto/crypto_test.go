package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeccak(t *testing.T, d, h string) {
	data, err := hex.DecodeString(d)
	if assert.NoError(t, err) {
		actual := Keccak256(data)
		expected, err := hex.DecodeString(h)
		if assert.NoError(t, err) {
			assert.Equal(t, expected, actual[:])
		}
	}
}

func TestKeccak1(t *testing.T) {
	const (
		dataString = "0100000000000000000000000000000000000000000000000000000000000000"
		hashString = "48078cfed56339ea54962e72c37c7f588fc4f8e5bc173827ba75cb10a63a96a5"
	)
	testKeccak(t, dataString, hashString)
}

func TestKeccak2(t *testing.T) {
	const (
		dataString = "0000000000"
		hashString = "c41589e7559804ea4a2080dad19d876a024ccb05117835447d72ce08c1d020ec"
	)
	testKeccak(t, dataString, hashString)
}

func TestKeccak3(t *testing.T) {
	const (
		dataString = "64617461"
		hashString = "8f54f1c2d0eb5771cd5bf67a6689fcd6eed9444d91a39e5ef32a9b4ae5ca14ff"
	)
	testKeccak(t, dataString, hashString)
}

func testFastHash(t *testing.T, d, h string) {
	data, err := hex.DecodeString(d)
	if assert.NoError(t, err) {
		expected, err := hex.DecodeString(h)
		if assert.NoError(t, err) {
			actual, err := FastHash(data)
			if assert.NoError(t, err) {
				assert.Equal(t, expected, actual[:])
			}
		}
	}
}

func TestFastHash1(t *testing.T) {
	const (
		dataString = "0100000000000000000000000000000000000000000000000000000000000000"
		hashString = "afbc1c053c2f278e3cbd4409c1c094f184aa459dd2f7fca96d6077730ab9ffe3"
	)
	testFastHash(t, dataString, hashString)
}

func TestFastHash2(t *testing.T) {
	const (
		dataString = "0000000000"
		hashString = "569ed9e4a5463896190447e6ffe37c394c4d77ce470aa29ad762e0286b896832"
	)
	testFastHash(t, dataString, hashString)
}

func TestFastHash3(t *testing.T) {
	const (
		dataString = "64617461"
		hashString = "a035872d6af8639ede962dfe7536b0c150b590f3234a922fb7064cd11971b58e"
	)
	testFastHash(t, dataString, hashString)
}

func testSecureHash(t *testing.T, d, h string) {
	data, err := hex.DecodeString(d)
	if assert.NoError(t, err) {
		expected, err := hex.DecodeString(h)
		if assert.NoError(t, err) {
			actual, err := SecureHash(data)
			if assert.NoError(t, err) {
				assert.Equal(t, expected, actual[:])
			}
		}
	}
}
func TestSecureHash1(t *testing.T) {
	const (
		dataString = "0100000000000000000000000000000000000000000000000000000000000000"
		hashString = "44282d24d307fb66f385e9a814d07b693d17653c5b88d2e9d4e2a3ccc8216e10"
	)
	testSecureHash(t, dataString, hashString)
}

func TestSecureHash2(t *testing.T) {
	const (
		dataString = "0000000000"
		hashString = "c67437bdaf6ed0ce5d3c39eb6dd591d8005fd0c1fb96cb134a6291ab8e1a39ac"
	)
	testSecureHash(t, dataString, hashString)
}

func TestSecureHash3(t *testing.T) {
	const (
		dataString = "64617461"
		hashString = "7a21055775d130cdeb24258834f40cef7d9b0666f9b0f773cdd28ee556551bb0"
	)
	testSecureHash(t, dataString, hashString)
}

func TestPublicKeyFromSecretKey(t *testing.T) {
	const (
		secretKeyHex = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
		publicKeyHex = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
		signatureHex = "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"
	)
	skb, err := hex.DecodeString(secretKeyHex)
	require.NoError(t, err)
	var sk SecretKey
	copy(sk[:], skb)
	pk := GeneratePublicKey(sk)
	assert.Equal(t, publicKeyHex, hex.EncodeToString(pk[:]))
	sig := Sign(sk, nil)
	assert.Equal(t, signatureHex, hex.EncodeToString(sig[:]))
	assert.True(t, Verify(pk, sig, nil))
}

func TestGenerateKeyPairDeterministic(t *testing.T) {
	seed := []byte("kitchen apple manager tenant seed")
	sk1, pk1 := GenerateKeyPair(seed)
	sk2, pk2 := GenerateKeyPair(seed)
	assert.Equal(t, sk1, sk2)
	assert.Equal(t, pk1, pk2)
	_, pk3 := GenerateKeyPair([]byte("another seed"))
	assert.NotEqual(t, pk1, pk3)
}

func TestSignVerify(t *testing.T) {
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	sk, pk := GenerateKeyPair(seed)
	msg := []byte("lease agreement body")
	sig := Sign(sk, msg)
	assert.True(t, Verify(pk, sig, msg))
	assert.False(t, Verify(pk, sig, []byte("lease agreement bodY")))
	_, other := GenerateKeyPair([]byte("other"))
	assert.False(t, Verify(other, sig, msg))
	sig[0] ^= 0xff
	assert.False(t, Verify(pk, sig, msg))
}

func TestIsOnCurve(t *testing.T) {
	for i := 0; i < 16; i++ {
		_, pk := GenerateKeyPair([]byte{byte(i)})
		assert.True(t, IsOnCurve(pk), "public key %s must be on curve", pk)
	}
	var offCurve int
	for i := 0; i < 64; i++ {
		d := MustFastHash([]byte{byte(i)})
		if !IsOnCurve(d) {
			offCurve++
		}
	}
	assert.Greater(t, offCurve, 0)
}

func TestDigestJSONRoundTrip(t *testing.T) {
	d := MustFastHash([]byte("data"))
	js, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "\""+base58.Encode(d[:])+"\"", string(js))
	var d2 Digest
	require.NoError(t, json.Unmarshal(js, &d2))
	assert.Equal(t, d, d2)
	assert.Error(t, json.Unmarshal([]byte(`"3yZe7d"`), &d2))
	assert.Error(t, json.Unmarshal([]byte(`"0OIl"`), &d2))
}

func TestPublicKeyFromBase58(t *testing.T) {
	_, pk := GenerateKeyPair([]byte("seed"))
	pk2, err := NewPublicKeyFromBase58(pk.String())
	require.NoError(t, err)
	assert.Equal(t, pk, pk2)
	_, err = NewPublicKeyFromBase58("2")
	assert.EqualError(t, err, "incorrect public key length 1, expected 32")
}

func benchmarkBase58Encode(b *testing.B, size int) {
	bytes := make([]byte, size)
	rand.Read(bytes)
	for n := 0; n < b.N; n++ {
		base58.Encode(bytes)
	}
}

func benchmarkBase58Decode(b *testing.B, size int) {
	bytes := make([]byte, size)
	rand.Read(bytes)
	s := base58.Encode(bytes)
	for n := 0; n < b.N; n++ {
		base58.Decode(s)
	}
}

func BenchmarkBase58Encode64(b *testing.B)   { benchmarkBase58Encode(b, 64) }
func BenchmarkBase58Encode128(b *testing.B)  { benchmarkBase58Encode(b, 128) }
func BenchmarkBase58Encode256(b *testing.B)  { benchmarkBase58Encode(b, 256) }
func BenchmarkBase58Encode512(b *testing.B)  { benchmarkBase58Encode(b, 512) }
func BenchmarkBase58Encode1024(b *testing.B) { benchmarkBase58Encode(b, 1024) }
func BenchmarkBase58Encode2048(b *testing.B) { benchmarkBase58Encode(b, 2048) }

func BenchmarkBase58Decode64(b *testing.B)   { benchmarkBase58Decode(b, 64) }
func BenchmarkBase58Decode128(b *testing.B)  { benchmarkBase58Decode(b, 128) }
func BenchmarkBase58Decode256(b *testing.B)  { benchmarkBase58Decode(b, 256) }
func BenchmarkBase58Decode512(b *testing.B)  { benchmarkBase58Decode(b, 512) }
func BenchmarkBase58Decode1024(b *testing.B) { benchmarkBase58Decode(b, 1024) }
func BenchmarkBase58Decode2048(b *testing.B) { benchmarkBase58Decode(b, 2048) }

func benchmarkSign(b *testing.B, size int) {
	data := make([]byte, size)
	rand.Read(data)
	seed := make([]byte, 32)
	rand.Read(seed)
	sk := GenerateSecretKey(seed)
	for n := 0; n < b.N; n++ {
		Sign(sk, data)
	}
}

func BenchmarkSign64(b *testing.B)   { benchmarkSign(b, 64) }
func BenchmarkSign128(b *testing.B)  { benchmarkSign(b, 128) }
func BenchmarkSign256(b *testing.B)  { benchmarkSign(b, 256) }
func BenchmarkSign512(b *testing.B)  { benchmarkSign(b, 512) }
func BenchmarkSign1024(b *testing.B) { benchmarkSign(b, 1024) }
func BenchmarkSign2048(b *testing.B) { benchmarkSign(b, 2048) }

func benchmarkVerify(b *testing.B, size int) {
	data := make([]byte, size)
	rand.Read(data)
	seed := make([]byte, 32)
	rand.Read(seed)
	sk, pk := GenerateKeyPair(seed)
	s := Sign(sk, data)
	for n := 0; n < b.N; n++ {
		Verify(pk, s, data)
	}
}

func BenchmarkVerify64(b *testing.B)   { benchmarkVerify(b, 64) }
func BenchmarkVerify128(b *testing.B)  { benchmarkVerify(b, 128) }
func BenchmarkVerify256(b *testing.B)  { benchmarkVerify(b, 256) }
func BenchmarkVerify512(b *testing.B)  { benchmarkVerify(b, 512) }
func BenchmarkVerify1024(b *testing.B) { benchmarkVerify(b, 1024) }
func BenchmarkVerify2048(b *testing.B) { benchmarkVerify(b, 2048) }

func benchmarkFastHash(b *testing.B, size int) {
	data := make([]byte, size)
	rand.Read(data)
	for n := 0; n < b.N; n++ {
		FastHash(data)
	}
}

func BenchmarkFastHash64(b *testing.B)   { benchmarkFastHash(b, 64) }
func BenchmarkFastHash128(b *testing.B)  { benchmarkFastHash(b, 128) }
func BenchmarkFastHash256(b *testing.B)  { benchmarkFastHash(b, 256) }
func BenchmarkFastHash512(b *testing.B)  { benchmarkFastHash(b, 512) }
func BenchmarkFastHash1024(b *testing.B) { benchmarkFastHash(b, 1024) }
func BenchmarkFastHash2048(b *testing.B) { benchmarkFastHash(b, 2048) }

func benchmarkSecureHash(b *testing.B, size int) {
	data := make([]byte, size)
	rand.Read(data)
	for n := 0; n < b.N; n++ {
		SecureHash(data)
	}
}

func BenchmarkSecureHash64(b *testing.B)   { benchmarkSecureHash(b, 64) }
func BenchmarkSecureHash128(b *testing.B)  { benchmarkSecureHash(b, 128) }
func BenchmarkSecureHash256(b *testing.B)  { benchmarkSecureHash(b, 256) }
func BenchmarkSecureHash512(b *testing.B)  { benchmarkSecureHash(b, 512) }
func BenchmarkSecureHash1024(b *testing.B) { benchmarkSecureHash(b, 1024) }
func BenchmarkSecureHash2048(b *testing.B) { benchmarkSecureHash(b, 2048) }
