package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// keyOne is the private key with scalar value 1.
var keyOne = append(make([]byte, 31), 0x01)

func drawPrivateKey(t *rapid.T) *PrivateKey {
	b := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "privkey")
	key, err := PrivateKeyFromBytes(b)
	if err != nil {
		t.Skip("scalar out of range")
	}
	return key
}

func drawHash(t *rapid.T) []byte {
	msg := rapid.SliceOf(rapid.Byte()).Draw(t, "message")
	h := DoubleSha256(msg)
	return h[:]
}

func TestPrivateKeyFromBytes(t *testing.T) {
	key, err := PrivateKeyFromBytes(keyOne)
	require.NoError(t, err)
	require.Equal(t, generatorCompressed, hex.EncodeToString(key.PublicKey().Bytes()))
	require.Equal(t, keyOne, key.Bytes())

	_, err = PrivateKeyFromBytes(make([]byte, 32))
	require.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = PrivateKeyFromBytes(bytes.Repeat([]byte{0xff}, 32))
	require.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = PrivateKeyFromBytes(keyOne[1:])
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestParsePublicKeyFormats(t *testing.T) {
	key, err := PrivateKeyFromBytes(keyOne)
	require.NoError(t, err)
	pub := key.PublicKey()

	compressed, err := ParsePublicKey(pub.SerializeCompressed())
	require.NoError(t, err)
	assert.True(t, compressed.Compressed())
	assert.Equal(t, pub.SerializeCompressed(), compressed.Bytes())

	uncompressed, err := ParsePublicKey(pub.SerializeUncompressed())
	require.NoError(t, err)
	assert.False(t, uncompressed.Compressed())
	assert.Len(t, uncompressed.Bytes(), PubKeyBytesLenUncompressed)
	assert.True(t, compressed.IsEqual(uncompressed))

	_, err = ParsePublicKey(pub.SerializeCompressed()[:32])
	require.ErrorIs(t, err, ErrInvalidPublicKey)

	bad := pub.SerializeCompressed()
	bad[0] = 0x05
	_, err = ParsePublicKey(bad)
	require.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestNonceMatchesReference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := drawPrivateKey(t)
		hash := drawHash(t)

		got := NonceRFC6979(key.Bytes(), hash)
		want := secp256k1.NonceRFC6979(key.Bytes(), hash, nil, nil, 0)
		require.True(t, got.Equals(want))
	})
}

func TestSignMatchesReference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := drawPrivateKey(t)
		hash := drawHash(t)

		sig := key.Sign(hash)
		want := ecdsa.Sign(key.key, hash)
		require.Equal(t, want.Serialize(), sig.Serialize())
	})
}

func TestSignDeterministicLowS(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := drawPrivateKey(t)
		hash := drawHash(t)

		first := key.Sign(hash).Serialize()
		second := key.Sign(hash).Serialize()
		require.Equal(t, first, second)

		parsed, err := ParseDERSignature(first)
		require.NoError(t, err)
		require.True(t, parsed.IsLowS())
		require.True(t, VerifySignature(key.PublicKey(), hash, first))

		other := append([]byte(nil), hash...)
		other[0] ^= 0x01
		require.False(t, VerifySignature(key.PublicKey(), other, first))
	})
}

func TestCompactSignature(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := drawPrivateKey(t)
		hash := drawHash(t)
		compressed := rapid.Bool().Draw(t, "compressed")

		sig, err := key.SignCompact(hash, compressed)
		require.NoError(t, err)
		require.Equal(t, ecdsa.SignCompact(key.key, hash, compressed), sig)

		pub, err := RecoverCompact(sig, hash)
		require.NoError(t, err)
		require.True(t, pub.IsEqual(key.PublicKey()))
		require.Equal(t, compressed, pub.Compressed())
	})
}

func TestRecoverCompactErrors(t *testing.T) {
	_, err := RecoverCompact(make([]byte, 64), make([]byte, 32))
	require.ErrorIs(t, err, ErrInvalidSignature)

	sig := make([]byte, 65)
	sig[0] = 27
	_, err = RecoverCompact(sig, make([]byte, 32))
	require.ErrorIs(t, err, ErrRecoveryFailed)
}

func TestWIF(t *testing.T) {
	key, err := PrivateKeyFromBytes(keyOne)
	require.NoError(t, err)

	tests := []struct {
		compressed bool
		want       string
	}{
		{true, "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"},
		{false, "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf"},
	}
	for _, test := range tests {
		wif := EncodeWIF(key, test.compressed, &chaincfg.MainNetParams)
		require.Equal(t, test.want, wif)

		decoded, compressed, err := DecodeWIF(wif, &chaincfg.MainNetParams)
		require.NoError(t, err)
		require.Equal(t, test.compressed, compressed)
		require.Equal(t, keyOne, decoded.Bytes())

		_, _, err = DecodeWIF(wif, &chaincfg.TestNet3Params)
		require.ErrorIs(t, err, ErrWrongNetwork)
	}
}

func TestErrorCodeStringer(t *testing.T) {
	for c := ErrorCode(0); c < numErrorCodes; c++ {
		require.NotContains(t, c.String(), "Unknown", "code %d", int(c))
	}
	require.Contains(t, numErrorCodes.String(), "Unknown")
}
