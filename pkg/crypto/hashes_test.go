package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// generatorCompressed is the compressed encoding of the secp256k1 generator,
// which is also the public key of private key 1.
const generatorCompressed = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestHashFunctions(t *testing.T) {
	assert.Equal(t, "9c1185a5c5e9fc54612808977ee8f548b2258d31",
		hex.EncodeToString(Ripemd160(nil)))

	assert.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6",
		hex.EncodeToString(Hash160(mustHex(t, generatorCompressed))))

	sum := Sha256([]byte("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		hex.EncodeToString(sum[:]))

	double := DoubleSha256([]byte("hello"))
	assert.Equal(t, "9595c9df90075148eb06860365df33584b75bff782a510c6cd4883a419833d50",
		hex.EncodeToString(double[:]))
}

func TestHmac(t *testing.T) {
	// RFC 4231 test case 2.
	key := []byte("Jefe")
	data := []byte("what do ya want for nothing?")

	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		hex.EncodeToString(HmacSha256(key, data)))
	assert.Equal(t,
		"164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea2505549758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737",
		hex.EncodeToString(HmacSha512(key, data)))
}

func TestCheckEncodeKnownAddress(t *testing.T) {
	hash := Hash160(mustHex(t, generatorCompressed))
	addr := CheckEncode(hash, 0x00)
	require.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", addr)

	payload, version, err := CheckDecode(addr, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, version)
	require.Equal(t, hash, payload)
}

func TestCheckDecodeErrors(t *testing.T) {
	good := CheckEncode([]byte{1, 2, 3}, 0x05)

	// Flip the last character to break the checksum.
	last := good[len(good)-1]
	replacement := byte('2')
	if last == '2' {
		replacement = '3'
	}
	bad := good[:len(good)-1] + string(replacement)
	_, _, err := CheckDecode(bad, 1)
	require.ErrorIs(t, err, ErrChecksum)

	_, _, err = CheckDecode("0OIl", 1)
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, _, err = CheckDecode("1", 1)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCheckEncodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		zeros := rapid.IntRange(0, 4).Draw(t, "zeros")
		rest := rapid.SliceOfN(rapid.Byte(), 0, 40).Draw(t, "payload")
		payload := append(make([]byte, zeros), rest...)
		version := rapid.SliceOfN(rapid.Byte(), 0, 4).Draw(t, "version")

		encoded := CheckEncode(payload, version...)
		gotPayload, gotVersion, err := CheckDecode(encoded, len(version))
		require.NoError(t, err)
		require.Equal(t, len(payload), len(gotPayload))
		if len(payload) > 0 {
			require.Equal(t, payload, gotPayload)
		}
		if len(version) > 0 {
			require.Equal(t, version, gotVersion)
		}
	})
}
