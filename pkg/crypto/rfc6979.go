package crypto

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// NonceRFC6979 returns the first RFC6979 nonce for the given private key and
// message hash, using HMAC-SHA256 as the DRBG.
func NonceRFC6979(privKey []byte, hash []byte) *secp256k1.ModNScalar {
	return nonceRFC6979(privKey, hash, 0)
}

// nonceRFC6979 returns the nonce after skipping extraIterations valid
// candidates. Signing asks for the next candidate when a nonce yields r == 0
// or s == 0.
func nonceRFC6979(privKey []byte, hash []byte, extraIterations uint32) *secp256k1.ModNScalar {
	// int2octets(x) || bits2octets(h1), both left padded to 32 bytes.
	var key [64]byte
	if len(privKey) > 32 {
		privKey = privKey[:32]
	}
	copy(key[32-len(privKey):32], privKey)

	var h1 secp256k1.ModNScalar
	if len(hash) > 32 {
		hash = hash[:32]
	}
	h1.SetByteSlice(hash)
	h1Bytes := h1.Bytes()
	copy(key[32:], h1Bytes[:])

	// Step B and C.
	v := make([]byte, sha256.Size)
	for i := range v {
		v[i] = 0x01
	}
	k := make([]byte, sha256.Size)

	// Step D through G: two seeding rounds.
	for _, sep := range []byte{0x00, 0x01} {
		mac := hmac.New(sha256.New, k)
		mac.Write(v)
		mac.Write([]byte{sep})
		mac.Write(key[:])
		k = mac.Sum(nil)

		v = HmacSha256(k, v)
	}

	// Step H.
	var generated uint32
	for {
		v = HmacSha256(k, v)

		var nonce secp256k1.ModNScalar
		overflow := nonce.SetByteSlice(v)
		if !overflow && !nonce.IsZero() {
			if generated == extraIterations {
				return &nonce
			}
			generated++
		}

		k = HmacSha256(k, append(append([]byte{}, v...), 0x00))
		v = HmacSha256(k, v)
	}
}
