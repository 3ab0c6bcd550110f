package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/ripemd160"
)

// Sha256 returns SHA-256(data).
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSha256 returns SHA-256(SHA-256(data)).
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Ripemd160 returns RIPEMD-160(data).
func Ripemd160(data []byte) []byte {
	h := ripemd160.New()
	h.Write(data)
	return h.Sum(nil)
}

// Hash160 returns RIPEMD-160(SHA-256(data)), the digest embedded in P2PKH
// and P2SH scripts.
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	return Ripemd160(sum[:])
}

// HmacSha256 returns HMAC-SHA256 keyed with key over data.
func HmacSha256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HmacSha512 returns HMAC-SHA512 keyed with key over data.
func HmacSha512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
