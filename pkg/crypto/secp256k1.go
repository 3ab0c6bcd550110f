// Package crypto implements the hash and elliptic-curve primitives the rest of
// the module signs, verifies and encodes with.
//
// Key formats:
//   - Private keys: raw 32 bytes or WIF (Wallet Import Format)
//   - Public keys: compressed 33 bytes (0x02/0x03 prefix + x) or
//     uncompressed 65 bytes (0x04 prefix + x + y)
//   - Signatures: DER for scripts, 65-byte recoverable compact form for
//     message signing
//
// Signing is deterministic (RFC6979) and always produces low-S signatures.
package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// PrivKeyBytesLen is the length of a serialized private key.
	PrivKeyBytesLen = 32

	// PubKeyBytesLenCompressed is the length of a compressed public key.
	PubKeyBytesLenCompressed = 33

	// PubKeyBytesLenUncompressed is the length of an uncompressed public key.
	PubKeyBytesLenUncompressed = 65
)

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps a secp256k1 public key and remembers whether it was
// supplied in compressed form, so that Bytes hashes to the same address the
// key was parsed from.
type PublicKey struct {
	key        *secp256k1.PublicKey
	compressed bool
}

// GeneratePrivateKey returns a new random private key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a private key from raw bytes.
//
// Returns an error if the slice is not 32 bytes or the value is zero or not
// below the group order.
func PrivateKeyFromBytes(keyBytes []byte) (*PrivateKey, error) {
	if len(keyBytes) != PrivKeyBytesLen {
		return nil, makeError(ErrInvalidPrivateKey, "PrivateKeyFromBytes",
			fmt.Sprintf("private key must be 32 bytes, got %d", len(keyBytes)))
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
		return nil, makeError(ErrInvalidPrivateKey, "PrivateKeyFromBytes",
			"private key out of range")
	}

	return &PrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

// PublicKey derives the compressed public key.
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: pk.key.PubKey(), compressed: true}
}

// Bytes returns the raw 32-byte private key
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// Sign creates a deterministic low-S ECDSA signature over hash.
func (pk *PrivateKey) Sign(hash []byte) *Signature {
	return signRFC6979(&pk.key.Key, hash)
}

// ParsePublicKey parses a 33-byte compressed or 65-byte uncompressed public
// key.
func ParsePublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	switch len(pubKeyBytes) {
	case PubKeyBytesLenCompressed, PubKeyBytesLenUncompressed:
	default:
		return nil, makeError(ErrInvalidPublicKey, "ParsePublicKey",
			fmt.Sprintf("public key must be 33 or 65 bytes, got %d", len(pubKeyBytes)))
	}

	pubKey, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, &Error{
			Code:        ErrInvalidPublicKey,
			Func:        "ParsePublicKey",
			Description: "failed to parse public key",
			Cause:       err,
		}
	}

	return &PublicKey{
		key:        pubKey,
		compressed: len(pubKeyBytes) == PubKeyBytesLenCompressed,
	}, nil
}

// SerializeCompressed returns the 33-byte compressed public key.
func (pub *PublicKey) SerializeCompressed() []byte {
	return pub.key.SerializeCompressed()
}

// SerializeUncompressed returns the 65-byte uncompressed public key.
func (pub *PublicKey) SerializeUncompressed() []byte {
	return pub.key.SerializeUncompressed()
}

// Compressed reports whether Bytes returns the compressed encoding.
func (pub *PublicKey) Compressed() bool {
	return pub.compressed
}

// Bytes returns the public key in the encoding it was created with.
func (pub *PublicKey) Bytes() []byte {
	if pub.compressed {
		return pub.SerializeCompressed()
	}
	return pub.SerializeUncompressed()
}

// IsEqual reports whether both keys are the same curve point, regardless of
// encoding.
func (pub *PublicKey) IsEqual(other *PublicKey) bool {
	if pub == nil || other == nil {
		return pub == other
	}
	return pub.key.IsEqual(other.key)
}

// Verify reports whether sig is a valid signature of hash by pub.
func (pub *PublicKey) Verify(hash []byte, sig *Signature) bool {
	return sig.Verify(hash, pub)
}

// VerifySignature verifies a DER-encoded ECDSA signature.
func VerifySignature(pubkey *PublicKey, hash []byte, signature []byte) bool {
	sig, err := ParseDERSignature(signature)
	if err != nil {
		return false
	}

	return sig.Verify(hash, pubkey)
}
