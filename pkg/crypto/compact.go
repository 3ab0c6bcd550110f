package crypto

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// compactSigSize is the size of a recoverable signature:
	// header byte || r || s.
	compactSigSize = 65

	// compactSigMagicOffset is added to the recovery id in the header.
	compactSigMagicOffset = 27

	// compactSigCompPubKey flags a compressed signing key in the header.
	compactSigCompPubKey = 4
)

// SignCompact produces a 65-byte recoverable signature of hash. The header
// byte is 27 + recovery id, plus 4 when the signer's key is compressed.
//
// Each of the four recovery ids is tried in turn and the first one that
// reconstructs this key is kept.
func (pk *PrivateKey) SignCompact(hash []byte, compressed bool) ([]byte, error) {
	sig := pk.Sign(hash)
	pub := pk.PublicKey()

	r := sig.r.Bytes()
	s := sig.s.Bytes()
	for recID := byte(0); recID < 4; recID++ {
		compact := make([]byte, compactSigSize)
		compact[0] = compactSigMagicOffset + recID
		if compressed {
			compact[0] += compactSigCompPubKey
		}
		copy(compact[1:33], r[:])
		copy(compact[33:], s[:])

		recovered, _, err := ecdsa.RecoverCompact(compact, hash)
		if err == nil && recovered.IsEqual(pub.key) {
			return compact, nil
		}
	}

	return nil, makeError(ErrRecoveryFailed, "SignCompact",
		"no recovery id reproduces the signing key")
}

// RecoverCompact returns the public key that produced the compact signature
// sig over hash. The returned key carries the compression flag encoded in the
// signature header.
func RecoverCompact(sig, hash []byte) (*PublicKey, error) {
	if len(sig) != compactSigSize {
		return nil, makeError(ErrInvalidSignature, "RecoverCompact",
			"compact signature must be 65 bytes")
	}

	pubKey, compressed, err := ecdsa.RecoverCompact(sig, hash)
	if err != nil {
		return nil, &Error{
			Code:        ErrRecoveryFailed,
			Func:        "RecoverCompact",
			Description: "public key recovery failed",
			Cause:       err,
		}
	}
	return &PublicKey{key: pubKey, compressed: compressed}, nil
}
