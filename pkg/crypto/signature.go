package crypto

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signature is an ECDSA signature over secp256k1.
type Signature struct {
	r secp256k1.ModNScalar
	s secp256k1.ModNScalar
}

// R returns the r component.
func (sig *Signature) R() secp256k1.ModNScalar {
	return sig.r
}

// S returns the s component.
func (sig *Signature) S() secp256k1.ModNScalar {
	return sig.s
}

// IsLowS reports whether s is in the lower half of the group order.
func (sig *Signature) IsLowS() bool {
	return !sig.s.IsOverHalfOrder()
}

// Serialize returns the DER encoding of the signature.
func (sig *Signature) Serialize() []byte {
	return ecdsa.NewSignature(&sig.r, &sig.s).Serialize()
}

// Verify reports whether the signature is valid for hash under pubKey.
func (sig *Signature) Verify(hash []byte, pubKey *PublicKey) bool {
	return ecdsa.NewSignature(&sig.r, &sig.s).Verify(hash, pubKey.key)
}

// ParseDERSignature parses a strictly DER-encoded signature. High-S values are
// accepted; callers that require canonical form check IsLowS.
func ParseDERSignature(der []byte) (*Signature, error) {
	parsed, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return nil, &Error{
			Code:        ErrInvalidSignature,
			Func:        "ParseDERSignature",
			Description: "malformed DER signature",
			Cause:       err,
		}
	}
	return &Signature{r: parsed.R(), s: parsed.S()}, nil
}

// signRFC6979 signs hash with the private scalar d:
//
//	k = RFC6979(d, hash), r = (kG).x mod N, s = k^-1 (e + r*d) mod N
//
// A zero r or s moves on to the next nonce candidate. s is canonicalized to
// the lower half of the group order.
func signRFC6979(d *secp256k1.ModNScalar, hash []byte) *Signature {
	privBytes := d.Bytes()

	var e secp256k1.ModNScalar
	if len(hash) > 32 {
		hash = hash[:32]
	}
	e.SetByteSlice(hash)

	for iteration := uint32(0); ; iteration++ {
		k := nonceRFC6979(privBytes[:], hash, iteration)

		var kG secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(k, &kG)
		kG.ToAffine()

		var r secp256k1.ModNScalar
		r.SetBytes(kG.X.Bytes())
		if r.IsZero() {
			continue
		}

		var kInv, s secp256k1.ModNScalar
		kInv.InverseValNonConst(k)
		s.Mul2(d, &r).Add(&e).Mul(&kInv)
		if s.IsZero() {
			continue
		}

		if s.IsOverHalfOrder() {
			s.Negate()
		}
		return &Signature{r: r, s: s}
	}
}
