package builder

import (
	"encoding/binary"
	"fmt"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType uint32

// Hash type bits from the end of a signature.
const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines the number of bits of the hash type which is used
	// to identify which outputs are signed.
	sigHashMask = 0x1f
)

// String returns the hash type in the form used by script disassemblers.
func (t SigHashType) String() string {
	var s string
	switch t & sigHashMask {
	case SigHashAll:
		s = "ALL"
	case SigHashNone:
		s = "NONE"
	case SigHashSingle:
		s = "SINGLE"
	default:
		return fmt.Sprintf("SigHashType(%#x)", uint32(t))
	}
	if t&SigHashAnyOneCanPay != 0 {
		s += "|ANYONECANPAY"
	}
	return s
}

// checkHashType rejects undefined hash types. The type must fit the single
// byte appended to a signature.
func checkHashType(t SigHashType) error {
	if t&^(sigHashMask|SigHashAnyOneCanPay) != 0 {
		return makeError(ErrUnsupportedSigHash, "checkHashType",
			fmt.Sprintf("hash type %#x has undefined bits", uint32(t)))
	}
	switch t & sigHashMask {
	case SigHashAll, SigHashNone, SigHashSingle:
		return nil
	}
	return makeError(ErrUnsupportedSigHash, "checkHashType",
		fmt.Sprintf("hash type %#x has no base type", uint32(t)))
}

// singleMismatchHash is what SIGHASH_SINGLE commits to when the signed input
// has no output at the same index: the little-endian number one.
var singleMismatchHash = chainhash.Hash{0x01}

// signingTx returns the copy of tx that input idx signs. Every signature
// script is blanked, the signed input carries subscript, and outputs and
// other inputs are pruned according to hashType. The second result is false
// for SIGHASH_SINGLE without a matching output.
func signingTx(tx *wire.Transaction, idx int, subscript []byte,
	hashType SigHashType) (*wire.Transaction, bool) {

	base := hashType & sigHashMask
	if base == SigHashSingle && idx >= tx.NumTxOut() {
		return nil, false
	}

	sigTx := wire.NewTransaction(tx.Version())
	sigTx.SetLockTime(tx.LockTime())

	for i := 0; i < tx.NumTxIn(); i++ {
		in := tx.TxIn(i)
		if hashType&SigHashAnyOneCanPay != 0 && i != idx {
			continue
		}
		if i == idx {
			in.SignatureScript = subscript
		} else {
			in.SignatureScript = nil
			// Other inputs may be replaced freely when their
			// outputs are not signed.
			if base == SigHashNone || base == SigHashSingle {
				in.Sequence = 0
			}
		}
		sigTx.AddTxIn(&in)
	}

	switch base {
	case SigHashNone:
		// No outputs.

	case SigHashSingle:
		for i := 0; i <= idx; i++ {
			out := tx.TxOut(i)
			if i < idx {
				out = wire.TxOut{Value: ^uint64(0)}
			}
			sigTx.AddTxOut(&out)
		}

	default:
		for i := 0; i < tx.NumTxOut(); i++ {
			out := tx.TxOut(i)
			sigTx.AddTxOut(&out)
		}
	}

	return sigTx, true
}

// calcSignatureHash returns the legacy signature hash of input idx:
// double SHA-256 of the signing transaction followed by the hash type as a
// little-endian uint32.
func calcSignatureHash(tx *wire.Transaction, idx int, subscript []byte,
	hashType SigHashType) chainhash.Hash {

	sigTx, ok := signingTx(tx, idx, subscript, hashType)
	if !ok {
		return singleMismatchHash
	}

	buf := sigTx.Bytes()
	buf = binary.LittleEndian.AppendUint32(buf, uint32(hashType))
	return chainhash.DoubleHashH(buf)
}
