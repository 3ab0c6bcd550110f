package script

import (
	"bytes"
	"fmt"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/crypto"
)

const (
	// MaxPubKeysPerMultiSig is the maximum number of public keys allowed
	// in a multisig redeem script.
	MaxPubKeysPerMultiSig = 16

	// MaxPubKeyLen is the longest key a redeem script can hold with a
	// single-byte push.
	MaxPubKeyLen = OP_DATA_75
)

// MultiSigRedeemScript is an M-of-N redeem script:
// OP_m <pubkey>... OP_n OP_CHECKMULTISIG.
type MultiSigRedeemScript struct {
	minSigs int
	pubKeys [][]byte
}

func malformedRedeem(format string, args ...interface{}) error {
	return scriptError(ErrMalformedRedeemScript, fmt.Sprintf(format, args...))
}

func checkMultiSigParams(minSigs int, pubKeys [][]byte) error {
	if len(pubKeys) == 0 || len(pubKeys) > MaxPubKeysPerMultiSig {
		return malformedRedeem("%d public keys, want 1 to %d",
			len(pubKeys), MaxPubKeysPerMultiSig)
	}
	if minSigs < 1 || minSigs > MaxPubKeysPerMultiSig {
		return malformedRedeem("%d required signatures, want 1 to %d",
			minSigs, MaxPubKeysPerMultiSig)
	}
	if minSigs > len(pubKeys) {
		return malformedRedeem("%d required signatures exceeds %d keys",
			minSigs, len(pubKeys))
	}
	for i, key := range pubKeys {
		if len(key) == 0 || len(key) > MaxPubKeyLen {
			return malformedRedeem("public key %d is %d bytes, want 1 "+
				"to %d", i, len(key), MaxPubKeyLen)
		}
	}
	return nil
}

// NewMultiSigRedeemScript returns a redeem script requiring minSigs of the
// given keys, kept in the order given.
func NewMultiSigRedeemScript(minSigs int, pubKeys [][]byte) (*MultiSigRedeemScript, error) {
	if err := checkMultiSigParams(minSigs, pubKeys); err != nil {
		return nil, err
	}

	keys := make([][]byte, len(pubKeys))
	for i, key := range pubKeys {
		keys[i] = append([]byte(nil), key...)
	}
	return &MultiSigRedeemScript{minSigs: minSigs, pubKeys: keys}, nil
}

// ParseMultiSigRedeemScript parses the canonical layout. OP_n must match the
// number of keys and OP_CHECKMULTISIG must end the script.
func ParseMultiSigRedeemScript(script []byte) (*MultiSigRedeemScript, error) {
	t := MakeTokenizer(script)
	if !t.Next() || !IsSmallInt(t.Opcode()) {
		return nil, malformedRedeem("script does not start with OP_m")
	}
	minSigs := AsSmallInt(t.Opcode())

	var pubKeys [][]byte
	for t.Next() {
		op := t.Opcode()
		if op < OP_DATA_1 || op > OP_DATA_75 {
			break
		}
		pubKeys = append(pubKeys, append([]byte(nil), t.Data()...))
	}
	if err := t.Err(); err != nil {
		return nil, malformedRedeem("public key push: %v", err)
	}

	if !IsSmallInt(t.Opcode()) || t.Data() != nil {
		return nil, malformedRedeem("missing OP_n after %d public keys",
			len(pubKeys))
	}
	if n := AsSmallInt(t.Opcode()); n != len(pubKeys) {
		return nil, malformedRedeem("OP_%d does not match %d public keys",
			n, len(pubKeys))
	}

	if !t.Next() || t.Opcode() != OP_CHECKMULTISIG {
		return nil, malformedRedeem("missing OP_CHECKMULTISIG")
	}
	if t.ByteIndex() != len(script) {
		return nil, malformedRedeem("%d bytes after OP_CHECKMULTISIG",
			len(script)-t.ByteIndex())
	}

	if err := checkMultiSigParams(minSigs, pubKeys); err != nil {
		return nil, err
	}
	return &MultiSigRedeemScript{minSigs: minSigs, pubKeys: pubKeys}, nil
}

// MinSigs returns the number of signatures needed to spend.
func (m *MultiSigRedeemScript) MinSigs() int {
	return m.minSigs
}

// PubKeys returns the keys in script order.
func (m *MultiSigRedeemScript) PubKeys() [][]byte {
	keys := make([][]byte, len(m.pubKeys))
	for i, key := range m.pubKeys {
		keys[i] = append([]byte(nil), key...)
	}
	return keys
}

// KeyIndex returns the position of pubKey in the script, or -1.
func (m *MultiSigRedeemScript) KeyIndex(pubKey []byte) int {
	for i, key := range m.pubKeys {
		if bytes.Equal(key, pubKey) {
			return i
		}
	}
	return -1
}

// Script returns the serialized redeem script.
func (m *MultiSigRedeemScript) Script() []byte {
	b := NewBuilder().AddOp(SmallIntOp(m.minSigs))
	for _, key := range m.pubKeys {
		b.AddData(key)
	}
	script, _ := b.AddOp(SmallIntOp(len(m.pubKeys))).
		AddOp(OP_CHECKMULTISIG).Script()
	return script
}

// Hash160 returns the script hash committed to by the paying output.
func (m *MultiSigRedeemScript) Hash160() []byte {
	return crypto.Hash160(m.Script())
}

// PayToScript returns the pay-to-script-hash output script for m.
func (m *MultiSigRedeemScript) PayToScript() []byte {
	script, _ := PayToScriptHashScript(m.Hash160())
	return script
}

// Address returns the pay-to-script-hash address of m.
func (m *MultiSigRedeemScript) Address(params *chaincfg.Params) string {
	return crypto.CheckEncode(m.Hash160(), params.ScriptHashAddrID)
}

// SignatureScript returns the input script spending m's P2SH output:
// OP_0 <sig>... <redeem script>. Signatures must already be in key order.
func (m *MultiSigRedeemScript) SignatureScript(sigs [][]byte) ([]byte, error) {
	b := NewBuilder().AddOp(OP_0)
	for _, sig := range sigs {
		b.AddData(sig)
	}
	return b.AddData(m.Script()).Script()
}
