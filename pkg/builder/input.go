package builder

import (
	"bytes"
	"fmt"

	"github.com/ciphrex/mSIGNA-sub003/pkg/crypto"
	"github.com/ciphrex/mSIGNA-sub003/pkg/script"
	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
)

// ScriptSigMode selects how an input's signature script is rendered.
type ScriptSigMode int

const (
	// Broadcast renders the final script and fails while signatures are
	// missing.
	Broadcast ScriptSigMode = iota

	// Edit renders the same layout as Broadcast with an OP_0 placeholder
	// in every unfilled signature slot.
	Edit

	// Sign renders the spent output's subscript, the stand-in that legacy
	// signature hashing places in the signed input.
	Sign
)

// String returns the mode name.
func (m ScriptSigMode) String() string {
	switch m {
	case Broadcast:
		return "broadcast"
	case Edit:
		return "edit"
	case Sign:
		return "sign"
	default:
		return fmt.Sprintf("ScriptSigMode(%d)", int(m))
	}
}

// Input is one input of a transaction under construction. It is a closed
// set: *PubKeyHashInput, *MultiSigInput and *ScriptHashInput.
type Input interface {
	// PreviousOutPoint returns the output being spent.
	PreviousOutPoint() wire.OutPoint

	// Sequence returns the input's sequence number.
	Sequence() uint32

	// Value returns the amount of the spent output.
	Value() uint64

	// Subscript returns the script signed in place of the signature
	// script.
	Subscript() []byte

	// PubKeys returns the keys that may sign this input, in script order.
	PubKeys() [][]byte

	// Signature returns the recorded signature for pubKey, or nil.
	Signature(pubKey []byte) []byte

	// SigsNeeded returns how many more signatures the input requires.
	SigsNeeded() int

	// ScriptSig renders the signature script in the given mode.
	ScriptSig(mode ScriptSigMode) ([]byte, error)

	setSignature(pubKey, sig []byte) error
	clearSignatures()
	clone() Input
}

// spend holds the fields every input kind shares.
type spend struct {
	outPoint wire.OutPoint
	sequence uint32
	value    uint64
}

// PreviousOutPoint returns the output being spent.
func (s *spend) PreviousOutPoint() wire.OutPoint { return s.outPoint }

// Sequence returns the input's sequence number.
func (s *spend) Sequence() uint32 { return s.sequence }

// Value returns the amount of the spent output.
func (s *spend) Value() uint64 { return s.value }

// PubKeyHashInput spends a pay-to-pubkey-hash output with one key.
type PubKeyHashInput struct {
	spend
	pubKey []byte
	sig    []byte
}

var _ Input = (*PubKeyHashInput)(nil)

// PubKey returns the key whose hash the spent output commits to.
func (in *PubKeyHashInput) PubKey() []byte {
	return append([]byte(nil), in.pubKey...)
}

// Subscript returns the pay-to-pubkey-hash script of the key.
func (in *PubKeyHashInput) Subscript() []byte {
	s, _ := script.PayToPubKeyHashScript(crypto.Hash160(in.pubKey))
	return s
}

// PubKeys returns the single signing key.
func (in *PubKeyHashInput) PubKeys() [][]byte {
	return [][]byte{in.PubKey()}
}

// Signature returns the recorded signature for pubKey, or nil.
func (in *PubKeyHashInput) Signature(pubKey []byte) []byte {
	if !bytes.Equal(pubKey, in.pubKey) {
		return nil
	}
	return append([]byte(nil), in.sig...)
}

// SigsNeeded returns 1 until the input is signed.
func (in *PubKeyHashInput) SigsNeeded() int {
	if in.sig == nil {
		return 1
	}
	return 0
}

// ScriptSig renders <sig> <pubkey>.
func (in *PubKeyHashInput) ScriptSig(mode ScriptSigMode) ([]byte, error) {
	switch mode {
	case Sign:
		return in.Subscript(), nil

	case Broadcast:
		if in.sig == nil {
			return nil, makeError(ErrInsufficientSignatures,
				"PubKeyHashInput.ScriptSig", "input is unsigned")
		}
	}

	b := script.NewBuilder()
	if in.sig == nil {
		b.AddOp(script.OP_0)
	} else {
		b.AddData(in.sig)
	}
	return b.AddData(in.pubKey).Script()
}

func (in *PubKeyHashInput) setSignature(pubKey, sig []byte) error {
	if !bytes.Equal(pubKey, in.pubKey) {
		return makeError(ErrKeyMismatch, "PubKeyHashInput.setSignature",
			fmt.Sprintf("key %x does not sign this input", pubKey))
	}
	in.sig = append([]byte(nil), sig...)
	return nil
}

func (in *PubKeyHashInput) clearSignatures() {
	in.sig = nil
}

func (in *PubKeyHashInput) clone() Input {
	c := *in
	c.pubKey = append([]byte(nil), in.pubKey...)
	if in.sig != nil {
		c.sig = append([]byte(nil), in.sig...)
	}
	return &c
}

// MultiSigInput spends a pay-to-script-hash output whose redeem script is
// an M-of-N multisig script. Signatures are kept in key order.
type MultiSigInput struct {
	spend
	redeem *script.MultiSigRedeemScript
	sigs   [][]byte
}

var _ Input = (*MultiSigInput)(nil)

// RedeemScript returns the parsed redeem script.
func (in *MultiSigInput) RedeemScript() *script.MultiSigRedeemScript {
	return in.redeem
}

// Subscript returns the serialized redeem script.
func (in *MultiSigInput) Subscript() []byte {
	return in.redeem.Script()
}

// PubKeys returns the redeem script's keys.
func (in *MultiSigInput) PubKeys() [][]byte {
	return in.redeem.PubKeys()
}

// Signature returns the recorded signature for pubKey, or nil.
func (in *MultiSigInput) Signature(pubKey []byte) []byte {
	i := in.redeem.KeyIndex(pubKey)
	if i < 0 || in.sigs[i] == nil {
		return nil
	}
	return append([]byte(nil), in.sigs[i]...)
}

func (in *MultiSigInput) numSigs() int {
	n := 0
	for _, sig := range in.sigs {
		if sig != nil {
			n++
		}
	}
	return n
}

// SigsNeeded returns how many signatures are missing from the threshold.
func (in *MultiSigInput) SigsNeeded() int {
	if n := in.redeem.MinSigs() - in.numSigs(); n > 0 {
		return n
	}
	return 0
}

// ScriptSig renders OP_0 <sig>... <redeem script>. Broadcast carries exactly
// MinSigs signatures in key order; Edit carries one slot per key.
func (in *MultiSigInput) ScriptSig(mode ScriptSigMode) ([]byte, error) {
	switch mode {
	case Sign:
		return in.Subscript(), nil

	case Broadcast:
		if need := in.SigsNeeded(); need > 0 {
			return nil, makeError(ErrInsufficientSignatures,
				"MultiSigInput.ScriptSig", fmt.Sprintf("%d more "+
					"signatures needed", need))
		}
		sigs := make([][]byte, 0, in.redeem.MinSigs())
		for _, sig := range in.sigs {
			if sig != nil && len(sigs) < in.redeem.MinSigs() {
				sigs = append(sigs, sig)
			}
		}
		return in.redeem.SignatureScript(sigs)
	}

	b := script.NewBuilder().AddOp(script.OP_0)
	for _, sig := range in.sigs {
		if sig == nil {
			b.AddOp(script.OP_0)
		} else {
			b.AddData(sig)
		}
	}
	return b.AddData(in.redeem.Script()).Script()
}

func (in *MultiSigInput) setSignature(pubKey, sig []byte) error {
	i := in.redeem.KeyIndex(pubKey)
	if i < 0 {
		return makeError(ErrKeyMismatch, "MultiSigInput.setSignature",
			fmt.Sprintf("key %x is not in the redeem script", pubKey))
	}
	in.sigs[i] = append([]byte(nil), sig...)
	return nil
}

func (in *MultiSigInput) clearSignatures() {
	for i := range in.sigs {
		in.sigs[i] = nil
	}
}

func (in *MultiSigInput) clone() Input {
	c := *in
	c.sigs = make([][]byte, len(in.sigs))
	for i, sig := range in.sigs {
		if sig != nil {
			c.sigs[i] = append([]byte(nil), sig...)
		}
	}
	return &c
}

// ScriptHashInput spends a pay-to-script-hash output whose redeem script is
// not a multisig script. The builder cannot sign it; the caller supplies the
// data pushed before the redeem script with SetScriptHashPushes.
type ScriptHashInput struct {
	spend
	redeemScript []byte
	pushes       [][]byte
}

var _ Input = (*ScriptHashInput)(nil)

// RedeemScript returns the serialized redeem script.
func (in *ScriptHashInput) RedeemScript() []byte {
	return append([]byte(nil), in.redeemScript...)
}

// Subscript returns the redeem script.
func (in *ScriptHashInput) Subscript() []byte {
	return in.RedeemScript()
}

// PubKeys returns nil; the builder knows no keys for a generic script.
func (in *ScriptHashInput) PubKeys() [][]byte { return nil }

// Signature always returns nil.
func (in *ScriptHashInput) Signature([]byte) []byte { return nil }

// SigsNeeded always returns 0.
func (in *ScriptHashInput) SigsNeeded() int { return 0 }

// ScriptSig renders <push>... <redeem script>.
func (in *ScriptHashInput) ScriptSig(mode ScriptSigMode) ([]byte, error) {
	if mode == Sign {
		return in.Subscript(), nil
	}
	b := script.NewBuilder()
	for _, push := range in.pushes {
		b.AddData(push)
	}
	return b.AddData(in.redeemScript).Script()
}

func (in *ScriptHashInput) setSignature(pubKey, _ []byte) error {
	return makeError(ErrKeyMismatch, "ScriptHashInput.setSignature",
		fmt.Sprintf("key %x does not sign a generic script", pubKey))
}

func (in *ScriptHashInput) clearSignatures() {}

func (in *ScriptHashInput) clone() Input {
	c := *in
	c.redeemScript = append([]byte(nil), in.redeemScript...)
	c.pushes = clonePushes(in.pushes)
	return &c
}

func clonePushes(pushes [][]byte) [][]byte {
	if pushes == nil {
		return nil
	}
	c := make([][]byte, len(pushes))
	for i, p := range pushes {
		c[i] = append([]byte{}, p...)
	}
	return c
}
