package builder

import (
	"bytes"
	"fmt"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/ciphrex/mSIGNA-sub003/pkg/script"
	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
)

// Serialized returns the Edit mode transaction followed by every dependency
// an input spends, in order of first use. A recipient can rebuild the
// builder, signatures included, with ParseSerialized.
func (b *Builder) Serialized() ([]byte, error) {
	tx, err := b.Tx(Edit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}

	written := make(map[chainhash.Hash]bool)
	for _, in := range b.inputs {
		hash := in.PreviousOutPoint().Hash
		dep, ok := b.deps[hash]
		if !ok || written[hash] {
			continue
		}
		if err := dep.Serialize(&buf); err != nil {
			return nil, err
		}
		written[hash] = true
	}
	return buf.Bytes(), nil
}

// ParseSerialized rebuilds a builder from Serialized output. Every input's
// dependency must be present, and every signature found in the signature
// scripts must verify. Broadcast mode transactions are accepted too.
func ParseSerialized(params *chaincfg.Params, data []byte) (*Builder, error) {
	const fn = "ParseSerialized"

	r := bytes.NewReader(data)
	tx := &wire.Transaction{}
	if err := tx.Deserialize(r); err != nil {
		return nil, &Error{Code: ErrMalformedState, Func: fn, Input: -1,
			Description: "reading transaction", Cause: err}
	}

	b := New(params)
	for r.Len() > 0 {
		dep := &wire.Transaction{}
		if err := dep.Deserialize(r); err != nil {
			return nil, &Error{Code: ErrMalformedState, Func: fn,
				Input: -1, Description: fmt.Sprintf("reading "+
					"dependency %d", len(b.depOrder)), Cause: err}
		}
		b.AddDependency(dep)
	}

	b.version = tx.Version()
	b.lockTime = tx.LockTime()
	for i := 0; i < tx.NumTxOut(); i++ {
		out := tx.TxOut(i)
		b.outputs = append(b.outputs, out)
	}

	// Inputs first, then signatures, since every input is part of what
	// each signature commits to.
	pushes := make([][][]byte, tx.NumTxIn())
	for i := range pushes {
		in := tx.TxIn(i)
		p, err := scriptPushes(in.SignatureScript)
		if err != nil {
			return nil, &Error{Code: ErrMalformedState, Func: fn,
				Input: i, Description: "signature script",
				Cause: err}
		}
		if len(p) == 0 {
			return nil, inputError(ErrMalformedState, fn, i,
				"empty signature script names no key or script")
		}
		pushes[i] = p

		// The key or redeem script is always the last push.
		op := in.PreviousOutPoint
		err = b.AddInput(&op.Hash, op.Index, p[len(p)-1], in.Sequence)
		if err != nil {
			return nil, err
		}
	}

	for i, in := range b.inputs {
		p := pushes[i][:len(pushes[i])-1]
		var err error
		switch in := in.(type) {
		case *PubKeyHashInput:
			err = b.restorePubKeyHash(i, in, p)
		case *MultiSigInput:
			err = b.restoreMultiSig(i, in, p)
		case *ScriptHashInput:
			in.pushes = clonePushes(p)
		}
		if err != nil {
			return nil, err
		}
	}

	b.invalidate()
	log.Debugf("Parsed builder with %d inputs, %d outputs and %d "+
		"dependencies", len(b.inputs), len(b.outputs), len(b.depOrder))
	return b, nil
}

func (b *Builder) restorePubKeyHash(i int, in *PubKeyHashInput, p [][]byte) error {
	if len(p) != 1 {
		return inputError(ErrMalformedState, "ParseSerialized", i,
			fmt.Sprintf("pay-to-pubkey-hash script has %d pushes, "+
				"want 2", len(p)+1))
	}
	if len(p[0]) == 0 {
		return nil
	}
	return b.AddSignature(i, in.pubKey, p[0])
}

// restoreMultiSig accepts both layouts: one slot per key (Edit), and only
// the present signatures in key order (Broadcast), in which case each
// signature is matched to the key it verifies for.
func (b *Builder) restoreMultiSig(i int, in *MultiSigInput, p [][]byte) error {
	if len(p) == 0 || len(p[0]) != 0 {
		return inputError(ErrMalformedState, "ParseSerialized", i,
			"multisig script does not start with OP_0")
	}
	sigs := p[1:]
	keys := in.redeem.PubKeys()

	if len(sigs) == len(keys) {
		for j, sig := range sigs {
			if len(sig) == 0 {
				continue
			}
			if err := b.AddSignature(i, keys[j], sig); err != nil {
				return err
			}
		}
		return nil
	}

	if len(sigs) > len(keys) {
		return inputError(ErrMalformedState, "ParseSerialized", i,
			fmt.Sprintf("%d signatures for %d keys", len(sigs),
				len(keys)))
	}
	next := 0
	for _, sig := range sigs {
		for ; next < len(keys); next++ {
			if b.verifySignature("ParseSerialized", i, keys[next], sig) == nil {
				break
			}
		}
		if next == len(keys) {
			return inputError(ErrInvalidSignature, "ParseSerialized", i,
				"signature matches no remaining key")
		}
		if err := b.AddSignature(i, keys[next], sig); err != nil {
			return err
		}
		next++
	}
	return nil
}

// scriptPushes returns the data pushed by a push-only script, with OP_0 as
// an empty push.
func scriptPushes(sigScript []byte) ([][]byte, error) {
	var pushes [][]byte
	t := script.MakeTokenizer(sigScript)
	for t.Next() {
		switch {
		case t.Data() != nil:
			pushes = append(pushes, append([]byte(nil), t.Data()...))
		case t.Opcode() == script.OP_0:
			pushes = append(pushes, []byte{})
		default:
			return nil, fmt.Errorf("opcode %#02x at offset %d is not a "+
				"push", t.Opcode(), t.ByteIndex()-1)
		}
	}
	return pushes, t.Err()
}
