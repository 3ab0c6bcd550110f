package builder

import (
	"bytes"
	"fmt"
)

// Combine merges builders that describe the same unsigned transaction,
// typically copies signed by different parties. The result holds the union
// of their signatures and dependencies; the arguments are not modified.
func Combine(builders ...*Builder) (*Builder, error) {
	const fn = "Combine"

	if len(builders) == 0 {
		return nil, makeError(ErrIncompatible, fn, "no builders to combine")
	}

	result := builders[0].Clone()
	for n, src := range builders[1:] {
		if err := result.mergeFrom(src); err != nil {
			return nil, fmt.Errorf("merging builder %d: %w", n+1, err)
		}
	}
	result.invalidate()
	return result, nil
}

// checkCompatible fails unless b and other share one unsigned transaction
// and every input spends with the same key or redeem script.
func (b *Builder) checkCompatible(other *Builder) error {
	const fn = "Combine"

	if b.params.Net != other.params.Net {
		return makeError(ErrIncompatible, fn, fmt.Sprintf("networks "+
			"differ: %s != %s", b.params.Name, other.params.Name))
	}
	if len(b.inputs) != len(other.inputs) {
		return makeError(ErrIncompatible, fn, fmt.Sprintf("input "+
			"counts differ: %d != %d", len(b.inputs), len(other.inputs)))
	}
	if h, o := b.unsignedTx().TxHash(), other.unsignedTx().TxHash(); h != o {
		return makeError(ErrIncompatible, fn, fmt.Sprintf("unsigned "+
			"transactions differ: %v != %v", h, o))
	}
	for i, in := range b.inputs {
		if !bytes.Equal(in.Subscript(), other.inputs[i].Subscript()) {
			return inputError(ErrIncompatible, fn, i,
				"inputs spend with different scripts")
		}
	}
	return nil
}

// mergeFrom copies into b the dependencies, signatures and script pushes of
// src that b lacks.
func (b *Builder) mergeFrom(src *Builder) error {
	if err := b.checkCompatible(src); err != nil {
		return err
	}

	for _, hash := range src.depOrder {
		if _, ok := b.deps[hash]; !ok {
			b.AddDependency(src.deps[hash])
		}
	}

	for i, in := range src.inputs {
		if sh, ok := in.(*ScriptHashInput); ok {
			dst := b.inputs[i].(*ScriptHashInput)
			if dst.pushes == nil && sh.pushes != nil {
				dst.pushes = clonePushes(sh.pushes)
			}
			continue
		}

		for _, key := range in.PubKeys() {
			sig := in.Signature(key)
			if sig == nil {
				continue
			}
			if err := b.AddSignature(i, key, sig); err != nil {
				return err
			}
		}
	}
	return nil
}
