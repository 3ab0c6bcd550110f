// Package builder assembles, signs and finalizes standard transactions that
// spend pay-to-pubkey-hash and pay-to-script-hash outputs.
//
// A Builder holds the transactions whose outputs it spends (dependencies),
// one typed Input per spent output and the new outputs. Signatures are
// recorded per input and public key until every input meets its threshold,
// at which point Tx(Broadcast) yields the final transaction. Builders
// holding signatures from different parties are merged with Combine, and
// Serialized/ParseSerialized carry a partially signed builder between them.
//
// A Builder is not safe for concurrent use.
package builder

import (
	"bytes"
	"fmt"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/ciphrex/mSIGNA-sub003/pkg/crypto"
	"github.com/ciphrex/mSIGNA-sub003/pkg/script"
	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
)

// MissingSig describes the signatures one input still lacks.
type MissingSig struct {
	// Input is the index of the input.
	Input int

	// PubKeys are the keys that have not signed yet.
	PubKeys [][]byte

	// SigsNeeded is how many more signatures satisfy the input.
	SigsNeeded int
}

// Builder constructs a transaction spending outputs of its dependencies.
type Builder struct {
	params   *chaincfg.Params
	version  uint32
	lockTime uint32

	deps     map[chainhash.Hash]*wire.Transaction
	depOrder []chainhash.Hash

	inputs  []Input
	outputs []wire.TxOut

	// missing caches MissingSigs until the next mutation.
	missing []MissingSig
}

// New returns an empty builder for the given network.
func New(params *chaincfg.Params) *Builder {
	return &Builder{
		params:  params,
		version: wire.TxVersion,
		deps:    make(map[chainhash.Hash]*wire.Transaction),
	}
}

// Params returns the builder's network.
func (b *Builder) Params() *chaincfg.Params {
	return b.params
}

// invalidate drops the memoized missing signature report.
func (b *Builder) invalidate() {
	b.missing = nil
}

// contentChanged is called by every mutation of the unsigned transaction.
// Recorded signatures commit to the old content and are dropped.
func (b *Builder) contentChanged() {
	cleared := 0
	for _, in := range b.inputs {
		for _, key := range in.PubKeys() {
			if in.Signature(key) != nil {
				cleared++
				break
			}
		}
		in.clearSignatures()
	}
	if cleared > 0 {
		log.Debugf("Dropped signatures of %d inputs after the "+
			"transaction changed", cleared)
	}
	b.invalidate()
}

// Version returns the transaction version.
func (b *Builder) Version() uint32 {
	return b.version
}

// SetVersion sets the transaction version.
func (b *Builder) SetVersion(version uint32) {
	b.version = version
	b.contentChanged()
}

// LockTime returns the transaction lock time.
func (b *Builder) LockTime() uint32 {
	return b.lockTime
}

// SetLockTime sets the transaction lock time.
func (b *Builder) SetLockTime(lockTime uint32) {
	b.lockTime = lockTime
	b.contentChanged()
}

// AddDependency records a transaction whose outputs inputs may spend and
// returns its hash. Adding a known transaction again is a no-op.
func (b *Builder) AddDependency(tx *wire.Transaction) chainhash.Hash {
	hash := tx.TxHash()
	if _, ok := b.deps[hash]; !ok {
		b.deps[hash] = tx.Copy()
		b.depOrder = append(b.depOrder, hash)
		log.Debugf("Added dependency %v", hash)
	}
	b.invalidate()
	return hash
}

// Dependency returns a copy of the dependency with the given hash.
func (b *Builder) Dependency(hash *chainhash.Hash) (*wire.Transaction, bool) {
	tx, ok := b.deps[*hash]
	if !ok {
		return nil, false
	}
	return tx.Copy(), true
}

// Dependencies returns the hashes of all dependencies in insertion order.
func (b *Builder) Dependencies() []chainhash.Hash {
	return append([]chainhash.Hash(nil), b.depOrder...)
}

// RemoveDependency forgets a dependency and reports whether it was known.
// Inputs already spending it keep the spent output's details.
func (b *Builder) RemoveDependency(hash *chainhash.Hash) bool {
	if _, ok := b.deps[*hash]; !ok {
		return false
	}
	delete(b.deps, *hash)
	for i, h := range b.depOrder {
		if h == *hash {
			b.depOrder = append(b.depOrder[:i], b.depOrder[i+1:]...)
			break
		}
	}
	b.invalidate()
	return true
}

// ClearDependencies forgets every dependency.
func (b *Builder) ClearDependencies() {
	b.deps = make(map[chainhash.Hash]*wire.Transaction)
	b.depOrder = nil
	b.invalidate()
}

// AddInput spends output outIndex of dependency outHash. For a
// pay-to-pubkey-hash output keyOrRedeemScript is the serialized public key;
// for a pay-to-script-hash output it is the redeem script. Either must hash
// to the value the output commits to.
func (b *Builder) AddInput(outHash *chainhash.Hash, outIndex uint32,
	keyOrRedeemScript []byte, sequence uint32) error {

	const fn = "Builder.AddInput"

	dep, ok := b.deps[*outHash]
	if !ok {
		return makeError(ErrUnknownDependency, fn,
			fmt.Sprintf("no dependency %v", outHash))
	}
	if int(outIndex) >= dep.NumTxOut() {
		return makeError(ErrIndexOutOfRange, fn, fmt.Sprintf("%v has "+
			"%d outputs, cannot spend output %d", outHash,
			dep.NumTxOut(), outIndex))
	}
	outPoint := wire.OutPoint{Hash: *outHash, Index: outIndex}
	for _, in := range b.inputs {
		if in.PreviousOutPoint() == outPoint {
			return makeError(ErrDuplicateInput, fn,
				fmt.Sprintf("%v is already spent", outPoint))
		}
	}

	spent := dep.TxOut(int(outIndex))
	sp := spend{outPoint: outPoint, sequence: sequence, value: spent.Value}
	in, err := newInput(sp, spent.PkScript, keyOrRedeemScript)
	if err != nil {
		return err
	}

	b.inputs = append(b.inputs, in)
	b.contentChanged()
	log.Debugf("Added input %d spending %v (%T)", len(b.inputs)-1,
		outPoint, in)
	return nil
}

// newInput returns the input kind matching the spent output's class.
func newInput(sp spend, pkScript, keyOrRedeemScript []byte) (Input, error) {
	const fn = "Builder.AddInput"

	class, hash := script.ExtractHash(pkScript)
	if class == script.NonStandardTy {
		return nil, makeError(ErrNonStandardOutput, fn,
			fmt.Sprintf("%v pays to a non-standard script", sp.outPoint))
	}
	if !bytes.Equal(crypto.Hash160(keyOrRedeemScript), hash) {
		return nil, makeError(ErrKeyMismatch, fn, fmt.Sprintf("%v "+
			"commits to %x, not to the hash of the given %s",
			sp.outPoint, hash, class))
	}

	if class == script.PubKeyHashTy {
		if _, err := crypto.ParsePublicKey(keyOrRedeemScript); err != nil {
			return nil, &Error{Code: ErrKeyMismatch, Func: fn, Input: -1,
				Description: "spending key is not a public key",
				Cause:       err}
		}
		return &PubKeyHashInput{
			spend:  sp,
			pubKey: append([]byte(nil), keyOrRedeemScript...),
		}, nil
	}

	redeem, err := script.ParseMultiSigRedeemScript(keyOrRedeemScript)
	if err != nil {
		return &ScriptHashInput{
			spend:        sp,
			redeemScript: append([]byte(nil), keyOrRedeemScript...),
		}, nil
	}
	return &MultiSigInput{
		spend:  sp,
		redeem: redeem,
		sigs:   make([][]byte, len(redeem.PubKeys())),
	}, nil
}

// checkInput validates an input index.
func (b *Builder) checkInput(fn string, i int) error {
	if i < 0 || i >= len(b.inputs) {
		return makeError(ErrIndexOutOfRange, fn, fmt.Sprintf("input "+
			"index %d out of range [0, %d)", i, len(b.inputs)))
	}
	return nil
}

// RemoveInput removes input i, shifting later inputs down.
func (b *Builder) RemoveInput(i int) error {
	if err := b.checkInput("Builder.RemoveInput", i); err != nil {
		return err
	}
	b.inputs = append(b.inputs[:i], b.inputs[i+1:]...)
	b.contentChanged()
	return nil
}

// NumInputs returns the number of inputs.
func (b *Builder) NumInputs() int {
	return len(b.inputs)
}

// Input returns a copy of input i.
func (b *Builder) Input(i int) (Input, error) {
	if err := b.checkInput("Builder.Input", i); err != nil {
		return nil, err
	}
	return b.inputs[i].clone(), nil
}

// SetScriptHashPushes sets the data pushed before the redeem script of a
// generic pay-to-script-hash input.
func (b *Builder) SetScriptHashPushes(i int, pushes [][]byte) error {
	const fn = "Builder.SetScriptHashPushes"
	if err := b.checkInput(fn, i); err != nil {
		return err
	}
	in, ok := b.inputs[i].(*ScriptHashInput)
	if !ok {
		return inputError(ErrInvalidMode, fn, i, fmt.Sprintf("%T is "+
			"signed, not given pushes", b.inputs[i]))
	}
	in.pushes = clonePushes(pushes)
	b.invalidate()
	return nil
}

// AddOutput appends an output paying value to pkScript.
func (b *Builder) AddOutput(value uint64, pkScript []byte) {
	b.outputs = append(b.outputs, wire.TxOut{
		Value:    value,
		PkScript: append([]byte(nil), pkScript...),
	})
	b.contentChanged()
}

// AddAddressOutput appends an output paying value to a Base58Check address
// of the builder's network.
func (b *Builder) AddAddressOutput(addr string, value uint64) error {
	pkScript, err := script.ScriptFromAddress(addr, b.params)
	if err != nil {
		return err
	}
	b.AddOutput(value, pkScript)
	return nil
}

func (b *Builder) checkOutput(fn string, i int) error {
	if i < 0 || i >= len(b.outputs) {
		return makeError(ErrIndexOutOfRange, fn, fmt.Sprintf("output "+
			"index %d out of range [0, %d)", i, len(b.outputs)))
	}
	return nil
}

// RemoveOutput removes output i, shifting later outputs down.
func (b *Builder) RemoveOutput(i int) error {
	if err := b.checkOutput("Builder.RemoveOutput", i); err != nil {
		return err
	}
	b.outputs = append(b.outputs[:i], b.outputs[i+1:]...)
	b.contentChanged()
	return nil
}

// NumOutputs returns the number of outputs.
func (b *Builder) NumOutputs() int {
	return len(b.outputs)
}

// Output returns a copy of output i.
func (b *Builder) Output(i int) (wire.TxOut, error) {
	if err := b.checkOutput("Builder.Output", i); err != nil {
		return wire.TxOut{}, err
	}
	return copyTxOut(b.outputs[i]), nil
}

func copyTxOut(out wire.TxOut) wire.TxOut {
	out.PkScript = append([]byte(nil), out.PkScript...)
	return out
}

// Fee returns the spent amount minus the paid amount. It is negative when
// the outputs spend more than the inputs provide.
func (b *Builder) Fee() int64 {
	var fee int64
	for _, in := range b.inputs {
		fee += int64(in.Value())
	}
	for _, out := range b.outputs {
		fee -= int64(out.Value)
	}
	return fee
}

// buildTx assembles the transaction with each input's signature script
// produced by scriptSig.
func (b *Builder) buildTx(scriptSig func(Input) ([]byte, error)) (*wire.Transaction, error) {
	tx := wire.NewTransaction(b.version)
	tx.SetLockTime(b.lockTime)
	for i, in := range b.inputs {
		sigScript, err := scriptSig(in)
		if err != nil {
			return nil, fmt.Errorf("rendering input %d: %w", i, err)
		}
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: in.PreviousOutPoint(),
			SignatureScript:  sigScript,
			Sequence:         in.Sequence(),
		})
	}
	for i := range b.outputs {
		tx.AddTxOut(&b.outputs[i])
	}
	return tx, nil
}

// unsignedTx returns the transaction with empty signature scripts.
func (b *Builder) unsignedTx() *wire.Transaction {
	tx, _ := b.buildTx(func(Input) ([]byte, error) { return nil, nil })
	return tx
}

// Tx returns the transaction with signature scripts rendered in mode, which
// must be Broadcast or Edit. Broadcast fails with ErrInsufficientSignatures
// while any input is short of signatures.
func (b *Builder) Tx(mode ScriptSigMode) (*wire.Transaction, error) {
	if mode != Broadcast && mode != Edit {
		return nil, makeError(ErrInvalidMode, "Builder.Tx",
			fmt.Sprintf("%v signature scripts are per input, use "+
				"SigningTx", mode))
	}
	return b.buildTx(func(in Input) ([]byte, error) {
		return in.ScriptSig(mode)
	})
}

// SigningTx returns the Sign mode snapshot that input i signs with
// hashType. It fails for SIGHASH_SINGLE when no output shares the input's
// index; SignatureHash then commits to the number one instead.
func (b *Builder) SigningTx(i int, hashType SigHashType) (*wire.Transaction, error) {
	const fn = "Builder.SigningTx"
	if err := b.checkInput(fn, i); err != nil {
		return nil, err
	}
	if err := checkHashType(hashType); err != nil {
		return nil, err
	}
	subscript, _ := b.inputs[i].ScriptSig(Sign)
	tx, ok := signingTx(b.unsignedTx(), i, subscript, hashType)
	if !ok {
		return nil, inputError(ErrIndexOutOfRange, fn, i,
			"SIGHASH_SINGLE without a matching output")
	}
	return tx, nil
}

// SignatureHash returns the legacy signature hash of input i.
func (b *Builder) SignatureHash(i int, hashType SigHashType) (chainhash.Hash, error) {
	if err := b.checkInput("Builder.SignatureHash", i); err != nil {
		return chainhash.Hash{}, err
	}
	if err := checkHashType(hashType); err != nil {
		return chainhash.Hash{}, err
	}
	subscript, _ := b.inputs[i].ScriptSig(Sign)
	return calcSignatureHash(b.unsignedTx(), i, subscript, hashType), nil
}

// hasKey reports whether pubKey may sign input i.
func (b *Builder) hasKey(i int, pubKey []byte) bool {
	for _, key := range b.inputs[i].PubKeys() {
		if bytes.Equal(key, pubKey) {
			return true
		}
	}
	return false
}

// Sign signs input i for pubKey with privKey and records the signature,
// replacing any earlier signature by the same key.
func (b *Builder) Sign(i int, pubKey []byte, privKey *crypto.PrivateKey,
	hashType SigHashType) error {

	const fn = "Builder.Sign"
	if err := b.checkInput(fn, i); err != nil {
		return err
	}
	if !b.hasKey(i, pubKey) {
		return inputError(ErrKeyMismatch, fn, i,
			fmt.Sprintf("key %x does not sign this input", pubKey))
	}
	pub, err := crypto.ParsePublicKey(pubKey)
	if err != nil {
		return &Error{Code: ErrKeyMismatch, Func: fn, Input: i,
			Description: "signing key is not a public key", Cause: err}
	}
	if !privKey.PublicKey().IsEqual(pub) {
		return inputError(ErrKeyMismatch, fn, i, fmt.Sprintf("private "+
			"key does not belong to %x", pubKey))
	}

	hash, err := b.SignatureHash(i, hashType)
	if err != nil {
		return err
	}
	sig := append(privKey.Sign(hash[:]).Serialize(), byte(hashType))
	if err := b.inputs[i].setSignature(pubKey, sig); err != nil {
		return err
	}
	b.invalidate()

	log.Debugf("Signed input %d for key %x with %v", i, pubKey, hashType)
	return nil
}

// SignAll signs every unsigned slot whose key belongs to one of privKeys
// with SIGHASH_ALL, and returns the number of signatures added.
func (b *Builder) SignAll(privKeys ...*crypto.PrivateKey) (int, error) {
	n := 0
	for i, in := range b.inputs {
		for _, key := range in.PubKeys() {
			if in.Signature(key) != nil || in.SigsNeeded() == 0 {
				continue
			}
			pub, err := crypto.ParsePublicKey(key)
			if err != nil {
				continue
			}
			for _, priv := range privKeys {
				if !priv.PublicKey().IsEqual(pub) {
					continue
				}
				if err := b.Sign(i, key, priv, SigHashAll); err != nil {
					return n, err
				}
				n++
				break
			}
		}
	}
	return n, nil
}

// verifySignature checks that sig, a DER signature followed by its hash type
// byte, is pubKey's signature of input i.
func (b *Builder) verifySignature(fn string, i int, pubKey, sig []byte) error {
	if len(sig) < 2 {
		return inputError(ErrInvalidSignature, fn, i, "signature too short")
	}
	hashType := SigHashType(sig[len(sig)-1])
	hash, err := b.SignatureHash(i, hashType)
	if err != nil {
		return &Error{Code: ErrInvalidSignature, Func: fn, Input: i,
			Description: "signature hash type", Cause: err}
	}
	pub, err := crypto.ParsePublicKey(pubKey)
	if err != nil {
		return &Error{Code: ErrKeyMismatch, Func: fn, Input: i,
			Description: "signing key is not a public key", Cause: err}
	}
	if !crypto.VerifySignature(pub, hash[:], sig[:len(sig)-1]) {
		return inputError(ErrInvalidSignature, fn, i, fmt.Sprintf(
			"signature does not verify for key %x", pubKey))
	}
	return nil
}

// AddSignature records a signature made elsewhere. The signature is a DER
// signature followed by its hash type byte and must verify. Recording the
// same signature twice is a no-op; a different one for the same key fails
// with ErrConflictingSignature.
func (b *Builder) AddSignature(i int, pubKey, sig []byte) error {
	const fn = "Builder.AddSignature"
	if err := b.checkInput(fn, i); err != nil {
		return err
	}
	if !b.hasKey(i, pubKey) {
		return inputError(ErrKeyMismatch, fn, i,
			fmt.Sprintf("key %x does not sign this input", pubKey))
	}
	if existing := b.inputs[i].Signature(pubKey); existing != nil {
		if bytes.Equal(existing, sig) {
			return nil
		}
		return inputError(ErrConflictingSignature, fn, i,
			fmt.Sprintf("key %x already signed differently", pubKey))
	}
	if err := b.verifySignature(fn, i, pubKey, sig); err != nil {
		return err
	}
	if err := b.inputs[i].setSignature(pubKey, sig); err != nil {
		return err
	}
	b.invalidate()
	return nil
}

// MissingSigs reports, for every input, the keys without a signature and
// how many more signatures the input needs. The report is memoized until
// the builder changes.
func (b *Builder) MissingSigs() []MissingSig {
	if b.missing == nil {
		missing := make([]MissingSig, 0, len(b.inputs))
		for i, in := range b.inputs {
			var keys [][]byte
			for _, key := range in.PubKeys() {
				if in.Signature(key) == nil {
					keys = append(keys, key)
				}
			}
			missing = append(missing, MissingSig{
				Input:      i,
				PubKeys:    keys,
				SigsNeeded: in.SigsNeeded(),
			})
		}
		b.missing = missing
	}

	report := make([]MissingSig, len(b.missing))
	for i, m := range b.missing {
		report[i] = MissingSig{
			Input:      m.Input,
			PubKeys:    clonePushes(m.PubKeys),
			SigsNeeded: m.SigsNeeded,
		}
	}
	return report
}

// Complete reports whether every input has enough signatures.
func (b *Builder) Complete() bool {
	for _, m := range b.MissingSigs() {
		if m.SigsNeeded > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the builder.
func (b *Builder) Clone() *Builder {
	c := &Builder{
		params:   b.params,
		version:  b.version,
		lockTime: b.lockTime,
		deps:     make(map[chainhash.Hash]*wire.Transaction, len(b.deps)),
		depOrder: append([]chainhash.Hash(nil), b.depOrder...),
		inputs:   make([]Input, len(b.inputs)),
		outputs:  make([]wire.TxOut, len(b.outputs)),
	}
	for hash, tx := range b.deps {
		c.deps[hash] = tx.Copy()
	}
	for i, in := range b.inputs {
		c.inputs[i] = in.clone()
	}
	for i, out := range b.outputs {
		c.outputs[i] = copyTxOut(out)
	}
	return c
}
