package wire

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

const (
	// TxVersion is the default transaction version.
	TxVersion = 1

	// MaxTxInSequenceNum is the maximum sequence number the sequence field
	// of a transaction input can be.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// MaxPrevOutIndex is the maximum index the index field of a previous
	// outpoint can be.
	MaxPrevOutIndex uint32 = 0xffffffff

	// MaxScriptSize is the largest script a transaction may carry.
	MaxScriptSize = 10000

	// minTxPayload is the minimum payload size for a transaction: version 4
	// + input count 1 + output count 1 + lock time 4.
	minTxPayload = 10

	// minTxInPayload is the minimum size of a serialized input:
	// outpoint 36 + script length 1 + sequence 4.
	minTxInPayload = 41

	// minTxOutPayload is the minimum size of a serialized output:
	// value 8 + script length 1.
	minTxOutPayload = 9
)

// OutPoint defines a data type that is used to track previous transaction
// outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint with the provided hash and
// index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	return o.Hash.String() + ":" + strconv.FormatUint(uint64(o.Index), 10)
}

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint Hash 32 bytes + Outpoint Index 4 bytes + Sequence 4 bytes +
	// serialized varint size for the length of SignatureScript +
	// SignatureScript bytes.
	return 40 + VarBytesSerializeSize(t.SignatureScript)
}

// NewTxIn returns a new transaction input with the provided previous outpoint
// and signature script with a default sequence of MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    uint64 // satoshis
	PkScript []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + serialized varint size for the length of PkScript +
	// PkScript bytes.
	return 8 + VarBytesSerializeSize(t.PkScript)
}

// NewTxOut returns a new transaction output with the provided value and
// public key script.
func NewTxOut(value uint64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		PkScript: pkScript,
	}
}

// Transaction is a transaction with a memoized hash.
//
// The hash cell is cleared by every method that changes serialized content:
// SetVersion, SetLockTime, AddTxIn, AddTxOut, RemoveTxIn, RemoveTxOut,
// SetScriptSig, SetSequence, ClearScriptSigs, Deserialize and
// InvalidateHash. Inputs and outputs are handed out as copies so they cannot
// be changed behind the cache's back.
type Transaction struct {
	version  uint32
	txIn     []TxIn
	txOut    []TxOut
	lockTime uint32

	// hash caches TxHash until the next mutation.
	hash *chainhash.Hash
}

// NewTransaction returns a new transaction with no inputs or outputs.
func NewTransaction(version uint32) *Transaction {
	return &Transaction{version: version}
}

// InvalidateHash drops the memoized hash.
func (tx *Transaction) InvalidateHash() {
	tx.hash = nil
}

// Version returns the transaction version.
func (tx *Transaction) Version() uint32 {
	return tx.version
}

// SetVersion sets the transaction version.
func (tx *Transaction) SetVersion(version uint32) {
	tx.version = version
	tx.InvalidateHash()
}

// LockTime returns the lock time.
func (tx *Transaction) LockTime() uint32 {
	return tx.lockTime
}

// SetLockTime sets the lock time.
func (tx *Transaction) SetLockTime(lockTime uint32) {
	tx.lockTime = lockTime
	tx.InvalidateHash()
}

// NumTxIn returns the number of inputs.
func (tx *Transaction) NumTxIn() int {
	return len(tx.txIn)
}

// NumTxOut returns the number of outputs.
func (tx *Transaction) NumTxOut() int {
	return len(tx.txOut)
}

// TxIn returns a copy of input i.
func (tx *Transaction) TxIn(i int) TxIn {
	in := tx.txIn[i]
	in.SignatureScript = cloneBytes(in.SignatureScript)
	return in
}

// TxOut returns a copy of output i.
func (tx *Transaction) TxOut(i int) TxOut {
	out := tx.txOut[i]
	out.PkScript = cloneBytes(out.PkScript)
	return out
}

// AddTxIn appends a copy of ti.
func (tx *Transaction) AddTxIn(ti *TxIn) {
	in := *ti
	in.SignatureScript = cloneBytes(ti.SignatureScript)
	tx.txIn = append(tx.txIn, in)
	tx.InvalidateHash()
}

// AddTxOut appends a copy of to.
func (tx *Transaction) AddTxOut(to *TxOut) {
	out := *to
	out.PkScript = cloneBytes(to.PkScript)
	tx.txOut = append(tx.txOut, out)
	tx.InvalidateHash()
}

// RemoveTxIn removes input i, shifting later inputs down.
func (tx *Transaction) RemoveTxIn(i int) error {
	if i < 0 || i >= len(tx.txIn) {
		return fmt.Errorf("input index %d out of range [0, %d)", i, len(tx.txIn))
	}
	tx.txIn = append(tx.txIn[:i], tx.txIn[i+1:]...)
	tx.InvalidateHash()
	return nil
}

// RemoveTxOut removes output i, shifting later outputs down.
func (tx *Transaction) RemoveTxOut(i int) error {
	if i < 0 || i >= len(tx.txOut) {
		return fmt.Errorf("output index %d out of range [0, %d)", i, len(tx.txOut))
	}
	tx.txOut = append(tx.txOut[:i], tx.txOut[i+1:]...)
	tx.InvalidateHash()
	return nil
}

// SetScriptSig replaces the signature script of input i.
func (tx *Transaction) SetScriptSig(i int, script []byte) {
	tx.txIn[i].SignatureScript = cloneBytes(script)
	tx.InvalidateHash()
}

// SetSequence replaces the sequence number of input i.
func (tx *Transaction) SetSequence(i int, sequence uint32) {
	tx.txIn[i].Sequence = sequence
	tx.InvalidateHash()
}

// ClearScriptSigs empties the signature script of every input.
func (tx *Transaction) ClearScriptSigs() {
	for i := range tx.txIn {
		tx.txIn[i].SignatureScript = nil
	}
	tx.InvalidateHash()
}

// TxHash returns the double SHA-256 of the serialized transaction. The
// result is memoized until the next mutation.
func (tx *Transaction) TxHash() chainhash.Hash {
	if tx.hash != nil {
		return *tx.hash
	}

	// Encode the transaction and calculate double sha256 on the result.
	// Ignore the error returns since the only way the encode could fail
	// is being out of memory or due to nil pointers, both of which would
	// cause a run-time panic.
	buf := bytes.NewBuffer(make([]byte, 0, tx.SerializeSize()))
	_ = tx.Serialize(buf)
	hash := chainhash.DoubleHashH(buf.Bytes())
	tx.hash = &hash
	return hash
}

// Copy creates a deep copy of a transaction so that the original does not
// get modified when the copy is manipulated.
func (tx *Transaction) Copy() *Transaction {
	newTx := &Transaction{
		version:  tx.version,
		txIn:     make([]TxIn, len(tx.txIn)),
		txOut:    make([]TxOut, len(tx.txOut)),
		lockTime: tx.lockTime,
	}
	for i := range tx.txIn {
		newTx.txIn[i] = tx.TxIn(i)
	}
	for i := range tx.txOut {
		newTx.txOut[i] = tx.TxOut(i)
	}
	return newTx
}

// Deserialize decodes a transaction from r into the receiver, replacing its
// previous content.
func (tx *Transaction) Deserialize(r io.Reader) error {
	tx.InvalidateHash()

	version, err := readUint32(r, "tx version")
	if err != nil {
		return fmt.Errorf("reading version: %w", err)
	}

	// Prevent more input transactions than could possibly fit into a
	// message.
	maxTxIn := uint64(MaxMessagePayload / minTxInPayload)
	numInputs, err := readCount(r, maxTxIn, "transaction inputs")
	if err != nil {
		return fmt.Errorf("reading input count: %w", err)
	}

	// Counts are peer controlled; reserve little and grow as inputs arrive.
	txIn := make([]TxIn, 0, preallocCap(numInputs))
	for i := uint64(0); i < numInputs; i++ {
		var ti TxIn
		if err := readTxIn(r, &ti); err != nil {
			return fmt.Errorf("parsing input %d: %w", i, err)
		}
		txIn = append(txIn, ti)
	}

	maxTxOut := uint64(MaxMessagePayload / minTxOutPayload)
	numOutputs, err := readCount(r, maxTxOut, "transaction outputs")
	if err != nil {
		return fmt.Errorf("reading output count: %w", err)
	}

	txOut := make([]TxOut, 0, preallocCap(numOutputs))
	for i := uint64(0); i < numOutputs; i++ {
		var to TxOut
		if err := readTxOut(r, &to); err != nil {
			return fmt.Errorf("parsing output %d: %w", i, err)
		}
		txOut = append(txOut, to)
	}

	lockTime, err := readUint32(r, "lock time")
	if err != nil {
		return fmt.Errorf("reading lock time: %w", err)
	}

	tx.version = version
	tx.txIn = txIn
	tx.txOut = txOut
	tx.lockTime = lockTime
	return nil
}

// Serialize encodes the transaction to w.
func (tx *Transaction) Serialize(w io.Writer) error {
	if err := writeUint32(w, tx.version); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(tx.txIn))); err != nil {
		return err
	}
	for i := range tx.txIn {
		if err := writeTxIn(w, &tx.txIn[i]); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(tx.txOut))); err != nil {
		return err
	}
	for i := range tx.txOut {
		if err := writeTxOut(w, &tx.txOut[i]); err != nil {
			return err
		}
	}

	return writeUint32(w, tx.lockTime)
}

// Bytes returns the serialized transaction.
func (tx *Transaction) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, tx.SerializeSize()))
	_ = tx.Serialize(buf)
	return buf.Bytes()
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (tx *Transaction) SerializeSize() int {
	// Version 4 bytes + LockTime 4 bytes + Serialized varint size for the
	// number of transaction inputs and outputs.
	n := 8 + VarIntSerializeSize(uint64(len(tx.txIn))) +
		VarIntSerializeSize(uint64(len(tx.txOut)))

	for i := range tx.txIn {
		n += tx.txIn[i].SerializeSize()
	}
	for i := range tx.txOut {
		n += tx.txOut[i].SerializeSize()
	}
	return n
}

// ParseTransaction decodes a serialized transaction. Trailing bytes are an
// error.
func ParseTransaction(data []byte) (*Transaction, error) {
	r := bytes.NewReader(data)
	tx := &Transaction{}
	if err := tx.Deserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, messageError("ParseTransaction", ErrMalformedMessage,
			fmt.Sprintf("%d trailing bytes after transaction", r.Len()))
	}
	return tx, nil
}

// readOutPoint reads the next sequence of bytes from r as an OutPoint.
func readOutPoint(r io.Reader, op *OutPoint) error {
	if err := readHash(r, &op.Hash, "outpoint hash"); err != nil {
		return err
	}

	index, err := readUint32(r, "outpoint index")
	if err != nil {
		return err
	}
	op.Index = index
	return nil
}

// writeOutPoint encodes op to w.
func writeOutPoint(w io.Writer, op *OutPoint) error {
	if err := writeHash(w, &op.Hash); err != nil {
		return err
	}
	return writeUint32(w, op.Index)
}

// readTxIn reads the next sequence of bytes from r as a transaction input.
func readTxIn(r io.Reader, ti *TxIn) error {
	if err := readOutPoint(r, &ti.PreviousOutPoint); err != nil {
		return fmt.Errorf("reading prevout: %w", err)
	}

	script, err := ReadVarBytes(r, MaxScriptSize, "transaction input signature script")
	if err != nil {
		return fmt.Errorf("reading scriptSig: %w", err)
	}
	ti.SignatureScript = script

	sequence, err := readUint32(r, "sequence")
	if err != nil {
		return fmt.Errorf("reading sequence: %w", err)
	}
	ti.Sequence = sequence
	return nil
}

// writeTxIn encodes ti to w.
func writeTxIn(w io.Writer, ti *TxIn) error {
	if err := writeOutPoint(w, &ti.PreviousOutPoint); err != nil {
		return err
	}
	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return writeUint32(w, ti.Sequence)
}

// readTxOut reads the next sequence of bytes from r as a transaction output.
func readTxOut(r io.Reader, to *TxOut) error {
	value, err := readUint64(r, "value")
	if err != nil {
		return fmt.Errorf("reading value: %w", err)
	}
	to.Value = value

	script, err := ReadVarBytes(r, MaxScriptSize, "transaction output public key script")
	if err != nil {
		return fmt.Errorf("reading scriptPubKey: %w", err)
	}
	to.PkScript = script
	return nil
}

// writeTxOut encodes to to w.
func writeTxOut(w io.Writer, to *TxOut) error {
	if err := writeUint64(w, to.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}

// cloneBytes returns a copy of b, keeping nil as nil.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
