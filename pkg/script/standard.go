package script

import (
	"fmt"
)

// HashSize is the length of the hash160 committed to by standard scripts.
const HashSize = 20

// ScriptClass is an enumeration for the list of standard output script
// patterns this package can spend.
type ScriptClass byte

// Classes of script payment known about in the blockchain.
const (
	NonStandardTy ScriptClass = iota // None of the recognized forms.
	PubKeyHashTy                     // Pay pubkey hash.
	ScriptHashTy                     // Pay to script hash.
)

// scriptClassToName houses the human-readable strings which describe each
// script class.
var scriptClassToName = []string{
	NonStandardTy: "nonstandard",
	PubKeyHashTy:  "pubkeyhash",
	ScriptHashTy:  "scripthash",
}

// String implements the Stringer interface by returning the name of
// the enum script class. If the enum is invalid then "Invalid" will be
// returned.
func (t ScriptClass) String() string {
	if int(t) >= len(scriptClassToName) {
		return "Invalid"
	}
	return scriptClassToName[t]
}

// isPubKeyHash reports whether script is exactly
// OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
func isPubKeyHash(script []byte) bool {
	return len(script) == 25 &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH160 &&
		script[2] == OP_DATA_20 &&
		script[23] == OP_EQUALVERIFY &&
		script[24] == OP_CHECKSIG
}

// isScriptHash reports whether script is exactly
// OP_HASH160 <20 bytes> OP_EQUAL.
func isScriptHash(script []byte) bool {
	return len(script) == 23 &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL
}

// Classify returns the class of an output script by exact byte pattern.
// Anything other than the two canonical templates is NonStandardTy.
func Classify(script []byte) ScriptClass {
	switch {
	case isPubKeyHash(script):
		return PubKeyHashTy
	case isScriptHash(script):
		return ScriptHashTy
	default:
		return NonStandardTy
	}
}

// ExtractHash returns the class of script and the 20-byte hash it commits
// to. Non-standard scripts return a nil hash.
func ExtractHash(script []byte) (ScriptClass, []byte) {
	switch Classify(script) {
	case PubKeyHashTy:
		return PubKeyHashTy, script[3:23]
	case ScriptHashTy:
		return ScriptHashTy, script[2:22]
	default:
		return NonStandardTy, nil
	}
}

func checkHashLen(hash []byte) error {
	if len(hash) != HashSize {
		return scriptError(ErrInvalidHashLength, fmt.Sprintf("hash is %d "+
			"bytes, want %d", len(hash), HashSize))
	}
	return nil
}

// PayToPubKeyHashScript creates a new script to pay a transaction output to
// a 20-byte pubkey hash.
func PayToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	if err := checkHashLen(pubKeyHash); err != nil {
		return nil, err
	}
	return NewBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(pubKeyHash).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).
		Script()
}

// PayToScriptHashScript creates a new script to pay a transaction output to
// a script hash.
func PayToScriptHashScript(scriptHash []byte) ([]byte, error) {
	if err := checkHashLen(scriptHash); err != nil {
		return nil, err
	}
	return NewBuilder().AddOp(OP_HASH160).AddData(scriptHash).
		AddOp(OP_EQUAL).Script()
}

// PubKeyHashSignatureScript returns the input script that spends a
// pay-to-pubkey-hash output: <sig> <pubkey>.
func PubKeyHashSignatureScript(sig, pubKey []byte) ([]byte, error) {
	return NewBuilder().AddData(sig).AddData(pubKey).Script()
}

// PushedData returns every data push of script in order.
func PushedData(script []byte) ([][]byte, error) {
	var data [][]byte
	t := MakeTokenizer(script)
	for t.Next() {
		if t.Data() != nil {
			data = append(data, t.Data())
		}
	}
	return data, t.Err()
}
