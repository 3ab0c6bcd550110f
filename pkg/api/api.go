// Package api provides the byte-buffer entry points of the library.
//
// Transactions under construction travel between parties as the serialized
// builder state produced by builder.Serialized: the Edit mode transaction
// followed by the dependency transactions its inputs spend. Every function
// here takes and returns that buffer, so the signing workflow is:
//
//  1. ProposeTransaction - Creates the unsigned state from inputs and outputs
//  2. VerifyBeforeSigning - Validates the state before signing
//  3. GetSighash - Computes the signature hash of an input
//  4. AppendSignature / AppendExternalSignature - Adds a signature
//  5. Combine - Merges states signed by different parties
//  6. MissingSignatures - Reports what is still unsigned
//  7. FinalizeAndExtract - Produces the broadcastable transaction
//
// DecodeMessage and EncodeMessage frame peer-to-peer messages.
package api

import (
	"fmt"

	"github.com/ciphrex/mSIGNA-sub003/pkg/bip21"
	"github.com/ciphrex/mSIGNA-sub003/pkg/builder"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/ciphrex/mSIGNA-sub003/pkg/crypto"
	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
)

// Input represents an output to spend.
type Input struct {
	TxHash            chainhash.Hash // Hash of the dependency
	OutputIndex       uint32         // Output index
	KeyOrRedeemScript []byte         // Public key (P2PKH) or redeem script (P2SH)
	Sequence          *uint32        // Sequence number (nil = 0xFFFFFFFF)
}

// Output represents a payment. Exactly one of PkScript and Address is set.
type Output struct {
	Value    uint64 // Value in satoshis
	PkScript []byte // Locking script
	Address  string // Base58Check address
}

// TransactionProposal contains all inputs and outputs for a transaction.
type TransactionProposal struct {
	// Dependencies are the serialized transactions the inputs spend.
	Dependencies [][]byte

	Inputs  []Input
	Outputs []Output

	// PaymentURIs are BIP 21 requests paid after Outputs.
	PaymentURIs []string

	Version  *uint32 // Optional version (nil = 1)
	LockTime *uint32 // Optional nLockTime
}

// ============================================================================
// API Function 1: ProposeTransaction
// ============================================================================

// ProposeTransaction creates the unsigned builder state of a proposal.
func ProposeTransaction(params *chaincfg.Params, proposal *TransactionProposal) ([]byte, error) {
	b := builder.New(params)
	if proposal.Version != nil {
		b.SetVersion(*proposal.Version)
	}
	if proposal.LockTime != nil {
		b.SetLockTime(*proposal.LockTime)
	}

	for i, raw := range proposal.Dependencies {
		tx, err := wire.ParseTransaction(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse dependency %d: %w", i, err)
		}
		b.AddDependency(tx)
	}

	for i, input := range proposal.Inputs {
		sequence := wire.MaxTxInSequenceNum
		if input.Sequence != nil {
			sequence = *input.Sequence
		}
		err := b.AddInput(&input.TxHash, input.OutputIndex,
			input.KeyOrRedeemScript, sequence)
		if err != nil {
			return nil, fmt.Errorf("failed to add input %d: %w", i, err)
		}
	}

	for i, output := range proposal.Outputs {
		switch {
		case output.Address != "" && output.PkScript != nil:
			return nil, fmt.Errorf("output %d has both an address "+
				"and a script", i)
		case output.Address != "":
			if err := b.AddAddressOutput(output.Address, output.Value); err != nil {
				return nil, fmt.Errorf("failed to add output %d: %w", i, err)
			}
		default:
			b.AddOutput(output.Value, output.PkScript)
		}
	}

	for i, uri := range proposal.PaymentURIs {
		req, err := bip21.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("failed to parse payment URI %d: %w", i, err)
		}
		out, err := req.Output(params)
		if err != nil {
			return nil, fmt.Errorf("failed to pay URI %d: %w", i, err)
		}
		b.AddOutput(out.Value, out.PkScript)
	}

	return b.Serialized()
}

// ============================================================================
// API Function 2: VerifyBeforeSigning
// ============================================================================

// VerifyBeforeSigning validates a builder state before signing.
//
// This function checks:
//   - the state is well-formed and every signature in it verifies
//   - there is at least one input and one output
//   - the outputs do not spend more than the inputs provide
//
// Wallets should call this before presenting the transaction to the user
// for signing.
func VerifyBeforeSigning(params *chaincfg.Params, state []byte) error {
	b, err := builder.ParseSerialized(params, state)
	if err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}

	if b.NumInputs() == 0 {
		return fmt.Errorf("no inputs")
	}
	if b.NumOutputs() == 0 {
		return fmt.Errorf("no outputs")
	}
	if fee := b.Fee(); fee < 0 {
		return fmt.Errorf("outputs exceed inputs by %d satoshis", -fee)
	}

	return nil
}

// ============================================================================
// API Function 3: GetSighash
// ============================================================================

// GetSighash computes the signature hash pubKey signs for an input.
func GetSighash(params *chaincfg.Params, state []byte, inputIndex int,
	pubKey []byte, hashType builder.SigHashType) (chainhash.Hash, error) {

	b, err := builder.ParseSerialized(params, state)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("invalid state: %w", err)
	}
	in, err := b.Input(inputIndex)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("input index %d out of "+
			"bounds (have %d inputs): %w", inputIndex, b.NumInputs(), err)
	}
	if findKey(in, pubKey) == nil {
		return chainhash.Hash{}, fmt.Errorf("key %x does not sign "+
			"input %d: %w", pubKey, inputIndex, builder.ErrKeyMismatch)
	}

	return b.SignatureHash(inputIndex, hashType)
}

// findKey returns the form of pubKey the input uses, matching compressed
// and uncompressed encodings of one point.
func findKey(in builder.Input, pubKey []byte) []byte {
	want, err := crypto.ParsePublicKey(pubKey)
	if err != nil {
		return nil
	}
	for _, key := range in.PubKeys() {
		pub, err := crypto.ParsePublicKey(key)
		if err == nil && pub.IsEqual(want) && len(key) == len(pubKey) {
			return key
		}
	}
	return nil
}

// signingKey returns the key of in that privKey signs for.
func signingKey(in builder.Input, privKey *crypto.PrivateKey) []byte {
	pub := privKey.PublicKey()
	if key := findKey(in, pub.SerializeCompressed()); key != nil {
		return key
	}
	return findKey(in, pub.SerializeUncompressed())
}

// ============================================================================
// API Function 4: AppendSignature
// ============================================================================

// AppendSignature signs an input with privateKey and returns the updated
// state. Multiple parties can call this independently and merge their
// states with Combine.
func AppendSignature(params *chaincfg.Params, state []byte, inputIndex int,
	privateKey *crypto.PrivateKey, hashType builder.SigHashType) ([]byte, error) {

	b, err := builder.ParseSerialized(params, state)
	if err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	in, err := b.Input(inputIndex)
	if err != nil {
		return nil, fmt.Errorf("input index %d out of bounds (have %d "+
			"inputs): %w", inputIndex, b.NumInputs(), err)
	}

	key := signingKey(in, privateKey)
	if key == nil {
		return nil, fmt.Errorf("private key does not sign input %d: %w",
			inputIndex, builder.ErrKeyMismatch)
	}
	if err := b.Sign(inputIndex, key, privateKey, hashType); err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}

	return b.Serialized()
}

// AppendExternalSignature records a signature made elsewhere, such as on a
// hardware device: a DER signature followed by its hash type byte.
func AppendExternalSignature(params *chaincfg.Params, state []byte,
	inputIndex int, pubKey, sig []byte) ([]byte, error) {

	b, err := builder.ParseSerialized(params, state)
	if err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	if err := b.AddSignature(inputIndex, pubKey, sig); err != nil {
		return nil, fmt.Errorf("adding signature failed: %w", err)
	}
	return b.Serialized()
}

// ============================================================================
// API Function 5: Combine
// ============================================================================

// Combine merges builder states with partial signatures. All states must
// describe the same transaction.
func Combine(params *chaincfg.Params, states [][]byte) ([]byte, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("no states to combine")
	}

	builders := make([]*builder.Builder, len(states))
	for i, state := range states {
		b, err := builder.ParseSerialized(params, state)
		if err != nil {
			return nil, fmt.Errorf("invalid state %d: %w", i, err)
		}
		builders[i] = b
	}

	combined, err := builder.Combine(builders...)
	if err != nil {
		return nil, fmt.Errorf("combination failed: %w", err)
	}
	return combined.Serialized()
}

// ============================================================================
// API Function 6: MissingSignatures
// ============================================================================

// MissingSignatures reports, per input, the keys that have not signed and
// how many more signatures are needed.
func MissingSignatures(params *chaincfg.Params, state []byte) ([]builder.MissingSig, error) {
	b, err := builder.ParseSerialized(params, state)
	if err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	return b.MissingSigs(), nil
}

// ============================================================================
// API Function 7: FinalizeAndExtract
// ============================================================================

// FinalizeAndExtract renders the fully signed transaction, ready to
// broadcast. It fails with builder.ErrInsufficientSignatures while any input
// lacks signatures.
func FinalizeAndExtract(params *chaincfg.Params, state []byte) ([]byte, error) {
	b, err := builder.ParseSerialized(params, state)
	if err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}

	tx, err := b.Tx(builder.Broadcast)
	if err != nil {
		return nil, fmt.Errorf("transaction extraction failed: %w", err)
	}
	return tx.Bytes(), nil
}

// ============================================================================
// Messages
// ============================================================================

// DecodeMessage decodes one complete message envelope and payload. A
// checksum mismatch is reported in the header, not as an error.
func DecodeMessage(buf []byte) (*wire.MessageHeader, wire.Message, error) {
	return wire.DecodeMessage(buf)
}

// EncodeMessage frames msg for the network with a checksummed header.
func EncodeMessage(params *chaincfg.Params, msg wire.Message) ([]byte, error) {
	return wire.EncodeMessage(params.Net, msg)
}

// ============================================================================
// Helper functions
// ============================================================================

// ParsePaymentRequest parses a BIP 21 payment request URI.
func ParsePaymentRequest(uri string) (*bip21.PaymentRequest, error) {
	return bip21.Parse(uri)
}
