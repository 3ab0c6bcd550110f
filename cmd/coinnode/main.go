// coinnode is a command line front end to the protocol core: it decodes
// wire messages, builds and checks merkle proofs, derives HD keys and
// parses payment requests.
//
// Example usage:
//
//	# Decode a message envelope
//	coinnode decode f9beb4d976657261636b000000000000000000005df6e0e2
//
//	# Root and proof for a block's transactions, matching the second one
//	coinnode merkle --match 1 <txid> <txid> <txid>
//
//	# Derive a testnet key
//	coinnode --network testnet3 hdkey --seed 000102030405060708090a0b0c0d0e0f --path "m/0'/1"
//
//	# Parse a payment request
//	coinnode parse-uri "bitcoin:1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH?amount=1.5"
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/ciphrex/mSIGNA-sub003/pkg/api"
	"github.com/ciphrex/mSIGNA-sub003/pkg/bip21"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/ciphrex/mSIGNA-sub003/pkg/crypto"
	"github.com/ciphrex/mSIGNA-sub003/pkg/merkle"
	"github.com/ciphrex/mSIGNA-sub003/pkg/script"
	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/jessevdk/go-flags"
)

const appVersion = "0.1.0"

var cfg config

func main() {
	parser := flags.NewParser(&cfg, flags.Default)

	commands := []struct {
		name, short, long string
		data              flags.Commander
	}{
		{"decode", "Decode a wire message", "Decode one hex encoded " +
			"message envelope and payload and dump its fields", &decodeCommand{}},
		{"merkle", "Compute a merkle root and proof", "Compute the " +
			"merkle root of the given transaction ids and a partial " +
			"merkle proof of the matched ones", &merkleCommand{}},
		{"hdkey", "Derive an HD key", "Derive a BIP 32 extended key " +
			"from a hex seed along a path", &hdKeyCommand{}},
		{"parse-uri", "Parse a payment request", "Parse a BIP 21 " +
			"bitcoin: URI and show the output it pays", &parseURICommand{}},
		{"version", "Show version information", "Show version " +
			"information", &versionCommand{}},
	}
	for _, c := range commands {
		_, err := parser.AddCommand(c.name, c.short, c.long, c.data)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	_, err := parser.Parse()
	cfg.close()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// decodeCommand decodes a single message.
type decodeCommand struct{}

func (x *decodeCommand) Execute(args []string) error {
	if err := cfg.load(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("expected one hex encoded message")
	}
	buf, err := hex.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}

	hdr, msg, err := api.DecodeMessage(buf)
	if err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	if hdr.Magic != cfg.params.Net {
		cmndLog.Warnf("Message magic %v is not %s", hdr.Magic,
			cfg.params.Name)
	}

	payloadHash, err := wire.PayloadHash(msg)
	if err != nil {
		return err
	}

	fmt.Printf("Command:  %s\n", hdr.Command)
	fmt.Printf("Magic:    %v\n", hdr.Magic)
	fmt.Printf("Length:   %d\n", hdr.Length)
	switch {
	case !hdr.HasChecksum:
		fmt.Println("Checksum: (none)")
	case hdr.ChecksumValid:
		fmt.Printf("Checksum: %x (valid)\n", hdr.Checksum)
	default:
		fmt.Printf("Checksum: %x (MISMATCH)\n", hdr.Checksum)
	}
	fmt.Printf("Hash:     %v\n\n", payloadHash)
	spew.Dump(msg)
	return nil
}

// merkleCommand builds a partial merkle tree and checks that it parses
// back to the same root.
type merkleCommand struct {
	Match string `long:"match" description:"Comma separated indices of the transactions to prove"`
}

func (x *merkleCommand) Execute(args []string) error {
	if err := cfg.load(); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("expected at least one transaction id")
	}

	leaves := make([]merkle.Leaf, len(args))
	hashes := make([]chainhash.Hash, len(args))
	for i, arg := range args {
		h, err := chainhash.NewHashFromStr(arg)
		if err != nil {
			return fmt.Errorf("transaction id %d: %w", i, err)
		}
		hashes[i] = *h
		leaves[i].Hash = *h
	}
	if x.Match != "" {
		for _, field := range strings.Split(x.Match, ",") {
			idx, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
			if err != nil || idx >= uint64(len(leaves)) {
				return fmt.Errorf("invalid match index %q", field)
			}
			leaves[idx].Matched = true
		}
	}

	root := merkle.BuildFull(hashes)
	tree := merkle.NewPartialTree(leaves)

	// The proof must verify on its own before it is shown.
	parsed, err := merkle.ParseCompressed(tree.NumTxs(), tree.Hashes(),
		tree.Flags(), &root)
	if err != nil {
		return fmt.Errorf("proof does not verify: %w", err)
	}

	fmt.Printf("Root:   %v\n", root)
	fmt.Printf("Depth:  %d\n", tree.Depth())
	fmt.Printf("Flags:  %x\n", tree.Flags())
	fmt.Println("Hashes:")
	for _, h := range tree.Hashes() {
		fmt.Printf("  %v\n", h)
	}
	fmt.Println("Matched:")
	matched := parsed.MatchedHashes()
	for i, idx := range parsed.MatchedIndices() {
		fmt.Printf("  %d %v\n", idx, matched[i])
	}
	return nil
}

// hdKeyCommand derives an extended key.
type hdKeyCommand struct {
	Seed string `long:"seed" description:"Hex encoded seed of 16 to 64 bytes" required:"true"`
	Path string `long:"path" description:"Derivation path such as m/0'/1" default:"m"`
}

func (x *hdKeyCommand) Execute(args []string) error {
	if err := cfg.load(); err != nil {
		return err
	}
	seed, err := hex.DecodeString(x.Seed)
	if err != nil {
		return fmt.Errorf("invalid seed: %w", err)
	}

	master, err := crypto.NewMaster(seed, cfg.params)
	if err != nil {
		return fmt.Errorf("failed to create master key: %w", err)
	}
	key, err := master.DerivePath(x.Path)
	if err != nil {
		return fmt.Errorf("failed to derive %s: %w", x.Path, err)
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return err
	}
	pubKey := priv.PublicKey().SerializeCompressed()

	fmt.Printf("Path:    %s\n", x.Path)
	fmt.Printf("Depth:   %d\n", key.Depth())
	fmt.Printf("xprv:    %s\n", key)
	fmt.Printf("xpub:    %s\n", key.Neuter())
	fmt.Printf("WIF:     %s\n", crypto.EncodeWIF(priv, true, cfg.params))
	fmt.Printf("PubKey:  %x\n", pubKey)
	fmt.Printf("Address: %s\n", script.PubKeyHashAddress(pubKey, cfg.params))
	return nil
}

// parseURICommand shows a payment request.
type parseURICommand struct{}

func (x *parseURICommand) Execute(args []string) error {
	if err := cfg.load(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("expected one URI")
	}

	req, err := api.ParsePaymentRequest(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse URI: %w", err)
	}

	fmt.Println("Payment Request:")
	fmt.Printf("  Address: %s\n", req.Address)
	if req.Amount != nil {
		fmt.Printf("  Amount:  %s BTC (%v)\n", bip21.FormatAmount(*req.Amount),
			btcutil.Amount(*req.Amount))
	} else {
		fmt.Println("  Amount:  (user specified)")
	}
	if req.Label != nil {
		fmt.Printf("  Label:   %s\n", *req.Label)
	}
	if req.Message != nil {
		fmt.Printf("  Message: %s\n", *req.Message)
	}
	for k, v := range req.Extra {
		fmt.Printf("  %s: %s\n", k, v)
	}

	if req.Amount != nil {
		out, err := req.Output(cfg.params)
		if err != nil {
			return fmt.Errorf("cannot pay request on %s: %w",
				cfg.params.Name, err)
		}
		fmt.Printf("  Script:  %x\n", out.PkScript)
	}

	fmt.Printf("\nRe-encoded URI:\n%s\n", req.Encode())
	return nil
}

type versionCommand struct{}

func (x *versionCommand) Execute(args []string) error {
	fmt.Printf("coinnode v%s\n", appVersion)
	fmt.Printf("Protocol version %d\n", wire.ProtocolVersion)
	return nil
}
