// Package chaincfg defines the network parameters that the codec, address
// encoder and transaction builder are configured with.
//
// Nothing in this module reads process-wide network state: every function that
// needs an address version byte, a message magic or an HD key prefix takes a
// *Params explicitly. Two goroutines can therefore encode mainnet and testnet
// addresses at the same time without coordinating.
package chaincfg

import (
	"errors"
	"strings"

	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
)

// ErrUnknownNet is returned by ParamsForName for unrecognized network names.
var ErrUnknownNet = errors.New("unknown network")

// Params groups everything that differs between networks.
type Params struct {
	// Name is a human-readable identifier for the network.
	Name string

	// Net is the magic value that starts every message envelope.
	Net wire.BitcoinNet

	// DefaultPort is the default peer-to-peer port.
	DefaultPort string

	// ProtocolVersion is advertised in outbound version messages.
	ProtocolVersion uint32

	// Address encoding version bytes.
	PubKeyHashAddrID byte // P2PKH address prefix
	ScriptHashAddrID byte // P2SH address prefix
	PrivateKeyID     byte // WIF prefix

	// BIP32 extended key prefixes.
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte

	// HDCoinType is the BIP44 coin type.
	HDCoinType uint32
}

// MainNetParams are the parameters for the main network.
var MainNetParams = Params{
	Name:             "mainnet",
	Net:              wire.MainNet,
	DefaultPort:      "8333",
	ProtocolVersion:  wire.ProtocolVersion,
	PubKeyHashAddrID: 0x00, // starts with 1
	ScriptHashAddrID: 0x05, // starts with 3
	PrivateKeyID:     0x80, // starts with 5 (uncompressed) or K/L (compressed)
	HDPrivateKeyID:   [4]byte{0x04, 0x88, 0xad, 0xe4}, // xprv
	HDPublicKeyID:    [4]byte{0x04, 0x88, 0xb2, 0x1e}, // xpub
	HDCoinType:       0,
}

// TestNet3Params are the parameters for the version 3 test network.
var TestNet3Params = Params{
	Name:             "testnet3",
	Net:              wire.TestNet3,
	DefaultPort:      "18333",
	ProtocolVersion:  wire.ProtocolVersion,
	PubKeyHashAddrID: 0x6f, // starts with m or n
	ScriptHashAddrID: 0xc4, // starts with 2
	PrivateKeyID:     0xef, // starts with 9 (uncompressed) or c (compressed)
	HDPrivateKeyID:   [4]byte{0x04, 0x35, 0x83, 0x94}, // tprv
	HDPublicKeyID:    [4]byte{0x04, 0x35, 0x87, 0xcf}, // tpub
	HDCoinType:       1,
}

// RegressionNetParams are the parameters for the regression test network.
// Address prefixes are shared with testnet.
var RegressionNetParams = Params{
	Name:             "regtest",
	Net:              wire.TestNet,
	DefaultPort:      "18444",
	ProtocolVersion:  wire.ProtocolVersion,
	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,
	HDPrivateKeyID:   [4]byte{0x04, 0x35, 0x83, 0x94},
	HDPublicKeyID:    [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDCoinType:       1,
}

// ParamsForName returns the parameters registered under name. The lookup is
// case-insensitive and accepts "testnet" as an alias of "testnet3".
func ParamsForName(name string) (*Params, error) {
	switch strings.ToLower(name) {
	case "mainnet", "main":
		return &MainNetParams, nil
	case "testnet3", "testnet", "test":
		return &TestNet3Params, nil
	case "regtest", "regression":
		return &RegressionNetParams, nil
	}
	return nil, ErrUnknownNet
}
