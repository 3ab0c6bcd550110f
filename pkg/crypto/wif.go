package crypto

import (
	"fmt"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
)

// compressMagic marks a WIF key whose public key is used in compressed form.
const compressMagic byte = 0x01

// EncodeWIF encodes a private key in Wallet Import Format:
// version_byte || private_key (32 bytes) || [0x01] || checksum (4 bytes).
func EncodeWIF(key *PrivateKey, compressed bool, params *chaincfg.Params) string {
	payload := key.Bytes()
	if compressed {
		payload = append(payload, compressMagic)
	}
	return CheckEncode(payload, params.PrivateKeyID)
}

// DecodeWIF parses a WIF string for the given network and reports whether the
// key asks for a compressed public key.
func DecodeWIF(wif string, params *chaincfg.Params) (*PrivateKey, bool, error) {
	payload, version, err := CheckDecode(wif, 1)
	if err != nil {
		return nil, false, err
	}

	if version[0] != params.PrivateKeyID {
		return nil, false, makeError(ErrWrongNetwork, "DecodeWIF",
			fmt.Sprintf("invalid WIF version byte 0x%02x for %s",
				version[0], params.Name))
	}

	compressed := false
	switch {
	case len(payload) == PrivKeyBytesLen:
	case len(payload) == PrivKeyBytesLen+1 && payload[PrivKeyBytesLen] == compressMagic:
		compressed = true
	default:
		return nil, false, makeError(ErrInvalidFormat, "DecodeWIF",
			"invalid WIF length")
	}

	key, err := PrivateKeyFromBytes(payload[:PrivKeyBytesLen])
	if err != nil {
		return nil, false, err
	}
	return key, compressed, nil
}
