package script

import (
	"fmt"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/crypto"
)

// PubKeyHashAddress returns the pay-to-pubkey-hash address of a serialized
// public key. The key is hashed as given, so compressed and uncompressed
// forms of one key have different addresses.
func PubKeyHashAddress(pubKey []byte, params *chaincfg.Params) string {
	return crypto.CheckEncode(crypto.Hash160(pubKey), params.PubKeyHashAddrID)
}

// ScriptHashAddress returns the pay-to-script-hash address of a redeem
// script.
func ScriptHashAddress(redeemScript []byte, params *chaincfg.Params) string {
	return crypto.CheckEncode(crypto.Hash160(redeemScript), params.ScriptHashAddrID)
}

// AddressFromScript returns the address an output script pays to.
func AddressFromScript(script []byte, params *chaincfg.Params) (string, error) {
	class, hash := ExtractHash(script)
	switch class {
	case PubKeyHashTy:
		return crypto.CheckEncode(hash, params.PubKeyHashAddrID), nil
	case ScriptHashTy:
		return crypto.CheckEncode(hash, params.ScriptHashAddrID), nil
	default:
		return "", scriptError(ErrNonStandard, "script has no address form")
	}
}

// ScriptFromAddress returns the output script paying to addr. The version
// byte must be one of the network's two address ids.
func ScriptFromAddress(addr string, params *chaincfg.Params) ([]byte, error) {
	hash, version, err := crypto.CheckDecode(addr, 1)
	if err != nil {
		return nil, Error{
			Code:        ErrUnsupportedAddress,
			Description: fmt.Sprintf("decoding address %q", addr),
			Cause:       err,
		}
	}
	if len(hash) != HashSize {
		return nil, scriptError(ErrUnsupportedAddress, fmt.Sprintf("address "+
			"%q carries %d bytes, want %d", addr, len(hash), HashSize))
	}

	switch version[0] {
	case params.PubKeyHashAddrID:
		return PayToPubKeyHashScript(hash)
	case params.ScriptHashAddrID:
		return PayToScriptHashScript(hash)
	default:
		return nil, scriptError(ErrUnsupportedAddress, fmt.Sprintf("address "+
			"version %#02x is not used on %s", version[0], params.Name))
	}
}
