package script

import (
	"bytes"
	"encoding/hex"
	"testing"

	btcchaincfg "github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcutil"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/crypto"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// testKeys returns n compressed public keys for private keys 1..n.
func testKeys(t *testing.T, n int) [][]byte {
	keys := make([][]byte, n)
	for i := range keys {
		priv := make([]byte, 32)
		priv[31] = byte(i + 1)
		key, err := crypto.PrivateKeyFromBytes(priv)
		require.NoError(t, err)
		keys[i] = key.PublicKey().SerializeCompressed()
	}
	return keys
}

func TestClassify(t *testing.T) {
	hash := bytes.Repeat([]byte{0xab}, HashSize)
	p2pkh, err := PayToPubKeyHashScript(hash)
	require.NoError(t, err)
	p2sh, err := PayToScriptHashScript(hash)
	require.NoError(t, err)

	require.Equal(t, "76a914"+hex.EncodeToString(hash)+"88ac", hex.EncodeToString(p2pkh))
	require.Equal(t, "a914"+hex.EncodeToString(hash)+"87", hex.EncodeToString(p2sh))

	tests := []struct {
		script []byte
		class  ScriptClass
	}{
		{p2pkh, PubKeyHashTy},
		{p2sh, ScriptHashTy},
		{nil, NonStandardTy},
		{p2pkh[:24], NonStandardTy},
		{append(append([]byte{}, p2sh...), OP_EQUAL), NonStandardTy},
		{[]byte{OP_RETURN, 0x01, 0x02}, NonStandardTy},
	}
	for _, test := range tests {
		require.Equal(t, test.class, Classify(test.script), hex.EncodeToString(test.script))
	}

	class, got := ExtractHash(p2pkh)
	require.Equal(t, PubKeyHashTy, class)
	require.Equal(t, hash, got)
	class, got = ExtractHash(p2sh)
	require.Equal(t, ScriptHashTy, class)
	require.Equal(t, hash, got)

	_, err = PayToPubKeyHashScript(hash[:19])
	require.ErrorIs(t, err, ErrInvalidHashLength)

	require.Equal(t, "pubkeyhash", PubKeyHashTy.String())
	require.Equal(t, "Invalid", ScriptClass(9).String())
}

// TestClassifyMatchesBtcd compares classification with btcd's txscript.
func TestClassifyMatchesBtcd(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hash := rapid.SliceOfN(rapid.Byte(), HashSize, HashSize).Draw(t, "hash")
		p2pkh, err := PayToPubKeyHashScript(hash)
		require.NoError(t, err)
		p2sh, err := PayToScriptHashScript(hash)
		require.NoError(t, err)

		require.Equal(t, txscript.PubKeyHashTy, txscript.GetScriptClass(p2pkh))
		require.Equal(t, txscript.ScriptHashTy, txscript.GetScriptClass(p2sh))

		random := rapid.SliceOfN(rapid.Byte(), 0, 30).Draw(t, "script")
		switch Classify(random) {
		case PubKeyHashTy:
			require.Equal(t, txscript.PubKeyHashTy, txscript.GetScriptClass(random))
		case ScriptHashTy:
			require.Equal(t, txscript.ScriptHashTy, txscript.GetScriptClass(random))
		}
	})
}

func TestPushData(t *testing.T) {
	tests := []struct {
		n      int
		prefix string
	}{
		{0, "00"},
		{1, "01"},
		{75, "4b"},
		{76, "4c4c"},
		{255, "4cff"},
		{256, "4d0001"},
		{65535, "4dffff"},
		{65536, "4e00000100"},
	}
	for _, test := range tests {
		data := bytes.Repeat([]byte{0x42}, test.n)
		push := PushData(data)
		prefix := mustHex(t, test.prefix)
		require.Equal(t, prefix, push[:len(prefix)], "n=%d", test.n)
		require.Equal(t, data, push[len(prefix):])

		if test.n == 0 || test.n > MaxScriptSize {
			continue
		}
		tok := MakeTokenizer(push)
		require.True(t, tok.Next())
		require.Equal(t, data, tok.Data())
		require.False(t, tok.Next())
		require.NoError(t, tok.Err())
	}

	// Pushes of two or more bytes are what btcd would emit too.
	for _, n := range []int{2, 20, 33, 75, 76, 255, 256, 520} {
		data := bytes.Repeat([]byte{0x42}, n)
		want, err := txscript.NewScriptBuilder().AddData(data).Script()
		require.NoError(t, err)
		require.Equal(t, want, PushData(data), "n=%d", n)
	}
}

func TestTokenizerMalformed(t *testing.T) {
	for _, s := range []string{"05010203", "4c", "4c05ff", "4d01", "4e010000", "4e02000000ff"} {
		tok := MakeTokenizer(mustHex(t, s))
		for tok.Next() {
		}
		require.ErrorIs(t, tok.Err(), ErrMalformedPush, s)
	}
}

func TestBuilderScriptTooLong(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < MaxScriptSize; i++ {
		b.AddOp(OP_TRUE)
	}
	_, err := b.Script()
	require.NoError(t, err)

	_, err = b.AddOp(OP_TRUE).Script()
	require.ErrorIs(t, err, ErrScriptTooLong)
}

func TestDisasmString(t *testing.T) {
	hash := bytes.Repeat([]byte{0x01}, HashSize)
	p2pkh, err := PayToPubKeyHashScript(hash)
	require.NoError(t, err)

	s, err := DisasmString(p2pkh)
	require.NoError(t, err)
	require.Equal(t, "OP_DUP OP_HASH160 "+hex.EncodeToString(hash)+
		" OP_EQUALVERIFY OP_CHECKSIG", s)

	s, err = DisasmString([]byte{OP_0, 0x52, 0xb0})
	require.NoError(t, err)
	require.Equal(t, "OP_0 OP_2 OP_UNKNOWN176", s)

	_, err = DisasmString([]byte{0x02, 0x01})
	require.ErrorIs(t, err, ErrMalformedPush)
}

func TestMultiSigRedeemScript(t *testing.T) {
	keys := testKeys(t, 3)
	ms, err := NewMultiSigRedeemScript(2, keys)
	require.NoError(t, err)
	require.Equal(t, 2, ms.MinSigs())
	require.Equal(t, keys, ms.PubKeys())
	require.Equal(t, 1, ms.KeyIndex(keys[1]))
	require.Equal(t, -1, ms.KeyIndex([]byte{1}))

	script := ms.Script()
	require.Equal(t, byte(OP_1+1), script[0])
	require.Equal(t, byte(OP_CHECKMULTISIG), script[len(script)-1])
	require.Equal(t, 1+3*34+2, len(script))

	parsed, err := ParseMultiSigRedeemScript(script)
	require.NoError(t, err)
	require.Equal(t, ms, parsed)

	// btcd builds the same script from the same keys.
	var addrs []*btcutil.AddressPubKey
	for _, key := range keys {
		addr, err := btcutil.NewAddressPubKey(key, &btcchaincfg.MainNetParams)
		require.NoError(t, err)
		addrs = append(addrs, addr)
	}
	want, err := txscript.MultiSigScript(addrs, 2)
	require.NoError(t, err)
	require.Equal(t, want, script)

	class, _, nReq, err := txscript.ExtractPkScriptAddrs(script, &btcchaincfg.MainNetParams)
	require.NoError(t, err)
	require.Equal(t, txscript.MultiSigTy, class)
	require.Equal(t, 2, nReq)

	// P2SH address matches btcutil's.
	p2shAddr, err := btcutil.NewAddressScriptHash(script, &btcchaincfg.MainNetParams)
	require.NoError(t, err)
	require.Equal(t, p2shAddr.EncodeAddress(), ms.Address(&chaincfg.MainNetParams))
	require.Equal(t, ScriptClass(ScriptHashTy), Classify(ms.PayToScript()))
}

func TestMultiSigParams(t *testing.T) {
	keys := testKeys(t, 17)

	_, err := NewMultiSigRedeemScript(0, keys[:3])
	require.ErrorIs(t, err, ErrMalformedRedeemScript)
	_, err = NewMultiSigRedeemScript(4, keys[:3])
	require.ErrorIs(t, err, ErrMalformedRedeemScript)
	_, err = NewMultiSigRedeemScript(1, keys)
	require.ErrorIs(t, err, ErrMalformedRedeemScript)
	_, err = NewMultiSigRedeemScript(1, nil)
	require.ErrorIs(t, err, ErrMalformedRedeemScript)
	_, err = NewMultiSigRedeemScript(1, [][]byte{bytes.Repeat([]byte{2}, 76)})
	require.ErrorIs(t, err, ErrMalformedRedeemScript)

	ms, err := NewMultiSigRedeemScript(16, keys[:16])
	require.NoError(t, err)
	parsed, err := ParseMultiSigRedeemScript(ms.Script())
	require.NoError(t, err)
	require.Equal(t, 16, parsed.MinSigs())
}

func TestParseMultiSigMalformed(t *testing.T) {
	keys := testKeys(t, 2)
	good, err := NewMultiSigRedeemScript(1, keys)
	require.NoError(t, err)
	script := good.Script()

	withN := func(n byte) []byte {
		s := append([]byte{}, script...)
		s[len(s)-2] = n
		return s
	}
	withM := func(m byte) []byte {
		s := append([]byte{}, script...)
		s[0] = m
		return s
	}

	tests := map[string][]byte{
		"empty":              nil,
		"no OP_m":            script[1:],
		"OP_n mismatch":      withN(OP_1 + 2),
		"m greater than n":   withM(OP_1 + 2),
		"missing checkmulti": script[:len(script)-1],
		"trailing bytes":     append(append([]byte{}, script...), OP_TRUE),
		"wrong terminator":   append(append([]byte{}, script[:len(script)-1]...), OP_CHECKSIG),
		"truncated key":      script[:10],
		"pushdata key":       append([]byte{OP_1, OP_PUSHDATA1, 1, 2}, OP_1, OP_CHECKMULTISIG),
	}
	for name, s := range tests {
		_, err := ParseMultiSigRedeemScript(s)
		require.ErrorIs(t, err, ErrMalformedRedeemScript, name)
	}
}

func TestAddresses(t *testing.T) {
	key := testKeys(t, 1)[0]
	require.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
		PubKeyHashAddress(key, &chaincfg.MainNetParams))

	for _, params := range []*chaincfg.Params{&chaincfg.MainNetParams, &chaincfg.TestNet3Params} {
		addr := PubKeyHashAddress(key, params)
		script, err := ScriptFromAddress(addr, params)
		require.NoError(t, err)
		require.Equal(t, PubKeyHashTy, Classify(script))

		back, err := AddressFromScript(script, params)
		require.NoError(t, err)
		require.Equal(t, addr, back)

		p2sh := ScriptHashAddress([]byte{OP_TRUE}, params)
		script, err = ScriptFromAddress(p2sh, params)
		require.NoError(t, err)
		require.Equal(t, ScriptHashTy, Classify(script))
	}

	// A testnet address is not a mainnet address.
	testAddr := PubKeyHashAddress(key, &chaincfg.TestNet3Params)
	_, err := ScriptFromAddress(testAddr, &chaincfg.MainNetParams)
	require.ErrorIs(t, err, ErrUnsupportedAddress)

	_, err = ScriptFromAddress("1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMh", &chaincfg.MainNetParams)
	require.ErrorIs(t, err, ErrUnsupportedAddress)
	require.ErrorIs(t, err, crypto.ErrChecksum)

	_, err = AddressFromScript([]byte{OP_RETURN}, &chaincfg.MainNetParams)
	require.ErrorIs(t, err, ErrNonStandard)

	// btcutil agrees on the testnet encoding.
	decoded, err := btcutil.DecodeAddress(testAddr, &btcchaincfg.TestNet3Params)
	require.NoError(t, err)
	require.Equal(t, crypto.Hash160(key), decoded.ScriptAddress())
}

func TestErrorCodeStringer(t *testing.T) {
	for code := ErrorCode(0); code < numErrorCodes; code++ {
		require.NotContains(t, code.String(), "Unknown")
	}
	require.Contains(t, numErrorCodes.String(), "Unknown")
}
