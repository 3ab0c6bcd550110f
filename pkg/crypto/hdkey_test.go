package crypto

import (
	"testing"

	btcchaincfg "github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil/hdkeychain"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/stretchr/testify/require"
)

// BIP32 test vector 1 seed.
const vector1Seed = "000102030405060708090a0b0c0d0e0f"

var vector1Path = []uint32{
	HardenedKeyStart + 0,
	1,
	HardenedKeyStart + 2,
	2,
	1000000000,
}

func TestExtendedKeyMatchesHDKeychain(t *testing.T) {
	seed := mustHex(t, vector1Seed)

	ours, err := NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	ref, err := hdkeychain.NewMaster(seed, &btcchaincfg.MainNetParams)
	require.NoError(t, err)

	require.Equal(t, ref.String(), ours.String())
	require.Equal(t,
		"xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi",
		ours.String())

	for _, index := range vector1Path {
		ours, err = ours.Child(index)
		require.NoError(t, err)
		ref, err = ref.Child(index)
		require.NoError(t, err)

		require.Equal(t, ref.String(), ours.String())

		refPub, err := ref.Neuter()
		require.NoError(t, err)
		require.Equal(t, refPub.String(), ours.Neuter().String())
	}
	require.Equal(t, uint8(len(vector1Path)), ours.Depth())
	require.Equal(t, uint32(1000000000), ours.ChildIndex())
}

func TestPublicDerivationMatchesPrivate(t *testing.T) {
	seed := mustHex(t, vector1Seed)
	master, err := NewMaster(seed, &chaincfg.TestNet3Params)
	require.NoError(t, err)

	account, err := master.DerivePath("m/44'/1'/0'")
	require.NoError(t, err)

	privChild, err := account.DerivePath("0/7")
	require.NoError(t, err)
	pubChild, err := account.Neuter().DerivePath("0/7")
	require.NoError(t, err)

	require.Equal(t, privChild.Neuter().String(), pubChild.String())

	privKey, err := privChild.ECPrivKey()
	require.NoError(t, err)
	pubKey, err := pubChild.ECPubKey()
	require.NoError(t, err)
	require.True(t, privKey.PublicKey().IsEqual(pubKey))

	_, err = pubChild.ECPrivKey()
	require.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestHardenedFromPublicFails(t *testing.T) {
	master, err := NewMaster(mustHex(t, vector1Seed), &chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = master.Neuter().Child(HardenedKeyStart)
	require.ErrorIs(t, err, ErrDeriveHardFromPublic)
}

func TestParseExtendedKey(t *testing.T) {
	master, err := NewMaster(mustHex(t, vector1Seed), &chaincfg.MainNetParams)
	require.NoError(t, err)
	child, err := master.DerivePath("m/0h/1")
	require.NoError(t, err)

	for _, key := range []*ExtendedKey{master, child, child.Neuter()} {
		parsed, err := ParseExtendedKey(key.String(), &chaincfg.MainNetParams)
		require.NoError(t, err)
		require.Equal(t, key.String(), parsed.String())
		require.Equal(t, key.IsPrivate(), parsed.IsPrivate())
		require.Equal(t, key.ParentFingerprint(), parsed.ParentFingerprint())
		require.Equal(t, key.ChainCode(), parsed.ChainCode())
	}

	_, err = ParseExtendedKey(master.String(), &chaincfg.TestNet3Params)
	require.ErrorIs(t, err, ErrWrongNetwork)
}

func TestSeedLength(t *testing.T) {
	_, err := NewMaster(make([]byte, MinSeedBytes-1), &chaincfg.MainNetParams)
	require.ErrorIs(t, err, ErrInvalidSeedLen)

	_, err = NewMaster(make([]byte, MaxSeedBytes+1), &chaincfg.MainNetParams)
	require.ErrorIs(t, err, ErrInvalidSeedLen)

	seed, err := GenerateSeed(RecommendedSeedLen)
	require.NoError(t, err)
	require.Len(t, seed, RecommendedSeedLen)

	_, err = GenerateSeed(8)
	require.ErrorIs(t, err, ErrInvalidSeedLen)
}

func TestDerivePathErrors(t *testing.T) {
	master, err := NewMaster(mustHex(t, vector1Seed), &chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = master.DerivePath("m/x")
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = master.DerivePath("m/2147483648")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDeriveBeyondMaxDepth(t *testing.T) {
	key, err := NewMaster(make([]byte, MinSeedBytes), &chaincfg.MainNetParams)
	require.NoError(t, err)

	for i := 0; i < 255; i++ {
		key, err = key.Child(0)
		require.NoError(t, err)
	}
	require.Equal(t, uint8(255), key.Depth())

	_, err = key.Child(0)
	require.ErrorIs(t, err, ErrDeriveBeyondMaxDepth)

	// A public node at the limit fails the same way.
	_, err = key.Neuter().Child(1)
	require.ErrorIs(t, err, ErrDeriveBeyondMaxDepth)
}
