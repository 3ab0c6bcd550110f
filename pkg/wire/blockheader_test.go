package wire

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	btcchaincfg "github.com/btcsuite/btcd/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const genesisHash = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"

func genesisBlock(t *testing.T) *MsgBlock {
	var buf bytes.Buffer
	require.NoError(t, btcchaincfg.MainNetParams.GenesisBlock.Serialize(&buf))

	var block MsgBlock
	require.NoError(t, block.Deserialize(&buf))
	require.Zero(t, buf.Len())
	return &block
}

func TestGenesisBlock(t *testing.T) {
	block := genesisBlock(t)

	require.Equal(t, genesisHash, block.BlockHash().String())
	require.True(t, block.CheckMerkleRoot())
	require.Equal(t, uint32(0x1d00ffff), block.Header.Bits())
	require.Equal(t, int64(1231006505), block.Header.Timestamp().Unix())
	require.Equal(t, "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b",
		block.Header.MerkleRoot().String())
	require.Equal(t, block.Header.MerkleRoot(), block.Transactions[0].TxHash())

	// Genesis work is 2^256 / (0xffff * 2^208 + 1).
	require.Zero(t, big.NewInt(0x100010001).Cmp(block.Header.Work()))

	block.Transactions[0].SetLockTime(1)
	require.False(t, block.CheckMerkleRoot())
}

func TestBlockHeaderHashInvalidation(t *testing.T) {
	bh := genesisBlock(t).Header
	setters := []func(){
		func() { bh.SetVersion(2) },
		func() { bh.SetPrevBlock(testHash(1)) },
		func() { bh.SetMerkleRoot(testHash(2)) },
		func() { bh.SetTimestamp(time.Unix(1500000000, 0)) },
		func() { bh.SetBits(0x207fffff) },
		func() { bh.SetNonce(3) },
	}

	for i, set := range setters {
		before := bh.BlockHash()
		set()
		after := bh.BlockHash()
		require.NotEqual(t, before, after, "setter %d", i)
		require.Equal(t, chainhash.DoubleHashH(bh.Bytes()), after)
	}

	var decoded BlockHeader
	decoded.SetNonce(1)
	_ = decoded.BlockHash()
	require.NoError(t, decoded.Deserialize(bytes.NewReader(bh.Bytes())))
	require.Equal(t, bh.BlockHash(), decoded.BlockHash())
}

func TestCompactVectors(t *testing.T) {
	tests := []struct {
		compact uint32
		hex     string
	}{
		{0x1d00ffff, "ffff0000000000000000000000000000000000000000000000000000"},
		{0x207fffff, "7fffff0000000000000000000000000000000000000000000000000000000000"},
		{0x1b0404cb, "404cb000000000000000000000000000000000000000000000000"},
		{0x03123456, "123456"},
		{0x02123456, "1234"},
		{0x01123456, "12"},
	}

	for _, test := range tests {
		want, ok := new(big.Int).SetString(test.hex, 16)
		require.True(t, ok)
		require.Equal(t, 0, want.Cmp(CompactToBig(test.compact)), "%#x", test.compact)
	}

	require.Equal(t, uint32(0x1d00ffff), BigToCompact(CompactToBig(0x1d00ffff)))
	require.Equal(t, uint32(0), BigToCompact(big.NewInt(0)))
	require.Equal(t, int64(-0x12345600), CompactToBig(0x04923456).Int64())
	require.Zero(t, CalcWork(0).Sign())
}

// TestCompactMatchesBtcd compares the compact codec and work with btcd.
func TestCompactMatchesBtcd(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		compact := rapid.Uint32().Draw(t, "compact")
		require.Zero(t, blockchain.CompactToBig(compact).Cmp(CompactToBig(compact)))
		require.Zero(t, blockchain.CalcWork(compact).Cmp(CalcWork(compact)))

		n := new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 0, 32).Draw(t, "n"))
		if rapid.Bool().Draw(t, "negative") {
			n.Neg(n)
		}
		require.Equal(t, blockchain.BigToCompact(n), BigToCompact(n))
	})
}
