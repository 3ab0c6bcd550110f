package merkle

import (
	"encoding/binary"
	"testing"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcutil/bloom"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// leafHash returns a distinct hash for leaf i.
func leafHash(i int) chainhash.Hash {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(i))
	return chainhash.DoubleHashH(b[:])
}

func drawLeaves(t *rapid.T) []Leaf {
	n := rapid.IntRange(1, 70).Draw(t, "numTxs")
	leaves := make([]Leaf, n)
	for i := range leaves {
		leaves[i] = Leaf{
			Hash:    leafHash(i),
			Matched: rapid.Bool().Draw(t, "matched"),
		}
	}
	return leaves
}

func leafHashes(leaves []Leaf) []chainhash.Hash {
	hashes := make([]chainhash.Hash, len(leaves))
	for i := range leaves {
		hashes[i] = leaves[i].Hash
	}
	return hashes
}

func TestBuildFullSmall(t *testing.T) {
	require.Equal(t, chainhash.Hash{}, BuildFull(nil))

	a, b, c := leafHash(0), leafHash(1), leafHash(2)
	require.Equal(t, a, BuildFull([]chainhash.Hash{a}))

	ab := HashPair(&a, &b)
	require.Equal(t, ab, BuildFull([]chainhash.Hash{a, b}))

	// An odd level pairs its last node with itself.
	cc := HashPair(&c, &c)
	require.Equal(t, HashPair(&ab, &cc), BuildFull([]chainhash.Hash{a, b, c}))

	// Input is left untouched.
	in := []chainhash.Hash{a, b, c}
	BuildFull(in)
	require.Equal(t, []chainhash.Hash{a, b, c}, in)
}

// TestBuildFullBlock100000 checks the root of mainnet block 100000.
func TestBuildFullBlock100000(t *testing.T) {
	txids := []string{
		"8c14f0db3df150123e6f3dbbf30f8b955a8249b62ac1d1ff16284aefa3d06d87",
		"fff2525b8931402dd09222c50775608f75787bd2b87e56995a7bdd30f79702c4",
		"6359f0868171b1d194cbee1af2f16ea598ae8fad666d9b012c8ed2b79a236ec4",
		"e9a66845e05d5abc0ad04ec80f774a7e585c6e8db975962d069a522137b80c1d",
	}
	hashes := make([]chainhash.Hash, len(txids))
	for i, s := range txids {
		h, err := chainhash.NewHashFromStr(s)
		require.NoError(t, err)
		hashes[i] = *h
	}

	root := BuildFull(hashes)
	require.Equal(t,
		"f3e94742aca4b5ef85488dc37c06c3282295ffec960994b2c0d5ac2a25a95766",
		root.String())
}

func TestPartialTreeNoMatches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		leaves := drawLeaves(t)
		for i := range leaves {
			leaves[i].Matched = false
		}

		tree := NewPartialTree(leaves)
		require.Equal(t, []chainhash.Hash{BuildFull(leafHashes(leaves))}, tree.Hashes())
		require.Equal(t, []bool{false}, tree.FlagBits())
		require.Equal(t, []byte{0}, tree.Flags())
		require.Empty(t, tree.MatchedHashes())
	})
}

func TestPartialTreeAllMatched(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		leaves := drawLeaves(t)
		for i := range leaves {
			leaves[i].Matched = true
		}

		tree := NewPartialTree(leaves)
		require.Equal(t, leafHashes(leaves), tree.Hashes())
		require.Equal(t, leafHashes(leaves), tree.MatchedHashes())
		require.Equal(t, BuildFull(leafHashes(leaves)), tree.Root())
	})
}

func TestPartialTreeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		leaves := drawLeaves(t)
		tree := NewPartialTree(leaves)
		root := BuildFull(leafHashes(leaves))
		require.Equal(t, root, tree.Root())

		parsed, err := ParseCompressed(tree.NumTxs(), tree.Hashes(), tree.Flags(), &root)
		require.NoError(t, err)
		require.Equal(t, root, parsed.Root())
		require.Equal(t, tree.Depth(), parsed.Depth())
		require.Equal(t, tree.MatchedHashes(), parsed.MatchedHashes())
		require.Equal(t, tree.MatchedIndices(), parsed.MatchedIndices())
		require.Equal(t, tree.FlagBits(), parsed.FlagBits())

		var want []uint32
		for i := range leaves {
			if leaves[i].Matched {
				want = append(want, uint32(i))
			}
		}
		require.Equal(t, want, append([]uint32(nil), parsed.MatchedIndices()...))
	})
}

func TestPartialTreeSmallShapes(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7, 8, 9} {
		leaves := make([]Leaf, n)
		for i := range leaves {
			leaves[i] = Leaf{Hash: leafHash(i), Matched: i == n-1}
		}
		tree := NewPartialTree(leaves)
		root := BuildFull(leafHashes(leaves))

		parsed, err := ParseCompressed(uint32(n), tree.Hashes(), tree.Flags(), &root)
		require.NoError(t, err, "n=%d", n)
		require.Equal(t, []chainhash.Hash{leafHash(n - 1)}, parsed.MatchedHashes())
		require.Equal(t, []uint32{uint32(n - 1)}, parsed.MatchedIndices())
	}
}

func TestParseCompressedRejects(t *testing.T) {
	leaves := make([]Leaf, 5)
	for i := range leaves {
		leaves[i] = Leaf{Hash: leafHash(i), Matched: i == 1 || i == 4}
	}
	tree := NewPartialTree(leaves)
	root := tree.Root()
	hashes := tree.Hashes()
	flags := tree.Flags()

	tests := []struct {
		name   string
		numTxs uint32
		hashes []chainhash.Hash
		flags  []byte
		root   *chainhash.Hash
	}{
		{"no transactions", 0, nil, []byte{0}, nil},
		{"more hashes than txs", 1, hashes, flags, nil},
		{"missing hash", 5, hashes[:len(hashes)-1], flags, nil},
		{"extra hash", 5, append(hashes, leafHash(99)), append(flags, 0xff), nil},
		{"extra flag byte", 5, hashes, append(flags, 0), nil},
		{"no flags", 5, hashes, nil, nil},
		{"wrong root", 5, hashes, flags, &hashes[0]},
	}
	for _, test := range tests {
		_, err := ParseCompressed(test.numTxs, test.hashes, test.flags, test.root)
		require.ErrorIs(t, err, ErrInvalidProof, test.name)
	}

	_, err := ParseCompressed(5, hashes, flags, &root)
	require.NoError(t, err)
}

func TestParseCompressedDuplicateSiblings(t *testing.T) {
	// Two identical leaves fully expanded: the right sibling repeats the
	// left one.
	h := leafHash(0)
	leaves := []Leaf{{Hash: h, Matched: true}, {Hash: h, Matched: true}}
	tree := NewPartialTree(leaves)

	_, err := ParseCompressed(2, tree.Hashes(), tree.Flags(), nil)
	require.ErrorIs(t, err, ErrInvalidProof)
}

func TestIdenticalSiblingsBuildButDoNotParse(t *testing.T) {
	a, b := leafHash(1), leafHash(2)

	// Leaves 2 and 3 are siblings with the same hash.
	leaves := []Leaf{{Hash: a}, {Hash: b}, {Hash: a, Matched: true}, {Hash: a}}
	tree := NewPartialTree(leaves)
	require.Equal(t, BuildFull([]chainhash.Hash{a, b, a, a}), tree.Root())

	root := tree.Root()
	_, err := ParseCompressed(tree.NumTxs(), tree.Hashes(), tree.Flags(), &root)
	require.ErrorIs(t, err, ErrInvalidProof)

	// Equal hashes that are not siblings round trip.
	leaves = []Leaf{{Hash: a}, {Hash: b}, {Hash: a, Matched: true}, {Hash: b}}
	tree = NewPartialTree(leaves)
	root = tree.Root()
	parsed, err := ParseCompressed(tree.NumTxs(), tree.Hashes(), tree.Flags(), &root)
	require.NoError(t, err)
	require.Equal(t, []chainhash.Hash{a}, parsed.MatchedHashes())
	require.Equal(t, []uint32{2}, parsed.MatchedIndices())
}

func TestMergeDisjoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		leaves := drawLeaves(t)
		left := make([]Leaf, len(leaves))
		right := make([]Leaf, len(leaves))
		for i := range leaves {
			left[i] = Leaf{Hash: leaves[i].Hash}
			right[i] = Leaf{Hash: leaves[i].Hash}
			if leaves[i].Matched {
				if rapid.Bool().Draw(t, "side") {
					left[i].Matched = true
				} else {
					right[i].Matched = true
				}
			}
		}

		merged, err := Merge(NewPartialTree(left), NewPartialTree(right))
		require.NoError(t, err)

		want := NewPartialTree(leaves)
		require.Equal(t, want.Root(), merged.Root())
		require.Equal(t, want.MatchedHashes(), merged.MatchedHashes())
		require.Equal(t, want.MatchedIndices(), merged.MatchedIndices())
		require.Equal(t, want.Hashes(), merged.Hashes())
		require.Equal(t, want.FlagBits(), merged.FlagBits())
	})
}

func TestMergeInconsistent(t *testing.T) {
	leaves := make([]Leaf, 4)
	for i := range leaves {
		leaves[i] = Leaf{Hash: leafHash(i), Matched: i == 0}
	}
	a := NewPartialTree(leaves)

	other := make([]Leaf, 5)
	for i := range other {
		other[i] = Leaf{Hash: leafHash(i), Matched: i == 0}
	}
	_, err := Merge(a, NewPartialTree(other))
	require.ErrorIs(t, err, ErrInconsistentProof)

	// Same count and root but a forged leaf hash.
	forged := NewPartialTree(leaves)
	forged.hashes[0] = leafHash(42)
	_, err = Merge(a, forged)
	require.ErrorIs(t, err, ErrInconsistentProof)
}

// TestPartialTreeMatchesBloomMerkleBlock compares proofs with the ones
// btcutil builds for merkleblock messages.
func TestPartialTreeMatchesBloomMerkleBlock(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "numTxs")
		block := btcwire.NewMsgBlock(&btcwire.BlockHeader{})
		filter := bloom.NewFilter(uint32(n), 0, 0.000001, btcwire.BloomUpdateNone)
		for i := 0; i < n; i++ {
			tx := btcwire.NewMsgTx(1)
			tx.AddTxIn(btcwire.NewTxIn(&btcwire.OutPoint{Index: uint32(i)}, nil, nil))
			tx.AddTxOut(btcwire.NewTxOut(int64(i), []byte{0x51}))
			require.NoError(t, block.AddTransaction(tx))

			if rapid.Bool().Draw(t, "matched") {
				hash := tx.TxHash()
				filter.AddHash(&hash)
			}
		}

		msg, matchedIndices := bloom.NewMerkleBlock(btcutil.NewBlock(block), filter)

		leaves := make([]Leaf, n)
		for i, tx := range block.Transactions {
			leaves[i].Hash = chainhash.Hash(tx.TxHash())
		}
		for _, idx := range matchedIndices {
			leaves[idx].Matched = true
		}
		tree := NewPartialTree(leaves)

		want := make([]chainhash.Hash, len(msg.Hashes))
		for i, h := range msg.Hashes {
			want[i] = chainhash.Hash(*h)
		}
		require.Equal(t, want, tree.Hashes())
		require.Equal(t, msg.Flags, tree.Flags())
		require.Equal(t, msg.Transactions, tree.NumTxs())
	})
}

func TestErrorCodeStringer(t *testing.T) {
	for code := ErrorCode(0); code < numErrorCodes; code++ {
		require.NotContains(t, code.String(), "Unknown")
	}
	require.Contains(t, numErrorCodes.String(), "Unknown")
}
