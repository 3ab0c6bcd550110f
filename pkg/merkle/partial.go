package merkle

import (
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

// Leaf is one transaction of a block as seen by NewPartialTree.
type Leaf struct {
	Hash    chainhash.Hash
	Matched bool
}

// PartialMerkleTree is a compressed proof that a subset of a block's
// transactions, the matched leaves, is committed to by the block's merkle
// root.
//
// The proof is a depth-first pre-order walk of the full tree. Each visited
// node contributes one flag bit, set when some leaf below it is matched. A
// node with a clear bit, and every leaf, also contributes its hash and is
// not descended into. A tree is immutable once built.
type PartialMerkleTree struct {
	numTxs uint32
	depth  uint
	hashes []chainhash.Hash
	bits   []bool
	root   chainhash.Hash

	matchedHashes  []chainhash.Hash
	matchedIndices []uint32
}

// calcTreeWidth returns the number of nodes at height above the leaves.
func calcTreeWidth(numTxs uint32, height uint) uint32 {
	return uint32((uint64(numTxs) + (1 << height) - 1) >> height)
}

// calcTreeDepth returns the height of the root of a tree with numTxs leaves.
func calcTreeDepth(numTxs uint32) uint {
	var height uint
	for calcTreeWidth(numTxs, height) > 1 {
		height++
	}
	return height
}

// builder walks a full leaf set to produce a proof.
type builder struct {
	numTxs uint32
	leaves []Leaf
	hashes []chainhash.Hash
	bits   []bool
}

// calcHash returns the hash of the node at height and pos.
func (b *builder) calcHash(height uint, pos uint32) chainhash.Hash {
	if height == 0 {
		return b.leaves[pos].Hash
	}

	left := b.calcHash(height-1, pos*2)
	right := left
	if pos*2+1 < calcTreeWidth(b.numTxs, height-1) {
		right = b.calcHash(height-1, pos*2+1)
	}
	return HashPair(&left, &right)
}

// hasMatch reports whether any leaf under the node at height and pos is
// matched.
func (b *builder) hasMatch(height uint, pos uint32) bool {
	start := uint64(pos) << height
	end := uint64(pos+1) << height
	if end > uint64(b.numTxs) {
		end = uint64(b.numTxs)
	}
	for i := start; i < end; i++ {
		if b.leaves[i].Matched {
			return true
		}
	}
	return false
}

// traverseAndBuild records the node at height and pos. Pruned nodes and
// leaves store their hash, other nodes recurse into their children.
func (b *builder) traverseAndBuild(height uint, pos uint32) {
	parentOfMatch := b.hasMatch(height, pos)
	b.bits = append(b.bits, parentOfMatch)

	if height == 0 || !parentOfMatch {
		b.hashes = append(b.hashes, b.calcHash(height, pos))
		return
	}

	b.traverseAndBuild(height-1, pos*2)
	if pos*2+1 < calcTreeWidth(b.numTxs, height-1) {
		b.traverseAndBuild(height-1, pos*2+1)
	}
}

// NewPartialTree builds the proof for the matched leaves of a block whose
// transactions, in block order, are leaves. A block with no transactions
// yields an empty tree with a zero root.
//
// ParseCompressed rejects proofs in which two sibling nodes it rebuilds have
// equal hashes, so a proof built over leaves where such siblings repeat a hash
// does not parse back. Valid blocks never contain such leaves.
func NewPartialTree(leaves []Leaf) *PartialMerkleTree {
	numTxs := uint32(len(leaves))
	tree := &PartialMerkleTree{
		numTxs: numTxs,
		depth:  calcTreeDepth(numTxs),
	}
	if numTxs == 0 {
		return tree
	}

	b := &builder{numTxs: numTxs, leaves: leaves}
	b.traverseAndBuild(tree.depth, 0)

	tree.hashes = b.hashes
	tree.bits = b.bits
	tree.root = b.calcHash(tree.depth, 0)
	for i := range leaves {
		if leaves[i].Matched {
			tree.matchedHashes = append(tree.matchedHashes, leaves[i].Hash)
			tree.matchedIndices = append(tree.matchedIndices, uint32(i))
		}
	}

	log.Tracef("Built partial merkle tree: %d txs, %d hashes, %d flag bits, "+
		"%d matches", numTxs, len(tree.hashes), len(tree.bits),
		len(tree.matchedHashes))
	return tree
}

// extractor replays a proof's hash and flag queues.
type extractor struct {
	numTxs   uint32
	hashes   []chainhash.Hash
	bits     []bool
	hashUsed int
	bitsUsed int

	matchedHashes  []chainhash.Hash
	matchedIndices []uint32
}

func (e *extractor) traverseAndExtract(height uint, pos uint32) (chainhash.Hash, error) {
	const op = "ParseCompressed"

	if e.bitsUsed >= len(e.bits) {
		return chainhash.Hash{}, proofError(op, ErrInvalidProof,
			"ran out of flag bits after %d", e.bitsUsed)
	}
	parentOfMatch := e.bits[e.bitsUsed]
	e.bitsUsed++

	if height == 0 || !parentOfMatch {
		if e.hashUsed >= len(e.hashes) {
			return chainhash.Hash{}, proofError(op, ErrInvalidProof,
				"ran out of hashes after %d", e.hashUsed)
		}
		hash := e.hashes[e.hashUsed]
		e.hashUsed++

		if height == 0 && parentOfMatch {
			e.matchedHashes = append(e.matchedHashes, hash)
			e.matchedIndices = append(e.matchedIndices, pos)
		}
		return hash, nil
	}

	left, err := e.traverseAndExtract(height-1, pos*2)
	if err != nil {
		return chainhash.Hash{}, err
	}

	right := left
	if pos*2+1 < calcTreeWidth(e.numTxs, height-1) {
		right, err = e.traverseAndExtract(height-1, pos*2+1)
		if err != nil {
			return chainhash.Hash{}, err
		}

		// Identical siblings would let a proof pass off a duplicated
		// subtree as distinct transactions.
		if right == left {
			return chainhash.Hash{}, proofError(op, ErrInvalidProof,
				"identical sibling hashes at height %d position %d",
				height-1, pos*2)
		}
	}
	return HashPair(&left, &right), nil
}

// ParseCompressed rebuilds a tree from its serialized parts: the number of
// transactions in the block, the hash list, and the flag bits packed least
// significant bit first. When expectedRoot is not nil the rebuilt root must
// equal it.
//
// Every hash and every flag bit must be consumed, apart from the zero
// padding of the last flag byte.
func ParseCompressed(numTxs uint32, hashes []chainhash.Hash, flags []byte,
	expectedRoot *chainhash.Hash) (*PartialMerkleTree, error) {

	const op = "ParseCompressed"

	if numTxs == 0 {
		return nil, proofError(op, ErrInvalidProof, "tree has no transactions")
	}
	if uint64(len(hashes)) > uint64(numTxs) {
		return nil, proofError(op, ErrInvalidProof,
			"%d hashes for %d transactions", len(hashes), numTxs)
	}
	bits := unpackBits(flags)
	if len(bits) < len(hashes) {
		return nil, proofError(op, ErrInvalidProof,
			"%d flag bits for %d hashes", len(bits), len(hashes))
	}

	e := &extractor{numTxs: numTxs, hashes: hashes, bits: bits}
	depth := calcTreeDepth(numTxs)
	root, err := e.traverseAndExtract(depth, 0)
	if err != nil {
		return nil, err
	}

	if (e.bitsUsed+7)/8 != len(flags) {
		return nil, proofError(op, ErrInvalidProof,
			"%d flag bytes for %d used bits", len(flags), e.bitsUsed)
	}
	for i := e.bitsUsed; i < len(bits); i++ {
		if bits[i] {
			return nil, proofError(op, ErrInvalidProof,
				"flag padding bit %d is set", i)
		}
	}
	if e.hashUsed != len(hashes) {
		return nil, proofError(op, ErrInvalidProof,
			"used %d of %d hashes", e.hashUsed, len(hashes))
	}
	if expectedRoot != nil && root != *expectedRoot {
		return nil, proofError(op, ErrInvalidProof,
			"root %v does not match expected %v", root, expectedRoot)
	}

	hashesCopy := make([]chainhash.Hash, len(hashes))
	copy(hashesCopy, hashes)
	return &PartialMerkleTree{
		numTxs:         numTxs,
		depth:          depth,
		hashes:         hashesCopy,
		bits:           bits[:e.bitsUsed],
		root:           root,
		matchedHashes:  e.matchedHashes,
		matchedIndices: e.matchedIndices,
	}, nil
}

// NumTxs returns the number of transactions in the block.
func (t *PartialMerkleTree) NumTxs() uint32 { return t.numTxs }

// Depth returns the height of the root above the leaves.
func (t *PartialMerkleTree) Depth() uint { return t.depth }

// Root returns the merkle root.
func (t *PartialMerkleTree) Root() chainhash.Hash { return t.root }

// Hashes returns the proof's hash list in traversal order.
func (t *PartialMerkleTree) Hashes() []chainhash.Hash {
	out := make([]chainhash.Hash, len(t.hashes))
	copy(out, t.hashes)
	return out
}

// FlagBits returns the proof's flag bits in traversal order.
func (t *PartialMerkleTree) FlagBits() []bool {
	out := make([]bool, len(t.bits))
	copy(out, t.bits)
	return out
}

// Flags returns the flag bits packed least significant bit first, the last
// byte zero padded.
func (t *PartialMerkleTree) Flags() []byte {
	return packBits(t.bits)
}

// MatchedHashes returns the hashes of the matched transactions in block
// order.
func (t *PartialMerkleTree) MatchedHashes() []chainhash.Hash {
	out := make([]chainhash.Hash, len(t.matchedHashes))
	copy(out, t.matchedHashes)
	return out
}

// MatchedIndices returns the block positions of the matched transactions.
func (t *PartialMerkleTree) MatchedIndices() []uint32 {
	out := make([]uint32, len(t.matchedIndices))
	copy(out, t.matchedIndices)
	return out
}

func packBits(bits []bool) []byte {
	flags := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			flags[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return flags
}

func unpackBits(flags []byte) []bool {
	bits := make([]bool, len(flags)*8)
	for i := range bits {
		bits[i] = flags[i/8]&(1<<(uint(i)%8)) != 0
	}
	return bits
}
