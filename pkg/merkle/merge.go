package merkle

import (
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

// cursor reads one proof's queues during a merge.
type cursor struct {
	tree     *PartialMerkleTree
	hashUsed int
	bitsUsed int
}

func (c *cursor) nextBit() (bool, error) {
	if c.bitsUsed >= len(c.tree.bits) {
		return false, proofError("Merge", ErrInvalidProof,
			"ran out of flag bits after %d", c.bitsUsed)
	}
	bit := c.tree.bits[c.bitsUsed]
	c.bitsUsed++
	return bit, nil
}

func (c *cursor) nextHash() (chainhash.Hash, error) {
	if c.hashUsed >= len(c.tree.hashes) {
		return chainhash.Hash{}, proofError("Merge", ErrInvalidProof,
			"ran out of hashes after %d", c.hashUsed)
	}
	hash := c.tree.hashes[c.hashUsed]
	c.hashUsed++
	return hash, nil
}

// merger walks two proofs of one tree in lockstep, writing the union proof.
type merger struct {
	numTxs uint32
	hashes []chainhash.Hash
	bits   []bool
}

// visit merges the node at height and pos. A nil cursor means that proof
// pruned an ancestor and knows nothing about this node.
func (m *merger) visit(height uint, pos uint32, a, b *cursor) (chainhash.Hash, error) {
	var flagA, flagB bool
	var err error
	if a != nil {
		if flagA, err = a.nextBit(); err != nil {
			return chainhash.Hash{}, err
		}
	}
	if b != nil {
		if flagB, err = b.nextBit(); err != nil {
			return chainhash.Hash{}, err
		}
	}

	// Proofs that stop here contribute the node's hash.
	var stored *chainhash.Hash
	for _, c := range []struct {
		cur  *cursor
		flag bool
	}{{a, flagA}, {b, flagB}} {
		if c.cur == nil || (height > 0 && c.flag) {
			continue
		}
		hash, err := c.cur.nextHash()
		if err != nil {
			return chainhash.Hash{}, err
		}
		if stored != nil && *stored != hash {
			return chainhash.Hash{}, proofError("Merge",
				ErrInconsistentProof, "proofs disagree at height %d "+
					"position %d: %v != %v", height, pos, *stored, hash)
		}
		stored = &hash
	}

	expand := flagA || flagB
	m.bits = append(m.bits, expand)
	if height == 0 || !expand {
		m.hashes = append(m.hashes, *stored)
		return *stored, nil
	}

	// Only proofs that expanded this node descend with it.
	if !flagA {
		a = nil
	}
	if !flagB {
		b = nil
	}

	left, err := m.visit(height-1, pos*2, a, b)
	if err != nil {
		return chainhash.Hash{}, err
	}
	right := left
	if pos*2+1 < calcTreeWidth(m.numTxs, height-1) {
		right, err = m.visit(height-1, pos*2+1, a, b)
		if err != nil {
			return chainhash.Hash{}, err
		}
	}
	hash := HashPair(&left, &right)

	if stored != nil && *stored != hash {
		return chainhash.Hash{}, proofError("Merge", ErrInconsistentProof,
			"pruned hash at height %d position %d does not match "+
				"its expanded subtree", height, pos)
	}
	return hash, nil
}

// Merge combines two proofs for the same block into one whose matched set is
// the union of both. The proofs must agree on the transaction count, the
// root and every node hash they both know.
func Merge(a, b *PartialMerkleTree) (*PartialMerkleTree, error) {
	const op = "Merge"

	if a.numTxs != b.numTxs {
		return nil, proofError(op, ErrInconsistentProof,
			"transaction counts differ: %d != %d", a.numTxs, b.numTxs)
	}
	if a.depth != b.depth {
		return nil, proofError(op, ErrInconsistentProof,
			"depths differ: %d != %d", a.depth, b.depth)
	}
	if a.root != b.root {
		return nil, proofError(op, ErrInconsistentProof,
			"roots differ: %v != %v", a.root, b.root)
	}
	if a.numTxs == 0 {
		return &PartialMerkleTree{}, nil
	}

	m := &merger{numTxs: a.numTxs}
	ca, cb := &cursor{tree: a}, &cursor{tree: b}
	if _, err := m.visit(a.depth, 0, ca, cb); err != nil {
		return nil, err
	}
	if ca.bitsUsed != len(a.bits) || ca.hashUsed != len(a.hashes) ||
		cb.bitsUsed != len(b.bits) || cb.hashUsed != len(b.hashes) {

		return nil, proofError(op, ErrInvalidProof,
			"proof has unused hashes or flag bits")
	}

	log.Debugf("Merged partial merkle trees of %d txs: %d+%d hashes -> %d",
		a.numTxs, len(a.hashes), len(b.hashes), len(m.hashes))

	// Re-parse to verify the result and collect the matched leaves.
	return ParseCompressed(a.numTxs, m.hashes, packBits(m.bits), &a.root)
}
