// Package merkle computes block merkle roots and builds, verifies and merges
// partial merkle trees, the compact inclusion proofs carried by merkleblock
// messages.
package merkle

import (
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

// HashPair returns the parent of two sibling nodes: the double SHA-256 of
// their concatenation.
func HashPair(left, right *chainhash.Hash) chainhash.Hash {
	var combined [chainhash.HashSize * 2]byte
	copy(combined[:chainhash.HashSize], left[:])
	copy(combined[chainhash.HashSize:], right[:])
	return chainhash.DoubleHashH(combined[:])
}

// BuildFull returns the merkle root of hashes. Each level pairs adjacent
// nodes, an odd last node being paired with itself, until one node remains.
// A single hash is its own root and an empty list yields the zero hash.
func BuildFull(hashes []chainhash.Hash) chainhash.Hash {
	switch len(hashes) {
	case 0:
		return chainhash.Hash{}
	case 1:
		return hashes[0]
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)
	for len(level) > 1 {
		next := level[:0]
		for i := 0; i < len(level); i += 2 {
			left := &level[i]
			right := left
			if i+1 < len(level) {
				right = &level[i+1]
			}
			next = append(next, HashPair(left, right))
		}
		level = next
	}
	return level[0]
}
