package wire

import (
	"bytes"
	"io"
	"math/big"
	"time"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

// BlockHeaderSize is the number of bytes of a serialized block header:
// Version 4 bytes + PrevBlock 32 bytes + MerkleRoot 32 bytes + Timestamp 4
// bytes + Bits 4 bytes + Nonce 4 bytes.
const BlockHeaderSize = 80

// BlockHeader defines information about a block and is used in the block
// (MsgBlock), headers (MsgHeaders) and merkleblock (MsgMerkleBlock)
// messages.
//
// The block hash is memoized. SetVersion, SetPrevBlock, SetMerkleRoot,
// SetTimestamp, SetBits, SetNonce and Deserialize drop it.
type BlockHeader struct {
	version    uint32
	prevBlock  chainhash.Hash
	merkleRoot chainhash.Hash
	timestamp  uint32
	bits       uint32
	nonce      uint32

	hash *chainhash.Hash
}

// NewBlockHeader returns a new BlockHeader using the provided version,
// previous block hash, merkle root hash, difficulty bits, and nonce. The
// timestamp is the current time truncated to seconds.
func NewBlockHeader(version uint32, prevHash, merkleRootHash *chainhash.Hash,
	bits uint32, nonce uint32) *BlockHeader {

	return &BlockHeader{
		version:    version,
		prevBlock:  *prevHash,
		merkleRoot: *merkleRootHash,
		timestamp:  uint32(time.Now().Unix()),
		bits:       bits,
		nonce:      nonce,
	}
}

// Version returns the block version.
func (h *BlockHeader) Version() uint32 { return h.version }

// PrevBlock returns the hash of the previous block.
func (h *BlockHeader) PrevBlock() chainhash.Hash { return h.prevBlock }

// MerkleRoot returns the merkle root of the block's transactions.
func (h *BlockHeader) MerkleRoot() chainhash.Hash { return h.merkleRoot }

// Timestamp returns the block time.
func (h *BlockHeader) Timestamp() time.Time {
	return time.Unix(int64(h.timestamp), 0)
}

// Bits returns the compact difficulty target.
func (h *BlockHeader) Bits() uint32 { return h.bits }

// Nonce returns the proof of work nonce.
func (h *BlockHeader) Nonce() uint32 { return h.nonce }

// SetVersion sets the block version.
func (h *BlockHeader) SetVersion(v uint32) {
	h.version = v
	h.hash = nil
}

// SetPrevBlock sets the previous block hash.
func (h *BlockHeader) SetPrevBlock(hash chainhash.Hash) {
	h.prevBlock = hash
	h.hash = nil
}

// SetMerkleRoot sets the merkle root.
func (h *BlockHeader) SetMerkleRoot(root chainhash.Hash) {
	h.merkleRoot = root
	h.hash = nil
}

// SetTimestamp sets the block time. Sub-second precision is dropped.
func (h *BlockHeader) SetTimestamp(t time.Time) {
	h.timestamp = uint32(t.Unix())
	h.hash = nil
}

// SetBits sets the compact difficulty target.
func (h *BlockHeader) SetBits(bits uint32) {
	h.bits = bits
	h.hash = nil
}

// SetNonce sets the nonce.
func (h *BlockHeader) SetNonce(nonce uint32) {
	h.nonce = nonce
	h.hash = nil
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	if h.hash != nil {
		return *h.hash
	}

	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderSize))
	_ = h.Serialize(buf)
	hash := chainhash.DoubleHashH(buf.Bytes())
	h.hash = &hash
	return hash
}

// Target returns the proof of work target encoded in Bits.
func (h *BlockHeader) Target() *big.Int {
	return CompactToBig(h.bits)
}

// Work returns the expected number of hashes needed to meet Target.
func (h *BlockHeader) Work() *big.Int {
	return CalcWork(h.bits)
}

// Deserialize decodes a block header from r into the receiver.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	h.hash = nil

	var err error
	if h.version, err = readUint32(r, "block version"); err != nil {
		return err
	}
	if err = readHash(r, &h.prevBlock, "prev block"); err != nil {
		return err
	}
	if err = readHash(r, &h.merkleRoot, "merkle root"); err != nil {
		return err
	}
	if h.timestamp, err = readUint32(r, "timestamp"); err != nil {
		return err
	}
	if h.bits, err = readUint32(r, "bits"); err != nil {
		return err
	}
	h.nonce, err = readUint32(r, "nonce")
	return err
}

// Serialize encodes the block header to w.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := writeUint32(w, h.version); err != nil {
		return err
	}
	if err := writeHash(w, &h.prevBlock); err != nil {
		return err
	}
	if err := writeHash(w, &h.merkleRoot); err != nil {
		return err
	}
	if err := writeUint32(w, h.timestamp); err != nil {
		return err
	}
	if err := writeUint32(w, h.bits); err != nil {
		return err
	}
	return writeUint32(w, h.nonce)
}

// Bytes returns the 80-byte serialized header.
func (h *BlockHeader) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderSize))
	_ = h.Serialize(buf)
	return buf.Bytes()
}
