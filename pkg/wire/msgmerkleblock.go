package wire

import (
	"fmt"
	"io"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/ciphrex/mSIGNA-sub003/pkg/merkle"
)

// maxFlagsPerMerkleBlock is the maximum number of flag bytes that could
// possibly fit into a merkle block. Since each transaction is represented by
// a single bit, this is the max number of transactions per block divided by
// 8 bits per byte. Then an extra one to cover partials.
const maxFlagsPerMerkleBlock = maxTxPerBlock / 8

// MsgMerkleBlock implements the Message interface and represents a
// merkleblock message. It carries a block header and the partial merkle
// tree proving which of the block's transactions matched the peer's filter.
type MsgMerkleBlock struct {
	Header       BlockHeader
	Transactions uint32
	Hashes       []chainhash.Hash
	Flags        []byte
}

// NewMsgMerkleBlock returns a merkleblock message carrying tree for the block
// with header bh.
func NewMsgMerkleBlock(bh *BlockHeader, tree *merkle.PartialMerkleTree) *MsgMerkleBlock {
	return &MsgMerkleBlock{
		Header:       *bh,
		Transactions: tree.NumTxs(),
		Hashes:       tree.Hashes(),
		Flags:        tree.Flags(),
	}
}

// PartialTree rebuilds and verifies the proof against the header's merkle
// root.
func (msg *MsgMerkleBlock) PartialTree() (*merkle.PartialMerkleTree, error) {
	root := msg.Header.MerkleRoot()
	return merkle.ParseCompressed(msg.Transactions, msg.Hashes, msg.Flags, &root)
}

// Deserialize decodes r into the receiver.
func (msg *MsgMerkleBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	var err error
	if msg.Transactions, err = readUint32(r, "merkle block tx count"); err != nil {
		return err
	}

	count, err := readCount(r, maxTxPerBlock, "transaction hashes per merkle block")
	if err != nil {
		return err
	}
	msg.Hashes = make([]chainhash.Hash, 0, preallocCap(count))
	for i := uint64(0); i < count; i++ {
		var hash chainhash.Hash
		if err := readHash(r, &hash, "merkle block hash"); err != nil {
			return err
		}
		msg.Hashes = append(msg.Hashes, hash)
	}

	msg.Flags, err = ReadVarBytes(r, maxFlagsPerMerkleBlock, "merkle block flags size")
	return err
}

// Serialize encodes the receiver to w.
func (msg *MsgMerkleBlock) Serialize(w io.Writer) error {
	numHashes := len(msg.Hashes)
	if numHashes > maxTxPerBlock {
		str := fmt.Sprintf("too many transaction hashes for message "+
			"[count %v, max %v]", numHashes, maxTxPerBlock)
		return messageError("MsgMerkleBlock.Serialize", ErrMalformedMessage, str)
	}
	numFlagBytes := len(msg.Flags)
	if numFlagBytes > maxFlagsPerMerkleBlock {
		str := fmt.Sprintf("too many flag bytes for message [count %v, "+
			"max %v]", numFlagBytes, maxFlagsPerMerkleBlock)
		return messageError("MsgMerkleBlock.Serialize", ErrMalformedMessage, str)
	}

	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := writeUint32(w, msg.Transactions); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(numHashes)); err != nil {
		return err
	}
	for i := range msg.Hashes {
		if err := writeHash(w, &msg.Hashes[i]); err != nil {
			return err
		}
	}
	return WriteVarBytes(w, msg.Flags)
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgMerkleBlock) SerializeSize() int {
	return BlockHeaderSize + 4 +
		VarIntSerializeSize(uint64(len(msg.Hashes))) +
		len(msg.Hashes)*chainhash.HashSize +
		VarBytesSerializeSize(msg.Flags)
}

// Command returns the protocol command string for the message.
func (msg *MsgMerkleBlock) Command() string {
	return CmdMerkleBlock
}

// MinPayloadSize returns the size of the header, the transaction count and
// two empty length prefixes.
func (msg *MsgMerkleBlock) MinPayloadSize() int {
	return BlockHeaderSize + 4 + 1 + 1
}

func (msg *MsgMerkleBlock) message() {}
