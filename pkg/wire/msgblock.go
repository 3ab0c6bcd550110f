package wire

import (
	"fmt"
	"io"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/ciphrex/mSIGNA-sub003/pkg/merkle"
)

// MaxBlockPayload is the maximum bytes a block message can be.
const MaxBlockPayload = 1000000

// maxTxPerBlock is the maximum number of transactions that could possibly
// fit into a block.
const maxTxPerBlock = (MaxBlockPayload / minTxPayload) + 1

// MsgBlock implements the Message interface and represents a block message.
// It is used to deliver block and transaction information in response to a
// getdata message for a given block hash.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*Transaction
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *Transaction) {
	msg.Transactions = append(msg.Transactions, tx)
}

// ClearTransactions removes all transactions from the message.
func (msg *MsgBlock) ClearTransactions() {
	msg.Transactions = make([]*Transaction, 0, 1)
}

// TxHashes returns the hashes of the block's transactions in block order.
func (msg *MsgBlock) TxHashes() []chainhash.Hash {
	hashes := make([]chainhash.Hash, len(msg.Transactions))
	for i, tx := range msg.Transactions {
		hashes[i] = tx.TxHash()
	}
	return hashes
}

// CheckMerkleRoot reports whether the merkle root of the transactions equals
// the one committed to by the header.
func (msg *MsgBlock) CheckMerkleRoot() bool {
	return merkle.BuildFull(msg.TxHashes()) == msg.Header.MerkleRoot()
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// Deserialize decodes r into the receiver.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	txCount, err := readCount(r, maxTxPerBlock, "transactions per block")
	if err != nil {
		return fmt.Errorf("reading tx count: %w", err)
	}

	msg.Transactions = make([]*Transaction, 0, preallocCap(txCount))
	for i := uint64(0); i < txCount; i++ {
		tx := &Transaction{}
		if err := tx.Deserialize(r); err != nil {
			return fmt.Errorf("parsing transaction %d: %w", i, err)
		}
		msg.Transactions = append(msg.Transactions, tx)
	}
	return nil
}

// Serialize encodes the receiver to w.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (msg *MsgBlock) SerializeSize() int {
	// Block header bytes + Serialized varint size for the number of
	// transactions.
	n := BlockHeaderSize + VarIntSerializeSize(uint64(len(msg.Transactions)))
	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}
	return n
}

// Command returns the protocol command string for the message.
func (msg *MsgBlock) Command() string {
	return CmdBlock
}

// MinPayloadSize returns a header followed by an empty transaction count.
func (msg *MsgBlock) MinPayloadSize() int {
	return BlockHeaderSize + 1
}

func (msg *MsgBlock) message() {}

// NewMsgBlock returns a new block message that conforms to the Message
// interface.
func NewMsgBlock(blockHeader *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *blockHeader,
		Transactions: make([]*Transaction, 0, 1),
	}
}
