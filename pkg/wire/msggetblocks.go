package wire

import (
	"io"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

// MsgGetBlocks implements the Message interface and represents a getblocks
// message. It is used to request a list of blocks starting after the last
// known hash in the slice of block locator hashes. The list is returned via
// an inv message and is limited by a specific hash to stop at or the
// maximum number of blocks per message, which is currently 500.
//
// Set the HashStop field to the hash at which to stop and use
// AddBlockLocatorHash to build up the list of block locator hashes.
type MsgGetBlocks struct {
	blockLocator
}

// Deserialize decodes r into the receiver.
func (msg *MsgGetBlocks) Deserialize(r io.Reader) error {
	return msg.deserialize(r)
}

// Serialize encodes the receiver to w.
func (msg *MsgGetBlocks) Serialize(w io.Writer) error {
	return msg.serialize(w)
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgGetBlocks) SerializeSize() int {
	return msg.serializeSize()
}

// Command returns the protocol command string for the message.
func (msg *MsgGetBlocks) Command() string {
	return CmdGetBlocks
}

// MinPayloadSize returns the size of a request with no locator hashes.
func (msg *MsgGetBlocks) MinPayloadSize() int {
	return minLocatorPayload
}

func (msg *MsgGetBlocks) message() {}

// NewMsgGetBlocks returns a new getblocks message using the passed stop hash
// and defaults for the remaining fields.
func NewMsgGetBlocks(hashStop *chainhash.Hash) *MsgGetBlocks {
	return &MsgGetBlocks{blockLocator{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: make([]*chainhash.Hash, 0, MaxBlockLocatorsPerMsg),
		HashStop:           *hashStop,
	}}
}
