package wire

import (
	"fmt"
	"io"
)

// MaxBlockHeadersPerMsg is the maximum number of block headers that can be
// in a single headers message.
const MaxBlockHeadersPerMsg = 2000

// MsgHeaders implements the Message interface and represents a headers
// message. It is used to deliver block header information in response to a
// getheaders message. Each header is followed by a transaction count that
// is always zero.
type MsgHeaders struct {
	Headers []*BlockHeader
}

// AddBlockHeader adds a new block header to the message.
func (msg *MsgHeaders) AddBlockHeader(bh *BlockHeader) error {
	if len(msg.Headers)+1 > MaxBlockHeadersPerMsg {
		str := fmt.Sprintf("too many block headers in message [max %v]",
			MaxBlockHeadersPerMsg)
		return messageError("MsgHeaders.AddBlockHeader", ErrMalformedMessage, str)
	}

	msg.Headers = append(msg.Headers, bh)
	return nil
}

// Deserialize decodes r into the receiver.
func (msg *MsgHeaders) Deserialize(r io.Reader) error {
	count, err := readCount(r, MaxBlockHeadersPerMsg, "block headers")
	if err != nil {
		return err
	}

	msg.Headers = make([]*BlockHeader, 0, preallocCap(count))
	for i := uint64(0); i < count; i++ {
		bh := new(BlockHeader)
		if err := bh.Deserialize(r); err != nil {
			return fmt.Errorf("reading header %d: %w", i, err)
		}

		txCount, err := ReadVarInt(r)
		if err != nil {
			return fmt.Errorf("reading header %d tx count: %w", i, err)
		}

		// Ensure the transaction count is zero for headers.
		if txCount > 0 {
			str := fmt.Sprintf("block headers may not contain "+
				"transactions [count %v]", txCount)
			return messageError("MsgHeaders.Deserialize",
				ErrMalformedMessage, str)
		}
		msg.Headers = append(msg.Headers, bh)
	}
	return nil
}

// Serialize encodes the receiver to w.
func (msg *MsgHeaders) Serialize(w io.Writer) error {
	if len(msg.Headers) > MaxBlockHeadersPerMsg {
		str := fmt.Sprintf("too many block headers for message "+
			"[count %v, max %v]", len(msg.Headers), MaxBlockHeadersPerMsg)
		return messageError("MsgHeaders.Serialize", ErrMalformedMessage, str)
	}

	if err := WriteVarInt(w, uint64(len(msg.Headers))); err != nil {
		return err
	}
	for _, bh := range msg.Headers {
		if err := bh.Serialize(w); err != nil {
			return err
		}

		// The wire protocol encoding always includes a 0 for the number
		// of transactions on header messages.
		if err := WriteVarInt(w, 0); err != nil {
			return err
		}
	}
	return nil
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgHeaders) SerializeSize() int {
	return VarIntSerializeSize(uint64(len(msg.Headers))) +
		len(msg.Headers)*(BlockHeaderSize+1)
}

// Command returns the protocol command string for the message.
func (msg *MsgHeaders) Command() string {
	return CmdHeaders
}

// MinPayloadSize returns the size of an empty header count.
func (msg *MsgHeaders) MinPayloadSize() int {
	return 1
}

func (msg *MsgHeaders) message() {}

// NewMsgHeaders returns a new headers message.
func NewMsgHeaders() *MsgHeaders {
	return &MsgHeaders{
		Headers: make([]*BlockHeader, 0, MaxBlockHeadersPerMsg),
	}
}
