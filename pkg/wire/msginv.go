package wire

import "io"

// MsgInv implements the Message interface and represents an inv message. It
// is used to advertise a peer's known data such as blocks and transactions
// through inventory vectors. It may be sent unsolicited to inform other
// peers of the data or in response to a getblocks message.
type MsgInv struct {
	invList
}

// Deserialize decodes r into the receiver.
func (msg *MsgInv) Deserialize(r io.Reader) error {
	return msg.deserialize(r)
}

// Serialize encodes the receiver to w.
func (msg *MsgInv) Serialize(w io.Writer) error {
	return msg.serialize(w)
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgInv) SerializeSize() int {
	return msg.serializeSize()
}

// Command returns the protocol command string for the message.
func (msg *MsgInv) Command() string {
	return CmdInv
}

// MinPayloadSize returns the size of an empty inventory list.
func (msg *MsgInv) MinPayloadSize() int {
	return 1
}

func (msg *MsgInv) message() {}

// NewMsgInv returns a new inv message with no inventory vectors.
func NewMsgInv() *MsgInv {
	return &MsgInv{}
}
