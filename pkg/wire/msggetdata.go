package wire

import "io"

// MsgGetData implements the Message interface and represents a getdata
// message. It is used to request data such as blocks and transactions from
// another peer, typically in response to an inv message.
//
// Requesting InvTypeFilteredBlock yields a merkleblock message followed by
// the matched transactions.
type MsgGetData struct {
	invList
}

// Deserialize decodes r into the receiver.
func (msg *MsgGetData) Deserialize(r io.Reader) error {
	return msg.deserialize(r)
}

// Serialize encodes the receiver to w.
func (msg *MsgGetData) Serialize(w io.Writer) error {
	return msg.serialize(w)
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgGetData) SerializeSize() int {
	return msg.serializeSize()
}

// Command returns the protocol command string for the message.
func (msg *MsgGetData) Command() string {
	return CmdGetData
}

// MinPayloadSize returns the size of an empty inventory list.
func (msg *MsgGetData) MinPayloadSize() int {
	return 1
}

func (msg *MsgGetData) message() {}

// NewMsgGetData returns a new getdata message with no inventory vectors.
func NewMsgGetData() *MsgGetData {
	return &MsgGetData{}
}
