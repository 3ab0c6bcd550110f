package wire

import "io"

// MsgGetAddr implements the Message interface and represents a getaddr
// message. It is used to request a list of known active peers on the network
// from a peer to help identify potential nodes. The list is returned via one
// or more addr messages.
type MsgGetAddr struct{}

func (msg *MsgGetAddr) Deserialize(r io.Reader) error {
	return nil
}

func (msg *MsgGetAddr) Serialize(w io.Writer) error {
	return nil
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgGetAddr) SerializeSize() int {
	return 0
}

// Command returns the protocol command string for the message.
func (msg *MsgGetAddr) Command() string {
	return CmdGetAddr
}

// MinPayloadSize returns the minimum payload size.
func (msg *MsgGetAddr) MinPayloadSize() int {
	return 0
}

func (msg *MsgGetAddr) message() {}

// NewMsgGetAddr returns a new getaddr message.
func NewMsgGetAddr() *MsgGetAddr {
	return &MsgGetAddr{}
}
