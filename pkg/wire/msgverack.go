package wire

import "io"

// MsgVerAck defines a verack message which is used for a peer to
// acknowledge a version message after it has used the information to
// negotiate parameters. It has no payload.
type MsgVerAck struct{}

func (msg *MsgVerAck) Deserialize(r io.Reader) error {
	return nil
}

func (msg *MsgVerAck) Serialize(w io.Writer) error {
	return nil
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgVerAck) SerializeSize() int {
	return 0
}

// Command returns the protocol command string for the message.
func (msg *MsgVerAck) Command() string {
	return CmdVerAck
}

// MinPayloadSize returns the minimum payload size.
func (msg *MsgVerAck) MinPayloadSize() int {
	return 0
}

func (msg *MsgVerAck) message() {}

// NewMsgVerAck returns a new verack message.
func NewMsgVerAck() *MsgVerAck {
	return &MsgVerAck{}
}
