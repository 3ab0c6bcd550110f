package wire

import "io"

// MsgNotFound defines a notfound message which is sent in response to a
// getdata message if any of the requested data is not available on the
// peer.
type MsgNotFound struct {
	invList
}

func (msg *MsgNotFound) Deserialize(r io.Reader) error {
	return msg.deserialize(r)
}

func (msg *MsgNotFound) Serialize(w io.Writer) error {
	return msg.serialize(w)
}

func (msg *MsgNotFound) SerializeSize() int {
	return msg.serializeSize()
}

// Command returns the protocol command string for the message.
func (msg *MsgNotFound) Command() string {
	return CmdNotFound
}

func (msg *MsgNotFound) MinPayloadSize() int {
	return 1
}

func (msg *MsgNotFound) message() {}

// NewMsgNotFound returns a new notfound message with no inventory vectors.
func NewMsgNotFound() *MsgNotFound {
	return &MsgNotFound{}
}
