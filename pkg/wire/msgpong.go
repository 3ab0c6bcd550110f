package wire

import "io"

// MsgPong implements the Message interface and represents a pong message
// which is used primarily to confirm that a connection is still valid in
// response to a ping message (MsgPing). It echoes the ping nonce.
type MsgPong struct {
	// Unique value associated with message that is used to identify
	// specific ping message.
	Nonce uint64
}

func (msg *MsgPong) Deserialize(r io.Reader) error {
	nonce, err := readUint64(r, "pong nonce")
	if err != nil {
		return err
	}
	msg.Nonce = nonce
	return nil
}

func (msg *MsgPong) Serialize(w io.Writer) error {
	return writeUint64(w, msg.Nonce)
}

func (msg *MsgPong) SerializeSize() int {
	return 8
}

// Command returns the protocol command string for the message.
func (msg *MsgPong) Command() string {
	return CmdPong
}

func (msg *MsgPong) MinPayloadSize() int {
	return 8
}

func (msg *MsgPong) message() {}

// NewMsgPong returns a new pong message answering the ping with nonce.
func NewMsgPong(nonce uint64) *MsgPong {
	return &MsgPong{
		Nonce: nonce,
	}
}
