package wire

import "io"

// MsgPing implements the Message interface and represents a ping message.
//
// For versions BIP0031Version and earlier, it is used primarily to confirm
// that a connection is still valid. A transmission error is typically
// interpreted as a closed connection and that the peer should be removed.
// For versions AFTER BIP0031Version it contains an identifier which can be
// returned in the pong message to determine network timing. This package
// always sends the nonce.
type MsgPing struct {
	// Unique value associated with message that is used to identify
	// specific ping message.
	Nonce uint64
}

// Deserialize decodes r into the receiver.
func (msg *MsgPing) Deserialize(r io.Reader) error {
	nonce, err := readUint64(r, "ping nonce")
	if err != nil {
		return err
	}
	msg.Nonce = nonce
	return nil
}

// Serialize encodes the receiver to w.
func (msg *MsgPing) Serialize(w io.Writer) error {
	return writeUint64(w, msg.Nonce)
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgPing) SerializeSize() int {
	return 8
}

// Command returns the protocol command string for the message.
func (msg *MsgPing) Command() string {
	return CmdPing
}

// MinPayloadSize returns the size of the nonce.
func (msg *MsgPing) MinPayloadSize() int {
	return 8
}

func (msg *MsgPing) message() {}

// NewMsgPing returns a new ping message.
func NewMsgPing(nonce uint64) *MsgPing {
	return &MsgPing{
		Nonce: nonce,
	}
}
