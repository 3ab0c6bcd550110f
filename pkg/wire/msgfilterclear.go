package wire

import "io"

// MsgFilterClear implements the Message interface and represents a
// filterclear message, which is used to reset a bloom filter. It has no
// payload.
type MsgFilterClear struct{}

func (msg *MsgFilterClear) Deserialize(r io.Reader) error {
	return nil
}

func (msg *MsgFilterClear) Serialize(w io.Writer) error {
	return nil
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgFilterClear) SerializeSize() int {
	return 0
}

// Command returns the protocol command string for the message.
func (msg *MsgFilterClear) Command() string {
	return CmdFilterClear
}

// MinPayloadSize returns the minimum payload size.
func (msg *MsgFilterClear) MinPayloadSize() int {
	return 0
}

func (msg *MsgFilterClear) message() {}

// NewMsgFilterClear returns a new filterclear message.
func NewMsgFilterClear() *MsgFilterClear {
	return &MsgFilterClear{}
}
