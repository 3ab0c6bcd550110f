package wire

import "io"

// MsgMemPool implements the Message interface and represents a mempool
// message. It is used to request a list of transactions still in the
// receiver's memory pool.
type MsgMemPool struct{}

func (msg *MsgMemPool) Deserialize(r io.Reader) error {
	return nil
}

func (msg *MsgMemPool) Serialize(w io.Writer) error {
	return nil
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgMemPool) SerializeSize() int {
	return 0
}

// Command returns the protocol command string for the message.
func (msg *MsgMemPool) Command() string {
	return CmdMemPool
}

// MinPayloadSize returns the minimum payload size.
func (msg *MsgMemPool) MinPayloadSize() int {
	return 0
}

func (msg *MsgMemPool) message() {}

// NewMsgMemPool returns a new mempool message.
func NewMsgMemPool() *MsgMemPool {
	return &MsgMemPool{}
}
