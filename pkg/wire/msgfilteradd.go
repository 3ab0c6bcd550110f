package wire

import (
	"fmt"
	"io"
)

// MaxFilterAddDataSize is the maximum byte size of a data element to add to
// the Bloom filter. It is equal to the maximum element size of a script.
const MaxFilterAddDataSize = 520

// MsgFilterAdd implements the Message interface and represents a filteradd
// message. It is used to add a data element to an existing Bloom filter.
type MsgFilterAdd struct {
	Data []byte
}

// Deserialize decodes r into the receiver.
func (msg *MsgFilterAdd) Deserialize(r io.Reader) error {
	var err error
	msg.Data, err = ReadVarBytes(r, MaxFilterAddDataSize, "filteradd data")
	return err
}

// Serialize encodes the receiver to w.
func (msg *MsgFilterAdd) Serialize(w io.Writer) error {
	size := len(msg.Data)
	if size > MaxFilterAddDataSize {
		str := fmt.Sprintf("filteradd size too large for message "+
			"[size %v, max %v]", size, MaxFilterAddDataSize)
		return messageError("MsgFilterAdd.Serialize", ErrMalformedMessage, str)
	}

	return WriteVarBytes(w, msg.Data)
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgFilterAdd) SerializeSize() int {
	return VarBytesSerializeSize(msg.Data)
}

// Command returns the protocol command string for the message.
func (msg *MsgFilterAdd) Command() string {
	return CmdFilterAdd
}

// MinPayloadSize returns the size of an empty data element.
func (msg *MsgFilterAdd) MinPayloadSize() int {
	return 1
}

func (msg *MsgFilterAdd) message() {}

// NewMsgFilterAdd returns a new filteradd message.
func NewMsgFilterAdd(data []byte) *MsgFilterAdd {
	return &MsgFilterAdd{
		Data: data,
	}
}
