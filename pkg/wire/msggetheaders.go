package wire

import "io"

// MsgGetHeaders implements the Message interface and represents a getheaders
// message. It is used to request a list of block headers for blocks starting
// after the last known hash in the slice of block locator hashes. The list
// is returned via a headers message and is limited by a specific hash to
// stop at or the maximum number of block headers per message, which is
// currently 2000.
type MsgGetHeaders struct {
	blockLocator
}

func (msg *MsgGetHeaders) Deserialize(r io.Reader) error {
	return msg.deserialize(r)
}

func (msg *MsgGetHeaders) Serialize(w io.Writer) error {
	return msg.serialize(w)
}

func (msg *MsgGetHeaders) SerializeSize() int {
	return msg.serializeSize()
}

// Command returns the protocol command string for the message.
func (msg *MsgGetHeaders) Command() string {
	return CmdGetHeaders
}

func (msg *MsgGetHeaders) MinPayloadSize() int {
	return minLocatorPayload
}

func (msg *MsgGetHeaders) message() {}

// NewMsgGetHeaders returns a new getheaders message with a zero stop hash,
// which asks for as many headers as the peer will send.
func NewMsgGetHeaders() *MsgGetHeaders {
	return &MsgGetHeaders{blockLocator{ProtocolVersion: ProtocolVersion}}
}
