package wire

import (
	"fmt"
	"io"
)

// MaxAddrPerMsg is the maximum number of addresses that can be in a single
// addr message.
const MaxAddrPerMsg = 1000

// MsgAddr implements the Message interface and represents an addr message.
// It is used to provide a list of known active peers on the network. An
// active peer is considered one that has transmitted a message within the
// last 3 hours. Nodes which have not transmitted in that time frame should be
// forgotten. Each message is limited to a maximum number of addresses.
//
// Addresses in this message carry their timestamp (30 bytes each).
type MsgAddr struct {
	AddrList []*NetAddress
}

// AddAddress adds a known active peer to the message.
func (msg *MsgAddr) AddAddress(na *NetAddress) error {
	if len(msg.AddrList)+1 > MaxAddrPerMsg {
		str := fmt.Sprintf("too many addresses in message [max %v]",
			MaxAddrPerMsg)
		return messageError("MsgAddr.AddAddress", ErrMalformedMessage, str)
	}

	msg.AddrList = append(msg.AddrList, na)
	return nil
}

// ClearAddresses removes all addresses from the message.
func (msg *MsgAddr) ClearAddresses() {
	msg.AddrList = []*NetAddress{}
}

// Deserialize decodes r into the receiver.
func (msg *MsgAddr) Deserialize(r io.Reader) error {
	count, err := readCount(r, MaxAddrPerMsg, "addresses")
	if err != nil {
		return err
	}

	msg.AddrList = make([]*NetAddress, 0, preallocCap(count))
	for i := uint64(0); i < count; i++ {
		na := new(NetAddress)
		if err := readNetAddress(r, na, true); err != nil {
			return err
		}
		msg.AddrList = append(msg.AddrList, na)
	}
	return nil
}

// Serialize encodes the receiver to w.
func (msg *MsgAddr) Serialize(w io.Writer) error {
	count := len(msg.AddrList)
	if count > MaxAddrPerMsg {
		str := fmt.Sprintf("too many addresses for message "+
			"[count %v, max %v]", count, MaxAddrPerMsg)
		return messageError("MsgAddr.Serialize", ErrMalformedMessage, str)
	}

	if err := WriteVarInt(w, uint64(count)); err != nil {
		return err
	}
	for _, na := range msg.AddrList {
		if err := writeNetAddress(w, na, true); err != nil {
			return err
		}
	}
	return nil
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgAddr) SerializeSize() int {
	return VarIntSerializeSize(uint64(len(msg.AddrList))) +
		len(msg.AddrList)*timedNetAddressSize
}

// Command returns the protocol command string for the message.
func (msg *MsgAddr) Command() string {
	return CmdAddr
}

// MinPayloadSize returns the size of an empty address list.
func (msg *MsgAddr) MinPayloadSize() int {
	return 1
}

func (msg *MsgAddr) message() {}

// NewMsgAddr returns a new addr message with no addresses.
func NewMsgAddr() *MsgAddr {
	return &MsgAddr{
		AddrList: make([]*NetAddress, 0, MaxAddrPerMsg),
	}
}
