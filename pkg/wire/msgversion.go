package wire

import (
	"fmt"
	"io"
)

// MaxUserAgentLen is the maximum allowed length for the user agent field in
// a version message.
const MaxUserAgentLen = 256

// DefaultUserAgent for wire in the stack.
const DefaultUserAgent = "/coinnode:0.1.0/"

// MsgVersion implements the Message interface and represents a version
// message. It is used for a peer to advertise itself as soon as an outbound
// connection is made. The remote peer then uses this information along with
// its own to negotiate.
//
// The trailing relay flag is only on the wire when ProtocolVersion is at
// least BIP0037Version.
type MsgVersion struct {
	// Version of the protocol the node is using.
	ProtocolVersion uint32

	// Bitfield which identifies the enabled services.
	Services ServiceFlag

	// Time the message was generated, in seconds since the epoch.
	Timestamp int64

	// Address of the remote peer.
	AddrYou NetAddress

	// Address of the local peer.
	AddrMe NetAddress

	// Unique value associated with message that is used to detect self
	// connections.
	Nonce uint64

	// The user agent that generated message.
	UserAgent string

	// Last block seen by the generator of the version message.
	LastBlock int32

	// Announce transactions to the peer.
	Relay bool
}

// HasService returns whether the specified service is supported by the peer
// that generated the message.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services&service == service
}

// hasRelayFlag reports whether the protocol version puts the relay byte on
// the wire.
func (msg *MsgVersion) hasRelayFlag() bool {
	return msg.ProtocolVersion >= BIP0037Version
}

// Deserialize decodes r into the receiver. The relay byte is read only when
// the decoded protocol version carries it, and is then mandatory.
func (msg *MsgVersion) Deserialize(r io.Reader) error {
	var err error
	if msg.ProtocolVersion, err = readUint32(r, "version"); err != nil {
		return err
	}

	services, err := readUint64(r, "services")
	if err != nil {
		return err
	}
	msg.Services = ServiceFlag(services)

	timestamp, err := readUint64(r, "timestamp")
	if err != nil {
		return err
	}
	msg.Timestamp = int64(timestamp)

	if err := readNetAddress(r, &msg.AddrYou, false); err != nil {
		return err
	}
	if err := readNetAddress(r, &msg.AddrMe, false); err != nil {
		return err
	}

	if msg.Nonce, err = readUint64(r, "nonce"); err != nil {
		return err
	}

	userAgent, err := ReadVarString(r, MaxUserAgentLen)
	if err != nil {
		return err
	}
	msg.UserAgent = userAgent

	lastBlock, err := readUint32(r, "start height")
	if err != nil {
		return err
	}
	msg.LastBlock = int32(lastBlock)

	msg.Relay = false
	if msg.hasRelayFlag() {
		relay, err := readUint8(r, "relay")
		if err != nil {
			return err
		}
		msg.Relay = relay != 0
	}
	return nil
}

// Serialize encodes the receiver to w.
func (msg *MsgVersion) Serialize(w io.Writer) error {
	if len(msg.UserAgent) > MaxUserAgentLen {
		str := fmt.Sprintf("user agent too long [len %v, max %v]",
			len(msg.UserAgent), MaxUserAgentLen)
		return messageError("MsgVersion.Serialize", ErrMalformedMessage, str)
	}

	if err := writeUint32(w, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(msg.Services)); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(msg.Timestamp)); err != nil {
		return err
	}
	if err := writeNetAddress(w, &msg.AddrYou, false); err != nil {
		return err
	}
	if err := writeNetAddress(w, &msg.AddrMe, false); err != nil {
		return err
	}
	if err := writeUint64(w, msg.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.UserAgent); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(msg.LastBlock)); err != nil {
		return err
	}

	if msg.hasRelayFlag() {
		var relay uint8
		if msg.Relay {
			relay = 1
		}
		return writeUint8(w, relay)
	}
	return nil
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgVersion) SerializeSize() int {
	n := 4 + 8 + 8 + netAddressSize*2 + 8 +
		VarIntSerializeSize(uint64(len(msg.UserAgent))) + len(msg.UserAgent) + 4
	if msg.hasRelayFlag() {
		n++
	}
	return n
}

// Command returns the protocol command string for the message.
func (msg *MsgVersion) Command() string {
	return CmdVersion
}

// MinPayloadSize returns the size of a version payload with an empty user
// agent and no relay byte.
func (msg *MsgVersion) MinPayloadSize() int {
	return 4 + 8 + 8 + netAddressSize*2 + 8 + 1 + 4
}

func (msg *MsgVersion) message() {}

// NewMsgVersion returns a new version message that conforms to the Message
// interface using the passed parameters and defaults for the remaining
// fields.
func NewMsgVersion(pver uint32, me *NetAddress, you *NetAddress, nonce uint64,
	timestamp int64, lastBlock int32) *MsgVersion {

	return &MsgVersion{
		ProtocolVersion: pver,
		Services:        0,
		Timestamp:       timestamp,
		AddrYou:         *you,
		AddrMe:          *me,
		Nonce:           nonce,
		UserAgent:       DefaultUserAgent,
		LastBlock:       lastBlock,
		Relay:           true,
	}
}
