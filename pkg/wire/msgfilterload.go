package wire

import (
	"fmt"
	"io"
)

// BloomUpdateType specifies how the filter is updated when a match is found.
type BloomUpdateType uint8

const (
	// BloomUpdateNone indicates the filter is not adjusted when a match is
	// found.
	BloomUpdateNone BloomUpdateType = 0

	// BloomUpdateAll indicates if the filter matches any data element in a
	// public key script, the outpoint is serialized and inserted into the
	// filter.
	BloomUpdateAll BloomUpdateType = 1

	// BloomUpdateP2PubkeyOnly indicates if the filter matches a data
	// element in a public key script and the script is of the standard
	// pay-to-pubkey or multisig, the outpoint is serialized and inserted
	// into the filter.
	BloomUpdateP2PubkeyOnly BloomUpdateType = 2
)

const (
	// MaxFilterLoadHashFuncs is the maximum number of hash functions to
	// load into the Bloom filter.
	MaxFilterLoadHashFuncs = 50

	// MaxFilterLoadFilterSize is the maximum size in bytes a filter may be.
	MaxFilterLoadFilterSize = 36000
)

// MsgFilterLoad implements the Message interface and represents a filterload
// message which is used to reset a Bloom filter.
type MsgFilterLoad struct {
	Filter    []byte
	HashFuncs uint32
	Tweak     uint32
	Flags     BloomUpdateType
}

// Deserialize decodes r into the receiver.
func (msg *MsgFilterLoad) Deserialize(r io.Reader) error {
	var err error
	msg.Filter, err = ReadVarBytes(r, MaxFilterLoadFilterSize,
		"filterload filter size")
	if err != nil {
		return err
	}

	if msg.HashFuncs, err = readUint32(r, "hash funcs"); err != nil {
		return err
	}
	if msg.HashFuncs > MaxFilterLoadHashFuncs {
		str := fmt.Sprintf("too many filter hash functions for message "+
			"[count %v, max %v]", msg.HashFuncs, MaxFilterLoadHashFuncs)
		return messageError("MsgFilterLoad.Deserialize", ErrMalformedMessage, str)
	}

	if msg.Tweak, err = readUint32(r, "tweak"); err != nil {
		return err
	}

	flags, err := readUint8(r, "flags")
	if err != nil {
		return err
	}
	msg.Flags = BloomUpdateType(flags)
	return nil
}

// Serialize encodes the receiver to w.
func (msg *MsgFilterLoad) Serialize(w io.Writer) error {
	size := len(msg.Filter)
	if size > MaxFilterLoadFilterSize {
		str := fmt.Sprintf("filterload filter size too large for message "+
			"[size %v, max %v]", size, MaxFilterLoadFilterSize)
		return messageError("MsgFilterLoad.Serialize", ErrMalformedMessage, str)
	}

	if msg.HashFuncs > MaxFilterLoadHashFuncs {
		str := fmt.Sprintf("too many filter hash functions for message "+
			"[count %v, max %v]", msg.HashFuncs, MaxFilterLoadHashFuncs)
		return messageError("MsgFilterLoad.Serialize", ErrMalformedMessage, str)
	}

	if err := WriteVarBytes(w, msg.Filter); err != nil {
		return err
	}
	if err := writeUint32(w, msg.HashFuncs); err != nil {
		return err
	}
	if err := writeUint32(w, msg.Tweak); err != nil {
		return err
	}
	return writeUint8(w, uint8(msg.Flags))
}

// SerializeSize returns the number of bytes Serialize writes.
func (msg *MsgFilterLoad) SerializeSize() int {
	return VarBytesSerializeSize(msg.Filter) + 4 + 4 + 1
}

// Command returns the protocol command string for the message.
func (msg *MsgFilterLoad) Command() string {
	return CmdFilterLoad
}

// MinPayloadSize returns the size of a message with an empty filter.
func (msg *MsgFilterLoad) MinPayloadSize() int {
	return 1 + 4 + 4 + 1
}

func (msg *MsgFilterLoad) message() {}

// NewMsgFilterLoad returns a new filterload message.
func NewMsgFilterLoad(filter []byte, hashFuncs uint32, tweak uint32, flags BloomUpdateType) *MsgFilterLoad {
	return &MsgFilterLoad{
		Filter:    filter,
		HashFuncs: hashFuncs,
		Tweak:     tweak,
		Flags:     flags,
	}
}
