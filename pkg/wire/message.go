package wire

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

const (
	// CommandSize is the fixed size of all commands in the message header.
	// Shorter commands are zero padded.
	CommandSize = 12

	// MessageHeaderSize is the number of bytes in a message header that
	// carries a checksum: magic 4 + command 12 + length 4 + checksum 4.
	MessageHeaderSize = 24

	// MessageHeaderSizeNoChecksum is the header size without the checksum.
	MessageHeaderSizeNoChecksum = 20

	// MaxMessagePayload is the maximum bytes a message can be regardless of
	// other individual limits imposed by messages themselves.
	MaxMessagePayload = 1024 * 1024 * 32 // 32MB
)

// Commands used in message headers which describe the type of message.
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdGetAddr     = "getaddr"
	CmdAddr        = "addr"
	CmdGetBlocks   = "getblocks"
	CmdInv         = "inv"
	CmdGetData     = "getdata"
	CmdNotFound    = "notfound"
	CmdBlock       = "block"
	CmdTx          = "tx"
	CmdGetHeaders  = "getheaders"
	CmdHeaders     = "headers"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdMemPool     = "mempool"
	CmdFilterAdd   = "filteradd"
	CmdFilterClear = "filterclear"
	CmdFilterLoad  = "filterload"
	CmdMerkleBlock = "merkleblock"
)

// Message is a typed peer protocol payload. The set of implementations is
// closed: every command this package understands has exactly one type, and
// MakeEmptyMessage is the only place a command name is mapped to one.
//
// SerializeSize must predict exactly the number of bytes Serialize writes,
// since the envelope length field is taken from it.
type Message interface {
	// Command returns the command name carried in the envelope.
	Command() string

	// MinPayloadSize returns the smallest valid payload length.
	MinPayloadSize() int

	// SerializeSize returns the payload length Serialize will produce.
	SerializeSize() int

	// Serialize writes the payload to w.
	Serialize(w io.Writer) error

	// Deserialize reads the payload from r.
	Deserialize(r io.Reader) error

	message()
}

// MakeEmptyMessage creates a message of the appropriate concrete type based
// on the command.
func MakeEmptyMessage(command string) (Message, error) {
	var msg Message
	switch command {
	case CmdVersion:
		msg = &MsgVersion{}

	case CmdVerAck:
		msg = &MsgVerAck{}

	case CmdGetAddr:
		msg = &MsgGetAddr{}

	case CmdAddr:
		msg = &MsgAddr{}

	case CmdGetBlocks:
		msg = &MsgGetBlocks{}

	case CmdBlock:
		msg = &MsgBlock{}

	case CmdInv:
		msg = &MsgInv{}

	case CmdGetData:
		msg = &MsgGetData{}

	case CmdNotFound:
		msg = &MsgNotFound{}

	case CmdTx:
		msg = &MsgTx{}

	case CmdPing:
		msg = &MsgPing{}

	case CmdPong:
		msg = &MsgPong{}

	case CmdGetHeaders:
		msg = &MsgGetHeaders{}

	case CmdHeaders:
		msg = &MsgHeaders{}

	case CmdMemPool:
		msg = &MsgMemPool{}

	case CmdFilterAdd:
		msg = &MsgFilterAdd{}

	case CmdFilterClear:
		msg = &MsgFilterClear{}

	case CmdFilterLoad:
		msg = &MsgFilterLoad{}

	case CmdMerkleBlock:
		msg = &MsgMerkleBlock{}

	default:
		str := fmt.Sprintf("unhandled command [%s]", command)
		return nil, messageError("MakeEmptyMessage", ErrUnknownCommand, str)
	}
	return msg, nil
}

// MessageHeader is the decoded envelope of a message.
type MessageHeader struct {
	Magic    BitcoinNet // 4 bytes
	Command  string     // 12 bytes, NUL padded on the wire
	Length   uint32     // 4 bytes
	Checksum [4]byte    // 4 bytes, zero when HasChecksum is false

	// HasChecksum is true when the envelope carried a checksum field.
	HasChecksum bool

	// ChecksumValid is true when there was no checksum to check or the
	// checksum matched the payload.
	ChecksumValid bool
}

// Checksum returns the first four bytes of the double SHA-256 of payload.
func Checksum(payload []byte) [4]byte {
	var cksum [4]byte
	copy(cksum[:], chainhash.DoubleHashB(payload))
	return cksum
}

// PayloadHash returns the double SHA-256 of the serialized payload of msg.
// The envelope is not part of the hash.
func PayloadHash(msg Message) (chainhash.Hash, error) {
	payload, err := encodePayload(msg)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(payload), nil
}

// encodePayload serializes msg and checks that the result has the length
// SerializeSize promised.
func encodePayload(msg Message) ([]byte, error) {
	size := msg.SerializeSize()
	if size > MaxMessagePayload {
		str := fmt.Sprintf("message payload is too large - encoded "+
			"%d bytes, but maximum message payload is %d bytes",
			size, MaxMessagePayload)
		return nil, messageError("encodePayload", ErrPayloadTooLarge, str)
	}

	var bw bytes.Buffer
	bw.Grow(size)
	if err := msg.Serialize(&bw); err != nil {
		return nil, err
	}

	if bw.Len() != size {
		return nil, fmt.Errorf("%s: serialized %d bytes, expected %d",
			msg.Command(), bw.Len(), size)
	}
	return bw.Bytes(), nil
}

// EncodeMessage returns the envelope with checksum followed by the payload of
// msg.
func EncodeMessage(net BitcoinNet, msg Message) ([]byte, error) {
	return encodeMessage(net, msg, true)
}

// EncodeMessageWithoutChecksum returns the 20-byte envelope without checksum
// followed by the payload of msg.
func EncodeMessageWithoutChecksum(net BitcoinNet, msg Message) ([]byte, error) {
	return encodeMessage(net, msg, false)
}

func encodeMessage(net BitcoinNet, msg Message, withChecksum bool) ([]byte, error) {
	// Enforce max command size.
	var command [CommandSize]byte
	cmd := msg.Command()
	if len(cmd) > CommandSize {
		str := fmt.Sprintf("command [%s] is too long [max %v]",
			cmd, CommandSize)
		return nil, messageError("EncodeMessage", ErrInvalidCommand, str)
	}
	copy(command[:], cmd)

	payload, err := encodePayload(msg)
	if err != nil {
		return nil, err
	}

	headerSize := MessageHeaderSizeNoChecksum
	if withChecksum {
		headerSize = MessageHeaderSize
	}

	buf := make([]byte, 0, headerSize+len(payload))
	buf = littleEndian.AppendUint32(buf, uint32(net))
	buf = append(buf, command[:]...)
	buf = littleEndian.AppendUint32(buf, uint32(len(payload)))
	if withChecksum {
		cksum := Checksum(payload)
		buf = append(buf, cksum[:]...)
	}
	buf = append(buf, payload...)

	log.Tracef("Encoded %s message (%d bytes payload)", cmd, len(payload))
	return buf, nil
}

// parseCommand strips the NUL padding of a raw command field. Bytes after the
// first NUL must also be NUL.
func parseCommand(raw []byte) (string, error) {
	end := bytes.IndexByte(raw, 0)
	if end == -1 {
		end = len(raw)
	}
	for _, b := range raw[end:] {
		if b != 0 {
			return "", messageError("parseCommand", ErrInvalidCommand,
				"command has bytes after its NUL padding")
		}
	}

	cmd := string(raw[:end])
	if !utf8.ValidString(cmd) {
		return "", messageError("parseCommand", ErrInvalidCommand,
			"command is not valid UTF-8")
	}
	return cmd, nil
}

// DecodeHeader reads the 20 bytes shared by both envelope forms: magic,
// command and payload length. It is meant for transports that need the
// length before the whole message has arrived.
func DecodeHeader(buf []byte) (*MessageHeader, error) {
	if len(buf) < MessageHeaderSizeNoChecksum {
		str := fmt.Sprintf("message header needs %d bytes, got %d",
			MessageHeaderSizeNoChecksum, len(buf))
		return nil, messageError("DecodeHeader", ErrTruncatedBuffer, str)
	}

	cmd, err := parseCommand(buf[4 : 4+CommandSize])
	if err != nil {
		return nil, err
	}

	hdr := &MessageHeader{
		Magic:         BitcoinNet(littleEndian.Uint32(buf[0:4])),
		Command:       cmd,
		Length:        littleEndian.Uint32(buf[16:20]),
		ChecksumValid: true,
	}
	if hdr.Length > MaxMessagePayload {
		str := fmt.Sprintf("message payload is too large - header "+
			"indicates %d bytes, but max message payload is %d "+
			"bytes.", hdr.Length, MaxMessagePayload)
		return nil, messageError("DecodeHeader", ErrPayloadTooLarge, str)
	}
	return hdr, nil
}

// DecodeMessage decodes one complete message: envelope followed by payload.
//
// Whether the envelope carries a checksum is inferred from the buffer length:
// exactly 20+length bytes means no checksum, exactly 24+length bytes means a
// checksum is present. A checksum that does not match the payload is
// reported through the header's ChecksumValid field, not as an error, and the
// caller decides whether to drop the message.
//
// Returns an error if:
//   - the buffer is shorter than the envelope and declared payload
//     (ErrTruncatedBuffer)
//   - the command has no decoder (ErrUnknownCommand)
//   - the payload is shorter than the command's minimum or a nested length
//     runs past its end (ErrMalformedMessage)
func DecodeMessage(buf []byte) (*MessageHeader, Message, error) {
	hdr, err := DecodeHeader(buf)
	if err != nil {
		return nil, nil, err
	}

	length := int(hdr.Length)
	var payload []byte
	switch {
	case len(buf) < MessageHeaderSizeNoChecksum+length:
		str := fmt.Sprintf("message needs %d payload bytes, got %d",
			length, len(buf)-MessageHeaderSizeNoChecksum)
		return hdr, nil, messageError("DecodeMessage", ErrTruncatedBuffer, str)

	case len(buf) == MessageHeaderSizeNoChecksum+length:
		payload = buf[MessageHeaderSizeNoChecksum:]

	case len(buf) == MessageHeaderSize+length:
		hdr.HasChecksum = true
		copy(hdr.Checksum[:], buf[MessageHeaderSizeNoChecksum:MessageHeaderSize])
		payload = buf[MessageHeaderSize:]

	default:
		str := fmt.Sprintf("buffer of %d bytes does not match a %d byte "+
			"payload with or without checksum", len(buf), length)
		return hdr, nil, messageError("DecodeMessage", ErrMalformedMessage, str)
	}

	if hdr.HasChecksum {
		hdr.ChecksumValid = Checksum(payload) == hdr.Checksum
		if !hdr.ChecksumValid {
			log.Debugf("Checksum mismatch on %s message: header %x, "+
				"payload %x", hdr.Command, hdr.Checksum, Checksum(payload))
		}
	}

	msg, err := MakeEmptyMessage(hdr.Command)
	if err != nil {
		return hdr, nil, err
	}

	if len(payload) < msg.MinPayloadSize() {
		str := fmt.Sprintf("%s payload is %d bytes, minimum is %d",
			hdr.Command, len(payload), msg.MinPayloadSize())
		return hdr, nil, messageError("DecodeMessage", ErrMalformedMessage, str)
	}

	pr := bytes.NewReader(payload)
	if err := msg.Deserialize(pr); err != nil {
		return hdr, nil, &MessageError{
			Code:        ErrMalformedMessage,
			Func:        "DecodeMessage",
			Description: fmt.Sprintf("failed to decode %s payload", hdr.Command),
			Cause:       err,
		}
	}
	if pr.Len() > 0 {
		log.Debugf("Ignoring %d trailing bytes in %s payload", pr.Len(),
			hdr.Command)
	}

	log.Tracef("Decoded %s message: %v", hdr.Command, spewMessage(msg))
	return hdr, msg, nil
}
