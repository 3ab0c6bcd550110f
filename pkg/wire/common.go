package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

const (
	// MaxVarIntPayload is the maximum payload size for a variable length
	// integer.
	MaxVarIntPayload = 9
)

var (
	// littleEndian is a convenience variable since binary.LittleEndian is
	// quite long.
	littleEndian = binary.LittleEndian

	// bigEndian is a convenience variable since binary.BigEndian is quite
	// long.
	bigEndian = binary.BigEndian
)

// readFull reads exactly len(b) bytes from r. A short read is reported as
// ErrTruncatedBuffer naming the field that did not fit.
func readFull(r io.Reader, b []byte, field string) error {
	_, err := io.ReadFull(r, b)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return messageError("readFull", ErrTruncatedBuffer,
			fmt.Sprintf("%s: need %d bytes", field, len(b)))
	}
	return err
}

func readUint8(r io.Reader, field string) (uint8, error) {
	var buf [1]byte
	if err := readFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readUint16BE(r io.Reader, field string) (uint16, error) {
	var buf [2]byte
	if err := readFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return bigEndian.Uint16(buf[:]), nil
}

func readUint32(r io.Reader, field string) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return littleEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader, field string) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:], field); err != nil {
		return 0, err
	}
	return littleEndian.Uint64(buf[:]), nil
}

// readHash reads a 32-byte hash. Hashes travel in digest order, which is how
// chainhash.Hash stores them.
func readHash(r io.Reader, hash *chainhash.Hash, field string) error {
	return readFull(r, hash[:], field)
}

func writeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeUint16BE(w io.Writer, v uint16) error {
	var buf [2]byte
	bigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	littleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	littleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeHash(w io.Writer, hash *chainhash.Hash) error {
	_, err := w.Write(hash[:])
	return err
}

// ReadVarInt reads a variable length integer from r.
//
// Any of the four prefix forms is accepted for any value, so a peer that
// sends 0xfd 0x05 0x00 for 5 is understood. WriteVarInt always picks the
// shortest form.
func ReadVarInt(r io.Reader) (uint64, error) {
	discriminant, err := readUint8(r, "varint discriminant")
	if err != nil {
		return 0, err
	}

	switch discriminant {
	case 0xff:
		return readUint64(r, "varint uint64")

	case 0xfe:
		v, err := readUint32(r, "varint uint32")
		return uint64(v), err

	case 0xfd:
		var buf [2]byte
		if err := readFull(r, buf[:], "varint uint16"); err != nil {
			return 0, err
		}
		return uint64(littleEndian.Uint16(buf[:])), nil

	default:
		return uint64(discriminant), nil
	}
}

// WriteVarInt serializes val to w using the minimal variable length
// encoding.
func WriteVarInt(w io.Writer, val uint64) error {
	_, err := w.Write(AppendVarInt(nil, val))
	return err
}

// AppendVarInt appends the minimal variable length encoding of val to b.
func AppendVarInt(b []byte, val uint64) []byte {
	switch {
	case val < 0xfd:
		return append(b, uint8(val))

	case val <= math.MaxUint16:
		b = append(b, 0xfd)
		return littleEndian.AppendUint16(b, uint16(val))

	case val <= math.MaxUint32:
		b = append(b, 0xfe)
		return littleEndian.AppendUint32(b, uint32(val))

	default:
		b = append(b, 0xff)
		return littleEndian.AppendUint64(b, val)
	}
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= math.MaxUint16:
		return 3
	case val <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// maxPreallocElems bounds the capacity reserved up front for a decoded list.
// Longer lists grow as their elements actually arrive.
const maxPreallocElems = 1024

// preallocCap returns the capacity to reserve for a list of count elements.
func preallocCap(count uint64) int {
	if count > maxPreallocElems {
		return maxPreallocElems
	}
	return int(count)
}

// readCount reads a VarInt element count and rejects counts above max, so a
// peer cannot make us allocate for elements it never sends.
func readCount(r io.Reader, max uint64, field string) (uint64, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return 0, err
	}
	if count > max {
		return 0, messageError("readCount", ErrMalformedMessage,
			fmt.Sprintf("too many %s [count %d, max %d]", field, count, max))
	}
	return count, nil
}

// ReadVarBytes reads a VarInt length-prefixed byte array. maxAllowed bounds
// the declared length.
func ReadVarBytes(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	if count > uint64(maxAllowed) {
		str := fmt.Sprintf("%s is larger than the max allowed size "+
			"[count %d, max %d]", fieldName, count, maxAllowed)
		return nil, messageError("ReadVarBytes", ErrMalformedMessage, str)
	}

	b := make([]byte, count)
	if err := readFull(r, b, fieldName); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteVarBytes serializes a VarInt length-prefixed byte array to w.
func WriteVarBytes(w io.Writer, bytes []byte) error {
	if err := WriteVarInt(w, uint64(len(bytes))); err != nil {
		return err
	}
	_, err := w.Write(bytes)
	return err
}

// VarBytesSerializeSize returns the serialized size of a VarInt
// length-prefixed byte array.
func VarBytesSerializeSize(b []byte) int {
	return VarIntSerializeSize(uint64(len(b))) + len(b)
}

// ReadVarString reads a VarInt length-prefixed string.
func ReadVarString(r io.Reader, maxAllowed uint32) (string, error) {
	b, err := ReadVarBytes(r, maxAllowed, "string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteVarString serializes a VarInt length-prefixed string to w.
func WriteVarString(w io.Writer, str string) error {
	return WriteVarBytes(w, []byte(str))
}
