package script

import (
	"encoding/binary"
	"fmt"
)

// MaxScriptSize is the maximum allowed length of a raw script.
const MaxScriptSize = 10000

// PushData returns the opcode sequence that pushes data using the smallest
// push opcode that can carry it. An empty push is OP_0.
func PushData(data []byte) []byte {
	n := len(data)
	var b []byte
	switch {
	case n == 0:
		return []byte{OP_0}

	case n <= OP_DATA_75:
		b = make([]byte, 0, 1+n)
		b = append(b, byte(n))

	case n <= 0xff:
		b = make([]byte, 0, 2+n)
		b = append(b, OP_PUSHDATA1, byte(n))

	case n <= 0xffff:
		b = make([]byte, 0, 3+n)
		b = append(b, OP_PUSHDATA2)
		b = binary.LittleEndian.AppendUint16(b, uint16(n))

	default:
		b = make([]byte, 0, 5+n)
		b = append(b, OP_PUSHDATA4)
		b = binary.LittleEndian.AppendUint32(b, uint32(n))
	}
	return append(b, data...)
}

// Builder provides a facility for building custom scripts. It allows you to
// push opcodes and data while respecting the maximum script size, so errors
// are checked once when Script is called.
//
//	script, err := NewBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
//		AddData(hash).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).Script()
type Builder struct {
	script []byte
	err    error
}

// NewBuilder returns a new instance of a script builder.
func NewBuilder() *Builder {
	return &Builder{
		script: make([]byte, 0, 64),
	}
}

// AddOp pushes the passed opcode to the end of the script.
func (b *Builder) AddOp(opcode byte) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.script)+1 > MaxScriptSize {
		b.err = scriptError(ErrScriptTooLong, fmt.Sprintf("adding an "+
			"opcode would exceed the maximum allowed script length "+
			"of %d", MaxScriptSize))
		return b
	}

	b.script = append(b.script, opcode)
	return b
}

// AddData pushes the passed data to the end of the script.
func (b *Builder) AddData(data []byte) *Builder {
	if b.err != nil {
		return b
	}
	push := PushData(data)
	if len(b.script)+len(push) > MaxScriptSize {
		b.err = scriptError(ErrScriptTooLong, fmt.Sprintf("adding %d "+
			"bytes of data would exceed the maximum allowed script "+
			"length of %d", len(data), MaxScriptSize))
		return b
	}

	b.script = append(b.script, push...)
	return b
}

// Script returns the currently built script. When any errors occurred while
// building the script, the script will be returned up the point of the first
// error along with the error.
func (b *Builder) Script() ([]byte, error) {
	return b.script, b.err
}
