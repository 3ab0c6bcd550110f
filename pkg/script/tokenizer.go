package script

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Tokenizer walks a script one opcode at a time.
//
//	t := MakeTokenizer(script)
//	for t.Next() {
//		op, data := t.Opcode(), t.Data()
//	}
//	if err := t.Err(); err != nil {
//		...
//	}
type Tokenizer struct {
	script []byte
	offset int
	op     byte
	data   []byte
	err    error
}

// MakeTokenizer returns a tokenizer positioned before the first opcode.
func MakeTokenizer(script []byte) Tokenizer {
	return Tokenizer{script: script}
}

// Next advances to the next opcode and reports whether there was one. It
// returns false at the end of the script or on a malformed push, which Err
// then reports.
func (t *Tokenizer) Next() bool {
	if t.Done() {
		return false
	}

	op := t.script[t.offset]
	t.offset++
	t.op = op
	t.data = nil

	var n int
	switch {
	case op >= OP_DATA_1 && op <= OP_DATA_75:
		n = int(op)

	case op == OP_PUSHDATA1:
		if len(t.script)-t.offset < 1 {
			return t.fail("OP_PUSHDATA1 length")
		}
		n = int(t.script[t.offset])
		t.offset++

	case op == OP_PUSHDATA2:
		if len(t.script)-t.offset < 2 {
			return t.fail("OP_PUSHDATA2 length")
		}
		n = int(binary.LittleEndian.Uint16(t.script[t.offset:]))
		t.offset += 2

	case op == OP_PUSHDATA4:
		if len(t.script)-t.offset < 4 {
			return t.fail("OP_PUSHDATA4 length")
		}
		n = int(binary.LittleEndian.Uint32(t.script[t.offset:]))
		t.offset += 4

	default:
		return true
	}

	if n < 0 || len(t.script)-t.offset < n {
		return t.fail(fmt.Sprintf("push of %d bytes", n))
	}
	t.data = t.script[t.offset : t.offset+n]
	t.offset += n
	return true
}

func (t *Tokenizer) fail(what string) bool {
	t.err = scriptError(ErrMalformedPush, fmt.Sprintf("%s at offset %d "+
		"runs past the end of a %d byte script", what, t.offset,
		len(t.script)))
	t.offset = len(t.script)
	return false
}

// Done reports whether the script is exhausted or a failure occurred.
func (t *Tokenizer) Done() bool {
	return t.err != nil || t.offset >= len(t.script)
}

// Opcode returns the current opcode.
func (t *Tokenizer) Opcode() byte {
	return t.op
}

// Data returns the data pushed by the current opcode, nil for non-push
// opcodes.
func (t *Tokenizer) Data() []byte {
	return t.data
}

// ByteIndex returns the offset of the next opcode.
func (t *Tokenizer) ByteIndex() int {
	return t.offset
}

// Err returns the malformed push that stopped the walk, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// DisasmString formats a script as space separated opcode names with pushed
// data in hex.
func DisasmString(script []byte) (string, error) {
	var parts []string
	t := MakeTokenizer(script)
	for t.Next() {
		op := t.Opcode()
		switch {
		case t.Data() != nil:
			parts = append(parts, hex.EncodeToString(t.Data()))
		case IsSmallInt(op):
			parts = append(parts, fmt.Sprintf("OP_%d", AsSmallInt(op)))
		case opcodeNames[op] != "":
			parts = append(parts, opcodeNames[op])
		default:
			parts = append(parts, fmt.Sprintf("OP_UNKNOWN%d", op))
		}
	}
	return strings.Join(parts, " "), t.Err()
}
