package script

// Opcodes used by the standard scripts. Values 0x01 through 0x4b push that
// many following bytes.
const (
	OP_0             = 0x00
	OP_FALSE         = 0x00
	OP_DATA_1        = 0x01
	OP_DATA_20       = 0x14
	OP_DATA_33       = 0x21
	OP_DATA_65       = 0x41
	OP_DATA_75       = 0x4b
	OP_PUSHDATA1     = 0x4c
	OP_PUSHDATA2     = 0x4d
	OP_PUSHDATA4     = 0x4e
	OP_1NEGATE       = 0x4f
	OP_1             = 0x51
	OP_TRUE          = 0x51
	OP_16            = 0x60
	OP_RETURN        = 0x6a
	OP_DUP           = 0x76
	OP_EQUAL         = 0x87
	OP_EQUALVERIFY   = 0x88
	OP_HASH160       = 0xa9
	OP_CHECKSIG      = 0xac
	OP_CHECKMULTISIG = 0xae
)

var opcodeNames = map[byte]string{
	OP_0:             "OP_0",
	OP_PUSHDATA1:     "OP_PUSHDATA1",
	OP_PUSHDATA2:     "OP_PUSHDATA2",
	OP_PUSHDATA4:     "OP_PUSHDATA4",
	OP_1NEGATE:       "OP_1NEGATE",
	OP_RETURN:        "OP_RETURN",
	OP_DUP:           "OP_DUP",
	OP_EQUAL:         "OP_EQUAL",
	OP_EQUALVERIFY:   "OP_EQUALVERIFY",
	OP_HASH160:       "OP_HASH160",
	OP_CHECKSIG:      "OP_CHECKSIG",
	OP_CHECKMULTISIG: "OP_CHECKMULTISIG",
}

// IsSmallInt reports whether op pushes a number from 1 to 16.
func IsSmallInt(op byte) bool {
	return op >= OP_1 && op <= OP_16
}

// AsSmallInt returns the number pushed by OP_1 through OP_16.
func AsSmallInt(op byte) int {
	return int(op-OP_1) + 1
}

// SmallIntOp returns the opcode that pushes n, for n in [1, 16].
func SmallIntOp(n int) byte {
	return byte(OP_1 + n - 1)
}
