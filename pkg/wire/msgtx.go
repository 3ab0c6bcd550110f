package wire

import "io"

// MsgTx implements the Message interface and represents a tx message. It is
// used to deliver transaction information in response to a getdata message
// for a given transaction.
type MsgTx struct {
	*Transaction
}

// NewMsgTx returns a new tx message wrapping tx.
func NewMsgTx(tx *Transaction) *MsgTx {
	return &MsgTx{Transaction: tx}
}

// Deserialize decodes r into the receiver.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	if msg.Transaction == nil {
		msg.Transaction = &Transaction{}
	}
	return msg.Transaction.Deserialize(r)
}

// Command returns the protocol command string for the message.
func (msg *MsgTx) Command() string {
	return CmdTx
}

// MinPayloadSize returns the size of a transaction with no inputs or
// outputs.
func (msg *MsgTx) MinPayloadSize() int {
	return minTxPayload
}

func (msg *MsgTx) message() {}
