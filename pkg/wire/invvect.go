package wire

import (
	"fmt"
	"io"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

const (
	// MaxInvPerMsg is the maximum number of inventory vectors that can be
	// in a single inv, getdata or notfound message.
	MaxInvPerMsg = 50000

	// inventory vector size: type 4 + hash 32.
	inventoryVectorSize = 4 + chainhash.HashSize
)

// InvType represents the allowed types of inventory vectors.
type InvType uint32

// These constants define the various supported inventory vector types.
const (
	InvTypeError         InvType = 0
	InvTypeTx            InvType = 1
	InvTypeBlock         InvType = 2
	InvTypeFilteredBlock InvType = 3
)

// Map of service flags back to their constant names for pretty printing.
var ivStrings = map[InvType]string{
	InvTypeError:         "ERROR",
	InvTypeTx:            "MSG_TX",
	InvTypeBlock:         "MSG_BLOCK",
	InvTypeFilteredBlock: "MSG_FILTERED_BLOCK",
}

// String returns the InvType in human-readable form.
func (invtype InvType) String() string {
	if s, ok := ivStrings[invtype]; ok {
		return s
	}

	return fmt.Sprintf("Unknown InvType (%d)", uint32(invtype))
}

// InvVect defines an inventory vector which is used to describe data, as
// specified by the Type field, that a peer wants, has, or does not have to
// another peer.
type InvVect struct {
	Type InvType        // Type of data
	Hash chainhash.Hash // Hash of the data
}

// NewInvVect returns a new InvVect using the provided type and hash.
func NewInvVect(typ InvType, hash *chainhash.Hash) *InvVect {
	return &InvVect{
		Type: typ,
		Hash: *hash,
	}
}

// readInvVect reads an encoded InvVect from r.
func readInvVect(r io.Reader, iv *InvVect) error {
	typ, err := readUint32(r, "inventory type")
	if err != nil {
		return err
	}
	iv.Type = InvType(typ)
	return readHash(r, &iv.Hash, "inventory hash")
}

// writeInvVect serializes an InvVect to w.
func writeInvVect(w io.Writer, iv *InvVect) error {
	if err := writeUint32(w, uint32(iv.Type)); err != nil {
		return err
	}
	return writeHash(w, &iv.Hash)
}

// invList is the payload shared by inv, getdata and notfound.
type invList struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (l *invList) AddInvVect(iv *InvVect) error {
	if len(l.InvList)+1 > MaxInvPerMsg {
		str := fmt.Sprintf("too many invvect in message [max %v]",
			MaxInvPerMsg)
		return messageError("AddInvVect", ErrMalformedMessage, str)
	}

	l.InvList = append(l.InvList, iv)
	return nil
}

func (l *invList) deserialize(r io.Reader) error {
	count, err := readCount(r, MaxInvPerMsg, "inventory vectors")
	if err != nil {
		return err
	}

	l.InvList = make([]*InvVect, 0, preallocCap(count))
	for i := uint64(0); i < count; i++ {
		iv := new(InvVect)
		if err := readInvVect(r, iv); err != nil {
			return err
		}
		l.InvList = append(l.InvList, iv)
	}
	return nil
}

func (l *invList) serialize(w io.Writer) error {
	count := len(l.InvList)
	if count > MaxInvPerMsg {
		str := fmt.Sprintf("too many invvect in message [%v]", count)
		return messageError("serialize", ErrMalformedMessage, str)
	}

	if err := WriteVarInt(w, uint64(count)); err != nil {
		return err
	}
	for _, iv := range l.InvList {
		if err := writeInvVect(w, iv); err != nil {
			return err
		}
	}
	return nil
}

func (l *invList) serializeSize() int {
	return VarIntSerializeSize(uint64(len(l.InvList))) +
		len(l.InvList)*inventoryVectorSize
}
