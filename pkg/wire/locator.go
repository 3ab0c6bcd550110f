package wire

import (
	"fmt"
	"io"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
)

// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
// allowed per message.
const MaxBlockLocatorsPerMsg = 500

// blockLocator is the payload shared by getblocks and getheaders: a protocol
// version, a list of locator hashes from newest to oldest, and a stop hash.
type blockLocator struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []*chainhash.Hash
	HashStop           chainhash.Hash
}

// AddBlockLocatorHash adds a new block locator hash to the message.
func (l *blockLocator) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(l.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		str := fmt.Sprintf("too many block locator hashes for message [max %v]",
			MaxBlockLocatorsPerMsg)
		return messageError("AddBlockLocatorHash", ErrMalformedMessage, str)
	}

	l.BlockLocatorHashes = append(l.BlockLocatorHashes, hash)
	return nil
}

func (l *blockLocator) deserialize(r io.Reader) error {
	var err error
	if l.ProtocolVersion, err = readUint32(r, "protocol version"); err != nil {
		return err
	}

	count, err := readCount(r, MaxBlockLocatorsPerMsg, "block locator hashes")
	if err != nil {
		return err
	}

	l.BlockLocatorHashes = make([]*chainhash.Hash, 0, preallocCap(count))
	for i := uint64(0); i < count; i++ {
		hash := new(chainhash.Hash)
		if err := readHash(r, hash, "block locator hash"); err != nil {
			return err
		}
		l.BlockLocatorHashes = append(l.BlockLocatorHashes, hash)
	}

	return readHash(r, &l.HashStop, "hash stop")
}

func (l *blockLocator) serialize(w io.Writer) error {
	count := len(l.BlockLocatorHashes)
	if count > MaxBlockLocatorsPerMsg {
		str := fmt.Sprintf("too many block locator hashes for message "+
			"[count %v, max %v]", count, MaxBlockLocatorsPerMsg)
		return messageError("serialize", ErrMalformedMessage, str)
	}

	if err := writeUint32(w, l.ProtocolVersion); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(count)); err != nil {
		return err
	}
	for _, hash := range l.BlockLocatorHashes {
		if err := writeHash(w, hash); err != nil {
			return err
		}
	}
	return writeHash(w, &l.HashStop)
}

func (l *blockLocator) serializeSize() int {
	return 4 + VarIntSerializeSize(uint64(len(l.BlockLocatorHashes))) +
		(len(l.BlockLocatorHashes)+1)*chainhash.HashSize
}

// minLocatorPayload is version 4 + empty count 1 + stop hash 32.
const minLocatorPayload = 4 + 1 + chainhash.HashSize
