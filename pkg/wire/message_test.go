package wire

import (
	"bytes"
	"net"
	"testing"
	"time"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/ciphrex/mSIGNA-sub003/pkg/chainhash"
	"github.com/ciphrex/mSIGNA-sub003/pkg/merkle"
	"github.com/stretchr/testify/require"
)

func testHash(b byte) chainhash.Hash {
	return chainhash.DoubleHashH([]byte{b})
}

func testAddr(port uint16) NetAddress {
	return NetAddress{
		Timestamp: 0x495fab29,
		Services:  SFNodeNetwork,
		IP:        net.ParseIP("127.0.0.1"),
		Port:      port,
	}
}

func testTransaction() *Transaction {
	tx := NewTransaction(TxVersion)
	prevHash := testHash(1)
	tx.AddTxIn(NewTxIn(NewOutPoint(&prevHash, 3), []byte{0x51, 0x52}))
	tx.AddTxOut(NewTxOut(5000000000, []byte{0x76, 0xa9}))
	tx.AddTxOut(NewTxOut(1, []byte{0x6a}))
	tx.SetLockTime(500)
	return tx
}

func testHeader() *BlockHeader {
	prev, root := testHash(2), testHash(3)
	bh := NewBlockHeader(2, &prev, &root, 0x1d00ffff, 42)
	bh.SetTimestamp(time.Unix(1231006505, 0))
	return bh
}

// testMessages returns one populated value of every message type.
func testMessages() []Message {
	version := NewMsgVersion(ProtocolVersion, &NetAddress{IP: net.ParseIP("::1"),
		Port: 8333}, &NetAddress{IP: net.ParseIP("10.0.0.1"), Port: 18333},
		0x1122334455667788, 1231006505, 234)
	version.Services = SFNodeNetwork | SFNodeBloom

	addr := NewMsgAddr()
	a1, a2 := testAddr(8333), testAddr(8334)
	_ = addr.AddAddress(&a1)
	_ = addr.AddAddress(&a2)

	h1, h2 := testHash(10), testHash(11)
	inv := NewMsgInv()
	_ = inv.AddInvVect(NewInvVect(InvTypeTx, &h1))
	_ = inv.AddInvVect(NewInvVect(InvTypeBlock, &h2))
	getData := NewMsgGetData()
	_ = getData.AddInvVect(NewInvVect(InvTypeFilteredBlock, &h1))
	notFound := NewMsgNotFound()
	_ = notFound.AddInvVect(NewInvVect(InvTypeTx, &h2))

	getBlocks := NewMsgGetBlocks(&h2)
	_ = getBlocks.AddBlockLocatorHash(&h1)
	getHeaders := NewMsgGetHeaders()
	_ = getHeaders.AddBlockLocatorHash(&h1)
	_ = getHeaders.AddBlockLocatorHash(&h2)

	block := NewMsgBlock(testHeader())
	block.AddTransaction(testTransaction())

	headers := NewMsgHeaders()
	_ = headers.AddBlockHeader(testHeader())
	_ = headers.AddBlockHeader(testHeader())

	leaves := []merkle.Leaf{{Hash: h1, Matched: true}, {Hash: h2}, {Hash: testHash(12)}}
	merkleBlock := NewMsgMerkleBlock(testHeader(), merkle.NewPartialTree(leaves))

	return []Message{
		version,
		NewMsgVerAck(),
		addr,
		inv,
		getData,
		notFound,
		getBlocks,
		getHeaders,
		NewMsgTx(testTransaction()),
		block,
		merkleBlock,
		headers,
		NewMsgGetAddr(),
		NewMsgFilterLoad([]byte{0x01, 0x02, 0x03}, 10, 0xdeadbeef, BloomUpdateAll),
		NewMsgFilterAdd([]byte{0xaa, 0xbb}),
		NewMsgFilterClear(),
		NewMsgPing(0x0102030405060708),
		NewMsgPong(0x0807060504030201),
		NewMsgMemPool(),
	}
}

func TestMessageRoundTrip(t *testing.T) {
	for _, msg := range testMessages() {
		for _, withChecksum := range []bool{true, false} {
			var buf []byte
			var err error
			if withChecksum {
				buf, err = EncodeMessage(MainNet, msg)
			} else {
				buf, err = EncodeMessageWithoutChecksum(MainNet, msg)
			}
			require.NoError(t, err, msg.Command())

			hdr, decoded, err := DecodeMessage(buf)
			require.NoError(t, err, msg.Command())
			require.Equal(t, MainNet, hdr.Magic)
			require.Equal(t, msg.Command(), hdr.Command)
			require.Equal(t, uint32(msg.SerializeSize()), hdr.Length)
			require.Equal(t, withChecksum, hdr.HasChecksum)
			require.True(t, hdr.ChecksumValid)
			require.Equal(t, msg, decoded, msg.Command())

			again, err := EncodeMessage(MainNet, decoded)
			require.NoError(t, err)
			want, err := EncodeMessage(MainNet, msg)
			require.NoError(t, err)
			require.Equal(t, want, again)
		}
	}
}

func TestMessageCommandsCovered(t *testing.T) {
	seen := make(map[string]bool)
	for _, msg := range testMessages() {
		empty, err := MakeEmptyMessage(msg.Command())
		require.NoError(t, err)
		require.IsType(t, msg, empty)
		seen[msg.Command()] = true
	}
	require.Len(t, seen, 19)
}

func TestVersionRelayFlag(t *testing.T) {
	me := NewNetAddressIPPort(net.ParseIP("192.168.0.1"), 8333, SFNodeNetwork)
	you := NewNetAddressIPPort(net.ParseIP("192.168.0.2"), 8333, 0)

	modern := NewMsgVersion(70001, me, you, 7, 1400000000, 300000)
	require.True(t, modern.Relay)
	old := NewMsgVersion(60000, me, you, 7, 1400000000, 300000)
	old.Relay = false

	modernBuf, err := EncodeMessage(MainNet, modern)
	require.NoError(t, err)
	oldBuf, err := EncodeMessage(MainNet, old)
	require.NoError(t, err)

	// Only the newer protocol version carries the trailing relay byte.
	require.Equal(t, len(oldBuf)+1, len(modernBuf))
	require.Equal(t, byte(1), modernBuf[len(modernBuf)-1])

	_, decoded, err := DecodeMessage(modernBuf)
	require.NoError(t, err)
	require.Equal(t, modern, decoded)

	_, decoded, err = DecodeMessage(oldBuf)
	require.NoError(t, err)
	require.Equal(t, old, decoded)

	// A relay flag set on an old version is not representable.
	old.Relay = true
	oldBuf, err = EncodeMessage(MainNet, old)
	require.NoError(t, err)
	_, decoded, err = DecodeMessage(oldBuf)
	require.NoError(t, err)
	require.False(t, decoded.(*MsgVersion).Relay)

	// A 70001 payload without its relay byte is truncated.
	payload := modernBuf[MessageHeaderSize : len(modernBuf)-1]
	err = (&MsgVersion{}).Deserialize(bytes.NewReader(payload))
	require.ErrorIs(t, err, ErrTruncatedBuffer)
}

// TestVersionMatchesBtcd decodes our version payload with btcd.
func TestVersionMatchesBtcd(t *testing.T) {
	me := NewNetAddressIPPort(net.ParseIP("192.168.0.1"), 8333, SFNodeNetwork)
	you := NewNetAddressIPPort(net.ParseIP("10.1.2.3"), 18333, 0)
	msg := NewMsgVersion(70001, me, you, 0xabcdef, 1400000000, 300000)
	msg.Relay = false

	var buf bytes.Buffer
	require.NoError(t, msg.Serialize(&buf))

	var theirs btcwire.MsgVersion
	require.NoError(t, theirs.BtcDecode(bytes.NewBuffer(buf.Bytes()), 70001,
		btcwire.BaseEncoding))
	require.Equal(t, int32(70001), theirs.ProtocolVersion)
	require.Equal(t, uint64(0xabcdef), theirs.Nonce)
	require.Equal(t, DefaultUserAgent, theirs.UserAgent)
	require.Equal(t, int32(300000), theirs.LastBlock)
	require.True(t, theirs.DisableRelayTx)
	require.Equal(t, int64(1400000000), theirs.Timestamp.Unix())
	require.Equal(t, uint16(18333), theirs.AddrYou.Port)
	require.True(t, theirs.AddrMe.IP.Equal(net.ParseIP("192.168.0.1")))
}

// TestPingEnvelopeMatchesBtcd compares a complete envelope with btcd's.
func TestPingEnvelopeMatchesBtcd(t *testing.T) {
	for _, bn := range []BitcoinNet{MainNet, TestNet, TestNet3} {
		ours, err := EncodeMessage(bn, NewMsgPing(0x1234))
		require.NoError(t, err)

		var theirs bytes.Buffer
		err = btcwire.WriteMessage(&theirs, btcwire.NewMsgPing(0x1234),
			ProtocolVersion, btcwire.BitcoinNet(bn))
		require.NoError(t, err)
		require.Equal(t, theirs.Bytes(), ours)
	}
}

func TestDecodeChecksumMismatch(t *testing.T) {
	buf, err := EncodeMessage(TestNet3, NewMsgPing(99))
	require.NoError(t, err)
	buf[MessageHeaderSizeNoChecksum] ^= 0xff

	hdr, msg, err := DecodeMessage(buf)
	require.NoError(t, err)
	require.True(t, hdr.HasChecksum)
	require.False(t, hdr.ChecksumValid)
	require.Equal(t, uint64(99), msg.(*MsgPing).Nonce)
}

func TestDecodeUnknownCommand(t *testing.T) {
	buf, err := EncodeMessage(MainNet, NewMsgVerAck())
	require.NoError(t, err)
	copy(buf[4:4+CommandSize], "sendheaders\x00")

	_, _, err = DecodeMessage(buf)
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDecodeErrors(t *testing.T) {
	ping, err := EncodeMessage(MainNet, NewMsgPing(1))
	require.NoError(t, err)

	// Shorter than the envelope.
	_, _, err = DecodeMessage(ping[:10])
	require.ErrorIs(t, err, ErrTruncatedBuffer)

	// Shorter than the declared payload.
	_, _, err = DecodeMessage(ping[:MessageHeaderSizeNoChecksum+4])
	require.ErrorIs(t, err, ErrTruncatedBuffer)

	// Neither with nor without checksum.
	_, _, err = DecodeMessage(append(append([]byte{}, ping...), 0))
	require.ErrorIs(t, err, ErrMalformedMessage)

	// Bytes after the NUL padding of the command.
	bad := append([]byte{}, ping...)
	bad[4+CommandSize-1] = 'x'
	_, _, err = DecodeMessage(bad)
	require.ErrorIs(t, err, ErrInvalidCommand)

	// A payload below the command's minimum size.
	short := make([]byte, MessageHeaderSizeNoChecksum+4)
	littleEndian.PutUint32(short[0:4], uint32(MainNet))
	copy(short[4:], CmdPing)
	littleEndian.PutUint32(short[16:20], 4)
	_, _, err = DecodeMessage(short)
	require.ErrorIs(t, err, ErrMalformedMessage)

	// A nested length running past the payload.
	addr := make([]byte, MessageHeaderSizeNoChecksum+2)
	littleEndian.PutUint32(addr[0:4], uint32(MainNet))
	copy(addr[4:], CmdAddr)
	littleEndian.PutUint32(addr[16:20], 2)
	addr[20] = 2
	_, _, err = DecodeMessage(addr)
	require.ErrorIs(t, err, ErrMalformedMessage)
	require.ErrorIs(t, err, ErrTruncatedBuffer)

	// A declared length above the protocol maximum.
	huge := append([]byte{}, ping[:MessageHeaderSizeNoChecksum]...)
	littleEndian.PutUint32(huge[16:20], MaxMessagePayload+1)
	_, err = DecodeHeader(huge)
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodeTrailingPayloadIgnored(t *testing.T) {
	buf := make([]byte, MessageHeaderSizeNoChecksum+10)
	littleEndian.PutUint32(buf[0:4], uint32(MainNet))
	copy(buf[4:], CmdPong)
	littleEndian.PutUint32(buf[16:20], 10)
	littleEndian.PutUint64(buf[20:28], 77)

	_, msg, err := DecodeMessage(buf)
	require.NoError(t, err)
	require.Equal(t, uint64(77), msg.(*MsgPong).Nonce)
}

func TestEncodeLimits(t *testing.T) {
	msg := NewMsgFilterAdd(make([]byte, MaxFilterAddDataSize+1))
	_, err := EncodeMessage(MainNet, msg)
	require.ErrorIs(t, err, ErrMalformedMessage)

	headers := NewMsgHeaders()
	for i := 0; i < MaxBlockHeadersPerMsg; i++ {
		require.NoError(t, headers.AddBlockHeader(testHeader()))
	}
	require.ErrorIs(t, headers.AddBlockHeader(testHeader()), ErrMalformedMessage)
}

func TestHeadersRejectTransactions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVarInt(&buf, 1))
	require.NoError(t, testHeader().Serialize(&buf))
	require.NoError(t, WriteVarInt(&buf, 1))

	err := (&MsgHeaders{}).Deserialize(&buf)
	require.ErrorIs(t, err, ErrMalformedMessage)
}

func TestPayloadHash(t *testing.T) {
	tx := testTransaction()
	hash, err := PayloadHash(NewMsgTx(tx))
	require.NoError(t, err)
	require.Equal(t, tx.TxHash(), hash)

	bh := testHeader()
	var buf bytes.Buffer
	require.NoError(t, bh.Serialize(&buf))
	require.Equal(t, chainhash.DoubleHashH(buf.Bytes()), bh.BlockHash())
}

func TestMerkleBlockPartialTree(t *testing.T) {
	leaves := []merkle.Leaf{
		{Hash: testHash(1)}, {Hash: testHash(2), Matched: true}, {Hash: testHash(3)},
	}
	tree := merkle.NewPartialTree(leaves)

	bh := testHeader()
	bh.SetMerkleRoot(tree.Root())
	msg := NewMsgMerkleBlock(bh, tree)

	buf, err := EncodeMessage(MainNet, msg)
	require.NoError(t, err)
	_, decoded, err := DecodeMessage(buf)
	require.NoError(t, err)

	parsed, err := decoded.(*MsgMerkleBlock).PartialTree()
	require.NoError(t, err)
	require.Equal(t, []chainhash.Hash{testHash(2)}, parsed.MatchedHashes())

	// A header committing to another root fails verification.
	msg.Header.SetMerkleRoot(testHash(9))
	_, err = msg.PartialTree()
	require.ErrorIs(t, err, merkle.ErrInvalidProof)
}
