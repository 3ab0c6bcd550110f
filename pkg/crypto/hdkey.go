package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// HardenedKeyStart is the index of the first hardened child.
	HardenedKeyStart = 0x80000000 // 2^31

	// MinSeedBytes is the minimum number of bytes allowed for a seed.
	MinSeedBytes = 16 // 128 bits

	// MaxSeedBytes is the maximum number of bytes allowed for a seed.
	MaxSeedBytes = 64 // 512 bits

	// RecommendedSeedLen is the recommended length in bytes for a seed.
	RecommendedSeedLen = 32 // 256 bits

	// serializedKeyLen is the length of a serialized extended key:
	// version(4) || depth(1) || parent fingerprint(4) || child number(4) ||
	// chain code(32) || key data(33).
	serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33
)

// masterKey is the HMAC key used to turn a seed into the master node.
var masterKey = []byte("Bitcoin seed")

// ExtendedKey is a node in a BIP32 key tree. It holds either a private key
// or only the public key, together with the chain code that seeds its
// children.
type ExtendedKey struct {
	params    *chaincfg.Params
	key       []byte // 32-byte private scalar or 33-byte compressed point
	pubKey    []byte // compressed public key, computed lazily for private nodes
	chainCode []byte
	parentFP  []byte
	depth     uint8
	childNum  uint32
	isPrivate bool
}

// GenerateSeed returns a cryptographically secure random seed of length
// bytes.
func GenerateSeed(length uint8) ([]byte, error) {
	if length < MinSeedBytes || length > MaxSeedBytes {
		return nil, makeError(ErrInvalidSeedLen, "GenerateSeed",
			fmt.Sprintf("seed length must be between %d and %d bytes",
				MinSeedBytes, MaxSeedBytes))
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read random seed: %w", err)
	}
	return buf, nil
}

// NewMaster derives the master node from seed using
// HMAC-SHA512(key="Bitcoin seed", data=seed).
//
// Returns an error if:
//   - the seed is shorter than MinSeedBytes or longer than MaxSeedBytes
//   - the derived scalar is zero or not below the group order, in which
//     case the caller picks a new seed
func NewMaster(seed []byte, params *chaincfg.Params) (*ExtendedKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, makeError(ErrInvalidSeedLen, "NewMaster",
			fmt.Sprintf("seed length must be between %d and %d bytes",
				MinSeedBytes, MaxSeedBytes))
	}

	lr := HmacSha512(masterKey, seed)
	secretKey := lr[:32]
	chainCode := lr[32:]

	var keyNum secp256k1.ModNScalar
	if overflow := keyNum.SetByteSlice(secretKey); overflow || keyNum.IsZero() {
		return nil, makeError(ErrInvalidDerivation, "NewMaster",
			"seed produces an invalid master key")
	}

	return &ExtendedKey{
		params:    params,
		key:       secretKey,
		chainCode: chainCode,
		parentFP:  []byte{0x00, 0x00, 0x00, 0x00},
		isPrivate: true,
	}, nil
}

// IsPrivate reports whether the node holds a private key.
func (k *ExtendedKey) IsPrivate() bool {
	return k.isPrivate
}

// Depth returns the number of derivations from the master node.
func (k *ExtendedKey) Depth() uint8 {
	return k.depth
}

// ChildIndex returns the index this node was derived at.
func (k *ExtendedKey) ChildIndex() uint32 {
	return k.childNum
}

// ParentFingerprint returns the first four bytes of the parent's public key
// hash as a big-endian integer.
func (k *ExtendedKey) ParentFingerprint() uint32 {
	return binary.BigEndian.Uint32(k.parentFP)
}

// ChainCode returns a copy of the chain code.
func (k *ExtendedKey) ChainCode() []byte {
	return append([]byte(nil), k.chainCode...)
}

// pubKeyBytes returns the compressed public key of the node.
func (k *ExtendedKey) pubKeyBytes() []byte {
	if !k.isPrivate {
		return k.key
	}

	if len(k.pubKey) == 0 {
		priv := secp256k1.PrivKeyFromBytes(k.key)
		k.pubKey = priv.PubKey().SerializeCompressed()
	}
	return k.pubKey
}

// Child derives the child at index i. Indices at or above HardenedKeyStart
// produce hardened children, which mix the parent's private key into the
// HMAC and therefore need a private parent.
//
// ErrInvalidDerivation means index i is unusable; BIP32 directs callers to
// skip to i+1. A key at depth 255 has no children.
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	if k.depth == math.MaxUint8 {
		return nil, makeError(ErrDeriveBeyondMaxDepth, "Child",
			"cannot derive a key with more than 255 indices in its path")
	}

	isChildHardened := i >= HardenedKeyStart
	if !k.isPrivate && isChildHardened {
		return nil, makeError(ErrDeriveHardFromPublic, "Child",
			"cannot derive a hardened key from a public key")
	}

	// Hardened:  0x00 || ser256(kpar) || ser32(i)
	// Normal:    serP(Kpar) || ser32(i)
	data := make([]byte, 0, 37)
	if isChildHardened {
		data = append(data, 0x00)
		data = append(data, k.key...)
	} else {
		data = append(data, k.pubKeyBytes()...)
	}
	data = binary.BigEndian.AppendUint32(data, i)

	ilr := HmacSha512(k.chainCode, data)
	il := ilr[:32]
	childChainCode := ilr[32:]

	var ilNum secp256k1.ModNScalar
	if overflow := ilNum.SetByteSlice(il); overflow {
		return nil, makeError(ErrInvalidDerivation, "Child",
			fmt.Sprintf("index %d produces IL >= N", i))
	}

	var childKey []byte
	if k.isPrivate {
		// ki = IL + kpar (mod N)
		var keyNum secp256k1.ModNScalar
		keyNum.SetByteSlice(k.key)
		ilNum.Add(&keyNum)
		if ilNum.IsZero() {
			return nil, makeError(ErrInvalidDerivation, "Child",
				fmt.Sprintf("index %d produces a zero key", i))
		}
		b := ilNum.Bytes()
		childKey = b[:]
	} else {
		// Ki = IL*G + Kpar
		parent, err := secp256k1.ParsePubKey(k.key)
		if err != nil {
			return nil, &Error{Code: ErrInvalidPublicKey, Func: "Child",
				Description: "bad parent public key", Cause: err}
		}

		var ilJ, parentJ, childJ secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&ilNum, &ilJ)
		parent.AsJacobian(&parentJ)
		secp256k1.AddNonConst(&ilJ, &parentJ, &childJ)
		if (childJ.X.IsZero() && childJ.Y.IsZero()) || childJ.Z.IsZero() {
			return nil, makeError(ErrInvalidDerivation, "Child",
				fmt.Sprintf("index %d produces the point at infinity", i))
		}
		childJ.ToAffine()
		childKey = secp256k1.NewPublicKey(&childJ.X, &childJ.Y).SerializeCompressed()
	}

	parentFP := Hash160(k.pubKeyBytes())[:4]
	return &ExtendedKey{
		params:    k.params,
		key:       childKey,
		chainCode: childChainCode,
		parentFP:  parentFP,
		depth:     k.depth + 1,
		childNum:  i,
		isPrivate: k.isPrivate,
	}, nil
}

// DerivePath walks a path such as "m/0'/1/2h" from this node. Both ' and h
// mark hardened steps. The leading "m" is optional.
func (k *ExtendedKey) DerivePath(path string) (*ExtendedKey, error) {
	path = strings.TrimSpace(path)
	parts := strings.Split(path, "/")
	if len(parts) > 0 && (parts[0] == "m" || parts[0] == "M") {
		parts = parts[1:]
	}

	node := k
	for _, part := range parts {
		if part == "" {
			continue
		}

		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") ||
			strings.HasSuffix(part, "H")
		if hardened {
			part = part[:len(part)-1]
		}
		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || index >= HardenedKeyStart {
			return nil, makeError(ErrInvalidFormat, "DerivePath",
				fmt.Sprintf("invalid path element %q", part))
		}
		if hardened {
			index += HardenedKeyStart
		}

		node, err = node.Child(uint32(index))
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

// Neuter returns the public-only version of the node. A public node is
// returned unchanged.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	if !k.isPrivate {
		return k
	}

	return &ExtendedKey{
		params:    k.params,
		key:       k.pubKeyBytes(),
		chainCode: k.chainCode,
		parentFP:  k.parentFP,
		depth:     k.depth,
		childNum:  k.childNum,
		isPrivate: false,
	}
}

// ECPrivKey returns the node's private key.
func (k *ExtendedKey) ECPrivKey() (*PrivateKey, error) {
	if !k.isPrivate {
		return nil, makeError(ErrInvalidPrivateKey, "ECPrivKey",
			"extended key is public only")
	}
	return PrivateKeyFromBytes(k.key)
}

// ECPubKey returns the node's compressed public key.
func (k *ExtendedKey) ECPubKey() (*PublicKey, error) {
	return ParsePublicKey(k.pubKeyBytes())
}

// String returns the Base58Check serialization (xprv/xpub on mainnet).
func (k *ExtendedKey) String() string {
	version := k.params.HDPublicKeyID
	if k.isPrivate {
		version = k.params.HDPrivateKeyID
	}

	serialized := make([]byte, 0, serializedKeyLen-4)
	serialized = append(serialized, k.depth)
	serialized = append(serialized, k.parentFP...)
	serialized = binary.BigEndian.AppendUint32(serialized, k.childNum)
	serialized = append(serialized, k.chainCode...)
	if k.isPrivate {
		serialized = append(serialized, 0x00)
		serialized = paddedAppend(32, serialized, k.key)
	} else {
		serialized = append(serialized, k.pubKeyBytes()...)
	}
	return CheckEncode(serialized, version[:]...)
}

// ParseExtendedKey decodes an xprv/xpub style string for the given network.
func ParseExtendedKey(key string, params *chaincfg.Params) (*ExtendedKey, error) {
	payload, version, err := CheckDecode(key, 4)
	if err != nil {
		return nil, err
	}
	if len(payload) != serializedKeyLen-4 {
		return nil, makeError(ErrInvalidFormat, "ParseExtendedKey",
			"invalid extended key length")
	}

	var isPrivate bool
	switch {
	case bytes.Equal(version, params.HDPrivateKeyID[:]):
		isPrivate = true
	case bytes.Equal(version, params.HDPublicKeyID[:]):
	default:
		return nil, makeError(ErrWrongNetwork, "ParseExtendedKey",
			fmt.Sprintf("unknown extended key version %x for %s", version, params.Name))
	}

	depth := payload[0]
	parentFP := payload[1:5]
	childNum := binary.BigEndian.Uint32(payload[5:9])
	chainCode := payload[9:41]
	keyData := payload[41:74]

	if isPrivate {
		if keyData[0] != 0x00 {
			return nil, makeError(ErrInvalidFormat, "ParseExtendedKey",
				"private key data must start with 0x00")
		}
		keyData = keyData[1:]
		if _, err := PrivateKeyFromBytes(keyData); err != nil {
			return nil, err
		}
	} else if _, err := ParsePublicKey(keyData); err != nil {
		return nil, err
	}

	return &ExtendedKey{
		params:    params,
		key:       append([]byte(nil), keyData...),
		chainCode: append([]byte(nil), chainCode...),
		parentFP:  append([]byte(nil), parentFP...),
		depth:     depth,
		childNum:  childNum,
		isPrivate: isPrivate,
	}, nil
}

// paddedAppend appends src to dst, left padding with zeros to size bytes.
func paddedAppend(size uint, dst, src []byte) []byte {
	for i := 0; i < int(size)-len(src); i++ {
		dst = append(dst, 0)
	}
	return append(dst, src...)
}
