package crypto

import (
	"bytes"

	"github.com/btcsuite/btcutil/base58"
)

// CheckEncode prepends the version bytes to payload, appends the first four
// bytes of the double SHA-256 of the result and encodes it as base-58.
// Leading zero bytes become leading '1' characters.
func CheckEncode(payload []byte, version ...byte) string {
	b := make([]byte, 0, len(version)+len(payload)+4)
	b = append(b, version...)
	b = append(b, payload...)
	cksum := DoubleSha256(b)
	b = append(b, cksum[:4]...)
	return base58.Encode(b)
}

// CheckDecode reverses CheckEncode. versionLen is the number of leading
// version bytes to split off the payload.
//
// Returns an error if:
//   - the string contains characters outside the base-58 alphabet
//   - fewer than versionLen+4 bytes were decoded
//   - the checksum does not match
func CheckDecode(s string, versionLen int) (payload, version []byte, err error) {
	decoded := base58.Decode(s)
	if len(decoded) == 0 && len(s) > 0 {
		return nil, nil, makeError(ErrInvalidFormat, "CheckDecode",
			"invalid base-58 character")
	}
	if len(decoded) < versionLen+4 {
		return nil, nil, makeError(ErrInvalidFormat, "CheckDecode",
			"decoded data too short")
	}

	body := decoded[:len(decoded)-4]
	cksum := DoubleSha256(body)
	if !bytes.Equal(cksum[:4], decoded[len(decoded)-4:]) {
		return nil, nil, makeError(ErrChecksum, "CheckDecode",
			"checksum mismatch")
	}

	return body[versionLen:], body[:versionLen], nil
}
