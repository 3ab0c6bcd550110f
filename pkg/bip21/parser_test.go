package bip21

import (
	"testing"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testAddress = "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"

func TestParse(t *testing.T) {
	req, err := Parse("bitcoin:" + testAddress +
		"?amount=20.3&label=Luke%20Jr&message=Donation%20for%20project%20xyz&foo=bar")
	require.NoError(t, err)

	assert.Equal(t, testAddress, req.Address)
	require.NotNil(t, req.Amount)
	assert.Equal(t, uint64(2030000000), *req.Amount)
	require.NotNil(t, req.Label)
	assert.Equal(t, "Luke Jr", *req.Label)
	require.NotNil(t, req.Message)
	assert.Equal(t, "Donation for project xyz", *req.Message)
	assert.Equal(t, map[string]string{"foo": "bar"}, req.Extra)
}

func TestParseAddressOnly(t *testing.T) {
	req, err := Parse("BITCOIN:" + testAddress)
	require.NoError(t, err)
	assert.Equal(t, testAddress, req.Address)
	assert.Nil(t, req.Amount)
	assert.Nil(t, req.Extra)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		uri  string
		want error
	}{
		{"litecoin:" + testAddress, ErrInvalidScheme},
		{"bitcoin", ErrInvalidScheme},
		{"bitcoin:" + testAddress + "?req-somethingyoudontunderstand=50", ErrUnknownRequired},
		{"bitcoin:" + testAddress + "?amount=1.123456789", ErrInvalidAmount},
		{"bitcoin:" + testAddress + "?amount=-1", ErrInvalidAmount},
		{"bitcoin:" + testAddress + "?amount=1e3", ErrInvalidAmount},
		{"bitcoin:" + testAddress + "?amount=21000001", ErrInvalidAmount},
		{"bitcoin:" + testAddress + "?amount=", ErrInvalidAmount},
	}
	for _, test := range tests {
		_, err := Parse(test.uri)
		assert.ErrorIs(t, err, test.want, test.uri)
	}

	_, err := Parse("bitcoin:" + testAddress + "?amount=1&amount=2")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := map[string]uint64{
		"0":          0,
		"1":          SatoshiPerBitcoin,
		"1.5":        150000000,
		".5":         50000000,
		"5.":         500000000,
		"0.00000001": 1,
		"21000000":   MaxSatoshi,
		"0020.30":    2030000000,
	}
	for s, want := range tests {
		got, err := ParseAmount(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseAmount(".")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ParseAmount("20999999.999999999")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ParseAmount("21000000.00000001")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAmountRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sats := rapid.Uint64Range(0, MaxSatoshi).Draw(t, "sats")
		got, err := ParseAmount(FormatAmount(sats))
		require.NoError(t, err)
		require.Equal(t, sats, got)
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	amount := uint64(123456789)
	label := "Café & bar"
	req := &PaymentRequest{
		Address: testAddress,
		Amount:  &amount,
		Label:   &label,
		Extra:   map[string]string{"z": "1", "a": "2"},
	}

	uri := req.Encode()
	assert.Equal(t, "bitcoin:"+testAddress+
		"?amount=1.23456789&label=Caf%C3%A9%20%26%20bar&a=2&z=1", uri)

	parsed, err := Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, req, parsed)

	assert.Equal(t, "bitcoin:"+testAddress,
		(&PaymentRequest{Address: testAddress}).Encode())
}

func TestOutput(t *testing.T) {
	req, err := Parse("bitcoin:" + testAddress + "?amount=0.001")
	require.NoError(t, err)

	out, err := req.Output(&chaincfg.MainNetParams)
	require.NoError(t, err)
	assert.Equal(t, uint64(100000), out.Value)
	assert.Equal(t, script.PubKeyHashTy, script.Classify(out.PkScript))

	addr, err := script.AddressFromScript(out.PkScript, &chaincfg.MainNetParams)
	require.NoError(t, err)
	assert.Equal(t, testAddress, addr)

	_, err = req.Output(&chaincfg.TestNet3Params)
	assert.ErrorIs(t, err, script.ErrUnsupportedAddress)

	_, err = (&PaymentRequest{Address: testAddress}).Output(&chaincfg.MainNetParams)
	assert.ErrorIs(t, err, ErrMissingAmount)
}
