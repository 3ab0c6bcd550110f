// Package bip21 implements the BIP 21 payment request URI format.
//
// URI Format:
//
//	bitcoin:<address>?amount=<amount>&label=<label>&message=<message>
//
// The amount is in whole coins with at most eight decimal places and is
// held exactly as satoshis. Parameters prefixed "req-" that this package
// does not know make the whole request invalid; other unknown parameters
// are kept in Extra.
package bip21

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ciphrex/mSIGNA-sub003/pkg/chaincfg"
	"github.com/ciphrex/mSIGNA-sub003/pkg/script"
	"github.com/ciphrex/mSIGNA-sub003/pkg/wire"
)

const (
	// Scheme is the URI scheme of payment requests.
	Scheme = "bitcoin"

	// SatoshiPerBitcoin is the number of satoshis in one coin.
	SatoshiPerBitcoin = 100000000

	// MaxSatoshi is the total supply, the largest payable amount.
	MaxSatoshi = 21000000 * SatoshiPerBitcoin

	// requiredPrefix marks parameters a wallet must understand.
	requiredPrefix = "req-"
)

var (
	// ErrInvalidScheme is returned for URIs not starting with "bitcoin:".
	ErrInvalidScheme = errors.New("not a bitcoin URI")

	// ErrInvalidAmount is returned for amounts that are not a decimal
	// number of coins with at most eight decimal places, or that exceed
	// MaxSatoshi.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownRequired is returned for "req-" parameters this package
	// does not implement.
	ErrUnknownRequired = errors.New("unknown required parameter")

	// ErrMissingAmount is returned when an output is requested from a
	// payment request without an amount.
	ErrMissingAmount = errors.New("payment request has no amount")
)

// PaymentRequest represents a parsed BIP 21 payment request.
type PaymentRequest struct {
	Address string            // Base58Check address
	Amount  *uint64           // Amount in satoshis (nil = user specifies)
	Label   *string           // Optional label for the recipient
	Message *string           // Optional message to display to the user
	Extra   map[string]string // Unknown optional parameters
}

// Parse parses a BIP 21 payment request URI.
//
//	req, err := bip21.Parse("bitcoin:1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH?amount=0.5")
func Parse(uri string) (*PaymentRequest, error) {
	if len(uri) < len(Scheme)+1 ||
		!strings.EqualFold(uri[:len(Scheme)+1], Scheme+":") {
		return nil, ErrInvalidScheme
	}
	rest := uri[len(Scheme)+1:]

	// Split into address and query components
	address, query, _ := strings.Cut(rest, "?")
	address, err := url.PathUnescape(address)
	if err != nil {
		return nil, fmt.Errorf("failed to parse address: %w", err)
	}
	req := &PaymentRequest{Address: address}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	for key, values := range params {
		if len(values) != 1 {
			return nil, fmt.Errorf("parameter %q given %d times", key,
				len(values))
		}
		value := values[0]

		switch key {
		case "amount":
			amount, err := ParseAmount(value)
			if err != nil {
				return nil, err
			}
			req.Amount = &amount

		case "label":
			req.Label = &value

		case "message":
			req.Message = &value

		default:
			if strings.HasPrefix(key, requiredPrefix) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRequired, key)
			}
			if req.Extra == nil {
				req.Extra = make(map[string]string)
			}
			req.Extra[key] = value
		}
	}

	return req, nil
}

// ParseAmount parses a decimal coin amount into satoshis without rounding.
//
// Valid formats:
//   - "1.5" (decimal coins)
//   - "0.00000001" (one satoshi)
//   - "1000" (whole coins)
func ParseAmount(s string) (uint64, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > 8 || !allDigits(whole) || !allDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	var coins uint64
	if whole != "" {
		var err error
		coins, err = strconv.ParseUint(whole, 10, 64)
		if err != nil || coins > MaxSatoshi/SatoshiPerBitcoin {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}

	var sats uint64
	if frac != "" {
		padded := frac + strings.Repeat("0", 8-len(frac))
		sats, _ = strconv.ParseUint(padded, 10, 64)
	}

	total := coins*SatoshiPerBitcoin + sats
	if total > MaxSatoshi {
		return 0, fmt.Errorf("%w: %q exceeds the supply", ErrInvalidAmount, s)
	}
	return total, nil
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FormatAmount formats satoshis as a decimal coin amount, removing
// unnecessary trailing zeros and decimal point.
func FormatAmount(sats uint64) string {
	str := fmt.Sprintf("%d.%08d", sats/SatoshiPerBitcoin, sats%SatoshiPerBitcoin)
	str = strings.TrimRight(str, "0")
	str = strings.TrimRight(str, ".")
	return str
}

// Encode creates a BIP 21 URI from a PaymentRequest. It is the inverse of
// Parse. Parameters are written in a fixed order: amount, label, message,
// then extra parameters sorted by name.
func (req *PaymentRequest) Encode() string {
	uri := Scheme + ":" + url.PathEscape(req.Address)

	var params []string
	add := func(key, value string) {
		params = append(params, url.QueryEscape(key)+"="+
			strings.ReplaceAll(url.QueryEscape(value), "+", "%20"))
	}
	if req.Amount != nil {
		add("amount", FormatAmount(*req.Amount))
	}
	if req.Label != nil {
		add("label", *req.Label)
	}
	if req.Message != nil {
		add("message", *req.Message)
	}

	keys := make([]string, 0, len(req.Extra))
	for key := range req.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		add(key, req.Extra[key])
	}

	if len(params) > 0 {
		uri += "?" + strings.Join(params, "&")
	}
	return uri
}

// Output returns the transaction output paying the request on the given
// network. The request must carry an amount.
func (req *PaymentRequest) Output(params *chaincfg.Params) (*wire.TxOut, error) {
	if req.Amount == nil {
		return nil, ErrMissingAmount
	}
	pkScript, err := script.ScriptFromAddress(req.Address, params)
	if err != nil {
		return nil, fmt.Errorf("payment address: %w", err)
	}
	return wire.NewTxOut(*req.Amount, pkScript), nil
}
