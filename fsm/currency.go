package fsm

import (
	"encoding/binary"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/canopy-network/fundpolls/lib"
)

// CurrencyKind distinguishes the native token from asset tokens
type CurrencyKind uint8

const (
	CurrencyNative CurrencyKind = iota
	CurrencyAsset

	nativeCurrencyName = "native"
	assetCurrencyName  = "asset"
)

// PollCurrency is the currency a poll is funded with: the native token or a specific asset id
type PollCurrency struct {
	Kind    CurrencyKind `msgpack:"kind"`
	AssetId uint32       `msgpack:"assetId"`
}

// NativeCurrency() returns the chain's native currency
func NativeCurrency() PollCurrency { return PollCurrency{Kind: CurrencyNative} }

// AssetCurrency() returns the asset token currency with the id
func AssetCurrency(id uint32) PollCurrency { return PollCurrency{Kind: CurrencyAsset, AssetId: id} }

// IsAsset() returns true if the currency is an asset token
func (c PollCurrency) IsAsset() bool { return c.Kind == CurrencyAsset }

// IsValid() is true for the native currency and any asset id
func (c PollCurrency) IsValid() bool {
	switch c.Kind {
	case CurrencyNative:
		return c.AssetId == 0
	case CurrencyAsset:
		return true
	}
	return false
}

// Bytes() is the stable store key encoding of the currency
func (c PollCurrency) Bytes() []byte {
	if c.IsAsset() {
		return binary.BigEndian.AppendUint32([]byte{byte(CurrencyAsset)}, c.AssetId)
	}
	return []byte{byte(CurrencyNative)}
}

// String() returns the text form 'native' or 'asset:<id>'
func (c PollCurrency) String() string {
	if c.IsAsset() {
		return assetCurrencyName + ":" + strconv.FormatUint(uint64(c.AssetId), 10)
	}
	return nativeCurrencyName
}

// ParseCurrency() converts the text form into a PollCurrency
func ParseCurrency(s string) (PollCurrency, lib.ErrorI) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == nativeCurrencyName || s == "" {
		return NativeCurrency(), nil
	}
	name, id, found := strings.Cut(s, ":")
	if !found || name != assetCurrencyName {
		return PollCurrency{}, ErrInvalidCurrency(s)
	}
	assetId, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return PollCurrency{}, ErrInvalidCurrency(s)
	}
	return AssetCurrency(uint32(assetId)), nil
}

// MarshalJSON() serializes the currency as its text form
func (c PollCurrency) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// UnmarshalJSON() deserializes the text form of a currency
func (c *PollCurrency) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	currency, err := ParseCurrency(s)
	if err != nil {
		return err
	}
	*c = currency
	return nil
}
