package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// Address is the 20 byte account identifier used by the ledger and the polls
type Address []byte

var _ AddressI = Address{}

const (
	AddressSize = 20
)

var ErrInvalidAddressSize = errors.New("address must be 20 bytes")

func (a Address) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }
func (a Address) Bytes() []byte                { return a[:] }
func (a Address) String() string               { return hex.EncodeToString(a.Bytes()) }
func (a Address) Equals(e AddressI) bool       { return e != nil && bytes.Equal(a.Bytes(), e.Bytes()) }

// UnmarshalJSON() decodes a hex string into the address
func (a *Address) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	addr, err := NewAddressFromString(s)
	if err != nil {
		return
	}
	*a = addr
	return
}

// NewAddress() casts bytes to an address without validation
func NewAddress(b []byte) Address { return b }

// NewAddressFromBytes() copies and validates a 20 byte address
func NewAddressFromBytes(bz []byte) (Address, error) {
	if len(bz) != AddressSize {
		return nil, ErrInvalidAddressSize
	}
	return bytes.Clone(bz), nil
}

// NewAddressFromString() decodes and validates a hex address
func NewAddressFromString(hexString string) (Address, error) {
	bz, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, err
	}
	return NewAddressFromBytes(bz)
}

// NewModuleAddress() derives the deterministic address of a module owned account like the pot
func NewModuleAddress(moduleTag, name string) Address {
	return ShortHash([]byte(moduleTag + "/" + name))
}
