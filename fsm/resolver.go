package fsm

import (
	"encoding/hex"
	"strings"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/canopy-network/fundpolls/lib/crypto"
)

// ResolverI turns the textual form of an account into its address
type ResolverI interface {
	Resolve(raw string) (crypto.Address, lib.ErrorI)
}

var _ ResolverI = Resolver{}

// Resolver accepts a hex address or a hex ed25519 public key
type Resolver struct{}

// NewResolver() returns the default account resolver
func NewResolver() Resolver { return Resolver{} }

// Resolve() converts a 20 byte hex address or a 32 byte hex ed25519 public key into an address
func (Resolver) Resolve(raw string) (crypto.Address, lib.ErrorI) {
	bz, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return nil, ErrInvalidAccount(raw)
	}
	switch len(bz) {
	case crypto.AddressSize:
		return crypto.NewAddress(bz), nil
	case crypto.Ed25519PubKeySize:
		return crypto.NewAddress(crypto.NewED25519PubKeyFromBytes(bz).Address().Bytes()), nil
	}
	return nil, ErrInvalidAccount(raw)
}
