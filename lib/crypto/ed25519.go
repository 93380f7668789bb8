package crypto

import (
	ed25519 "crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
)

const (
	Ed25519PrivKeySize   = ed25519.PrivateKeySize
	Ed25519PubKeySize    = ed25519.PublicKeySize
	Ed25519SignatureSize = ed25519.SignatureSize
)

var ErrInvalidPublicKeySize = errors.New("ed25519 public key must be 32 bytes")

// Private Key Below

// ED25519PrivateKey is the private key of a development key pair created by `keys new`
type ED25519PrivateKey struct{ ed25519.PrivateKey }

// NewEd25519PrivateKey() generates a new ED25519 private key
func NewEd25519PrivateKey() (PrivateKeyI, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &ED25519PrivateKey{PrivateKey: priv}, nil
}

// NewED25519PrivateKeyFromBytes() creates a new PrivateKeyI interface from ED25519 bytes
func NewED25519PrivateKeyFromBytes(bz []byte) PrivateKeyI {
	return &ED25519PrivateKey{PrivateKey: bz}
}

// ensure ED25519PrivateKey satisfies PrivateKeyI interface
var _ PrivateKeyI = &ED25519PrivateKey{}

func (p *ED25519PrivateKey) String() string               { return hex.EncodeToString(p.Bytes()) }
func (p *ED25519PrivateKey) Bytes() []byte                { return p.PrivateKey }
func (p *ED25519PrivateKey) Sign(msg []byte) []byte       { return ed25519.Sign(p.PrivateKey, msg) }
func (p *ED25519PrivateKey) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

// PublicKey() returns the public key that pairs with this private key object
func (p *ED25519PrivateKey) PublicKey() PublicKeyI {
	return &ED25519PublicKey{p.PrivateKey.Public().(ed25519.PublicKey)}
}

// Equals() compares two private key objects and returns true if they are equal
func (p *ED25519PrivateKey) Equals(key PrivateKeyI) bool {
	return p.PrivateKey.Equal(ed25519.PrivateKey(key.Bytes()))
}

// Public Key Below

// ED25519PublicKey is the public key of an ed25519 pair; accounts may be referenced by it instead of the address
type ED25519PublicKey struct{ ed25519.PublicKey }

// NewED25519PubKeyFromBytes() returns a ED25519PublicKey reference that satisfies the PublicKeyI interface
func NewED25519PubKeyFromBytes(bz []byte) PublicKeyI { return &ED25519PublicKey{PublicKey: bz} }

// NewED25519PubKeyFromString() decodes and validates a hex encoded ED25519 public key
func NewED25519PubKeyFromString(hexString string) (PublicKeyI, error) {
	bz, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, err
	}
	if len(bz) != Ed25519PubKeySize {
		return nil, ErrInvalidPublicKeySize
	}
	return NewED25519PubKeyFromBytes(bz), nil
}

// ensure the ED25519PublicKey object satisfies the PublicKeyI interface
var _ PublicKeyI = &ED25519PublicKey{}

// Address() returns the short hash of the public key
func (p *ED25519PublicKey) Address() AddressI { return Address(ShortHash(p.Bytes())) }

func (p *ED25519PublicKey) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }
func (p *ED25519PublicKey) Bytes() []byte                { return p.PublicKey }
func (p *ED25519PublicKey) String() string               { return hex.EncodeToString(p.Bytes()) }

// VerifyBytes() validates a digital signature was signed by the paired private key given the message signed
func (p *ED25519PublicKey) VerifyBytes(msg []byte, sig []byte) bool {
	return ed25519.Verify(p.PublicKey, msg, sig)
}

// Equals() compares two public key objects and returns if the two are equal
func (p *ED25519PublicKey) Equals(i PublicKeyI) bool {
	return p.PublicKey.Equal(ed25519.PublicKey(i.Bytes()))
}
