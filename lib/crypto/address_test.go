package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	// create a new public key object
	public, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	// cast the public key to bytes
	addressBytes := Hash(public)[:20]
	// covert to an address object
	address, err := NewAddressFromBytes(addressBytes)
	require.NoError(t, err)
	// validate string function
	require.Equal(t, address.String(), hex.EncodeToString(addressBytes))
	// validate bytes function
	require.Equal(t, addressBytes, address.Bytes())
	// validate equals function
	require.True(t, address.Equals(NewAddress(addressBytes)))
	require.False(t, address.Equals(nil))
	// validate json marshalling
	marshalled, err := json.Marshal(address)
	require.NoError(t, err)
	// validate expected json vs got
	require.Equal(t, string(marshalled), "\""+address.String()+"\"")
	// validate unmarshalling
	unmarshalled := new(Address)
	require.NoError(t, json.Unmarshal(marshalled, unmarshalled))
	// validate expected unmarshalled
	require.Equal(t, address, *unmarshalled)
}

func TestNewAddressFromString(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		input    string
		expected Address
		error    bool
	}{
		{
			name:     "valid",
			detail:   "a 20 byte hex string decodes",
			input:    hex.EncodeToString(make([]byte, AddressSize)),
			expected: make([]byte, AddressSize),
		},
		{
			name:   "short",
			detail: "a 19 byte hex string is rejected",
			input:  hex.EncodeToString(make([]byte, AddressSize-1)),
			error:  true,
		},
		{
			name:   "not hex",
			detail: "a non hex string is rejected",
			input:  "zz",
			error:  true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := NewAddressFromString(test.input)
			require.Equal(t, test.error, err != nil, err)
			if test.error {
				return
			}
			require.Equal(t, test.expected, got)
		})
	}
}

func TestNewModuleAddress(t *testing.T) {
	// same tag and name is deterministic
	require.Equal(t, NewModuleAddress("fpolls", "pot"), NewModuleAddress("fpolls", "pot"))
	// different tags produce different accounts
	require.NotEqual(t, NewModuleAddress("fpolls", "pot"), NewModuleAddress("other", "pot"))
	// the address is the short hash of '<tag>/<name>'
	require.Equal(t, Address(ShortHash([]byte("fpolls/pot"))), NewModuleAddress("fpolls", "pot"))
	require.Len(t, NewModuleAddress("fpolls", "pot"), AddressSize)
}
