// Package signer holds the optional account used as the sender of read-only calls.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned for keys that are not 32 byte secp256k1 scalars in hex.
var ErrInvalidKey = errors.New("invalid private key")

// Signer is an account the process acts as.
type Signer interface {
	Address() common.Address
}

type keySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// FromHex parses a hex private key, with or without a 0x prefix.
func FromHex(key string) (Signer, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "0x")
	pk, err := crypto.HexToECDSA(key)
	if err != nil {
		// the key text is deliberately left out of the error.
		return nil, ErrInvalidKey
	}
	return &keySigner{key: pk, address: crypto.PubkeyToAddress(pk.PublicKey)}, nil
}

// Load returns nil without error when key is empty, meaning no account is configured.
func Load(key string) (Signer, error) {
	if strings.TrimSpace(key) == "" {
		return nil, nil
	}
	s, err := FromHex(key)
	if err != nil {
		return nil, fmt.Errorf("ethereum-account: %w", err)
	}
	return s, nil
}

func (s *keySigner) Address() common.Address {
	return s.address
}

// String identifies the account without revealing the key.
func (s *keySigner) String() string {
	return fmt.Sprintf("signer(%s)", s.address.Hex())
}

// GoString keeps %#v from printing the key.
func (s *keySigner) GoString() string {
	return s.String()
}
