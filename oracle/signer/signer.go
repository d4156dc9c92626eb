package signer

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// Signer produces the slot signature an oracle node attaches to its reply.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func New(key *ecdsa.PrivateKey) *Signer {
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// FromHex loads a secp256k1 private key given as hex, with or without 0x.
func FromHex(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return New(key), nil
}

// Generate creates a signer with a fresh random key.
func Generate() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return New(key), nil
}

func (s *Signer) Address() common.Address {
	return s.address
}

// Sign signs the canonical digest of req.
func (s *Signer) Sign(req types.OracleRequest) (*types.Signature, error) {
	return s.SignDigest(types.Digest(req))
}

func (s *Signer) SignDigest(digest common.Hash) (*types.Signature, error) {
	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	return types.SignatureFromBytes(sig)
}
