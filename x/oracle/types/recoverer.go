package types

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Recoverer recovers the address that produced sig over digest.
type Recoverer interface {
	Recover(digest common.Hash, sig Signature) (common.Address, error)
}

// EthRecoverer recovers secp256k1 signers the way the EVM ecrecover
// precompile does: v must be 27 or 28 and high s values are accepted.
type EthRecoverer struct{}

var _ Recoverer = EthRecoverer{}

// Recover implements Recoverer
func (EthRecoverer) Recover(digest common.Hash, sig Signature) (common.Address, error) {
	raw, err := sig.Bytes()
	if err != nil {
		return common.Address{}, err
	}

	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	if !crypto.ValidateSignatureValues(raw[crypto.RecoveryIDOffset], r, s, false) {
		return common.Address{}, errorsmod.Wrap(ErrMalformedSignature, "r or s out of range")
	}

	pub, err := crypto.SigToPub(digest.Bytes(), raw)
	if err != nil {
		return common.Address{}, errorsmod.Wrap(ErrMalformedSignature, err.Error())
	}

	return crypto.PubkeyToAddress(*pub), nil
}
