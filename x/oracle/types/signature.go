package types

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// recoveryOffset is added to the raw recovery id to form v, as in EVM ecrecover.
	recoveryOffset = 27
)

// Signature is a secp256k1 signature over an oracle digest in {v, r, s} form
// with v in {27, 28}.
type Signature struct {
	V uint8
	R [32]byte
	S [32]byte
}

// NewSignatureSlot converts on-chain style {v, r, s} values into a slot. The
// all-zero sentinel (v = 0, r = s = 0) is the absent slot and maps to nil.
func NewSignatureSlot(v uint8, r, s [32]byte) *Signature {
	if v == 0 && r == [32]byte{} && s == [32]byte{} {
		return nil
	}
	return &Signature{V: v, R: r, S: s}
}

// SignatureFromBytes converts a 65 byte [R || S || recid] signature, as
// produced by crypto.Sign, into a slot.
func SignatureFromBytes(sig []byte) (*Signature, error) {
	if len(sig) != crypto.SignatureLength {
		return nil, errorsmod.Wrapf(ErrMalformedSignature, "wrong signature length %d", len(sig))
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return nil, errorsmod.Wrapf(ErrMalformedSignature, "invalid recovery id %d", sig[crypto.RecoveryIDOffset])
	}

	out := &Signature{V: sig[crypto.RecoveryIDOffset] + recoveryOffset}
	copy(out.R[:], sig[:32])
	copy(out.S[:], sig[32:64])
	return out, nil
}

// RecoveryID returns v as the raw 0/1 recovery id.
func (sig Signature) RecoveryID() (byte, error) {
	if sig.V != recoveryOffset && sig.V != recoveryOffset+1 {
		return 0, errorsmod.Wrapf(ErrMalformedSignature, "invalid v %d", sig.V)
	}
	return sig.V - recoveryOffset, nil
}

// Bytes returns the [R || S || recid] form accepted by crypto.SigToPub.
func (sig Signature) Bytes() ([]byte, error) {
	recID, err := sig.RecoveryID()
	if err != nil {
		return nil, err
	}

	out := make([]byte, crypto.SignatureLength)
	copy(out[:32], sig.R[:])
	copy(out[32:64], sig.S[:])
	out[crypto.RecoveryIDOffset] = recID
	return out, nil
}

// String encodes the signature the way nodes report it: "<recid>:<r>:<s>".
func (sig Signature) String() string {
	return fmt.Sprintf("%d:%s:%s", int(sig.V)-recoveryOffset, hex.EncodeToString(sig.R[:]), hex.EncodeToString(sig.S[:]))
}

// ParseSignatureSlot parses the node form "<v>:<r>:<s>". v is the raw 0/1
// recovery id or the 27/28 form. r and s are hex, optionally 0x prefixed, and
// may omit leading zero bytes. r = s = 0 is the absent sentinel and parses to
// a nil slot.
func ParseSignatureSlot(s string) (*Signature, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, errorsmod.Wrapf(ErrMalformedSignature, "expected recid:r:s, got %q", s)
	}

	v, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrMalformedSignature, "invalid recovery id %q", parts[0])
	}
	switch v {
	case 0, 1:
		v += recoveryOffset
	case recoveryOffset, recoveryOffset + 1:
	default:
		return nil, errorsmod.Wrapf(ErrMalformedSignature, "invalid recovery id %q", parts[0])
	}

	var r, sv [32]byte
	if err := parseWord(parts[1], &r); err != nil {
		return nil, errorsmod.Wrapf(ErrMalformedSignature, "r: %s", err)
	}
	if err := parseWord(parts[2], &sv); err != nil {
		return nil, errorsmod.Wrapf(ErrMalformedSignature, "s: %s", err)
	}

	if r == ([32]byte{}) && sv == ([32]byte{}) {
		v = 0
	}
	return NewSignatureSlot(uint8(v), r, sv), nil
}

func parseWord(s string, out *[32]byte) error {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return fmt.Errorf("empty value")
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}

	bz, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(bz) > 32 {
		return fmt.Errorf("value longer than 32 bytes")
	}

	*out = common.BytesToHash(bz)
	return nil
}
