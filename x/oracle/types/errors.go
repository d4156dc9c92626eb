package types

import (
	errorsmod "cosmossdk.io/errors"
)

// errors
var (
	ErrMalformedSignature = errorsmod.Register(ModuleName, 2, "malformed signature")
	ErrQuorumNotMet       = errorsmod.Register(ModuleName, 3, "Verification is failed")
	ErrOverCapacity       = errorsmod.Register(ModuleName, 4, "all node addresses are already registered")
	ErrInvalidNodeCount   = errorsmod.Register(ModuleName, 5, "invalid number of nodes")
	ErrInvalidSlots       = errorsmod.Register(ModuleName, 6, "signature slots do not match the number of nodes")
	ErrInvalidRequest     = errorsmod.Register(ModuleName, 7, "invalid oracle request")
	ErrInvalidAddress     = errorsmod.Register(ModuleName, 8, "invalid node address")
	ErrInvalidResponse    = errorsmod.Register(ModuleName, 9, "invalid oracle response json")
	ErrSlotMismatch       = errorsmod.Register(ModuleName, 10, "signer is not registered at this slot")
	ErrInvalidGenesis     = errorsmod.Register(ModuleName, 11, "invalid genesis state")
	ErrTooManyPending     = errorsmod.Register(ModuleName, 12, "too many pending requests")
)
