package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// VerifySignatures counts the slots whose signature over digest recovers to
// the node registered at that same index. Absent slots, malformed signatures
// and signatures placed at another node's index count as zero. It fails with
// ErrQuorumNotMet when the count is below the registry threshold.
func (k Keeper) VerifySignatures(ctx sdk.Context, digest common.Hash, slots []*types.Signature) (uint64, error) {
	n := k.GetNumberOfNodes(ctx)
	if n == 0 {
		return 0, errorsmod.Wrap(types.ErrInvalidNodeCount, "node registry is not initialized")
	}
	if uint64(len(slots)) != n {
		return 0, errorsmod.Wrapf(types.ErrInvalidSlots, "got %d slots for %d nodes", len(slots), n)
	}

	logger := k.Logger(ctx)

	var valid uint64
	for i, sig := range slots {
		if sig == nil {
			continue
		}

		expected, ok := k.GetNodeAddress(ctx, uint64(i))
		if !ok {
			logger.Debug("slot has no registered node", "slot", i)
			continue
		}

		signer, err := k.recoverer.Recover(digest, *sig)
		if err != nil {
			logger.Debug("ignoring signature", "slot", i, "err", err)
			continue
		}

		if signer != expected {
			logger.Debug("ignoring signature", "slot", i, "err", types.ErrSlotMismatch, "signer", signer.Hex())
			continue
		}

		valid++
	}

	threshold := types.CountOfTrustNumber(n)
	if valid < threshold {
		return valid, errorsmod.Wrapf(types.ErrQuorumNotMet, "%d valid signatures, %d required", valid, threshold)
	}

	return valid, nil
}
