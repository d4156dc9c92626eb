package keeper

import (
	"encoding/binary"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// SetNumberOfNodes (re)initializes the registry to hold exactly n node
// addresses. Previously registered addresses are dropped.
func (k Keeper) SetNumberOfNodes(ctx sdk.Context, n uint64) error {
	if n == 0 {
		return errorsmod.Wrap(types.ErrInvalidNodeCount, "number of nodes must be at least 1")
	}

	store := ctx.KVStore(k.storeKey)
	nodeStore := prefix.NewStore(store, types.KeyNodeAddress)

	iterator := nodeStore.Iterator(nil, nil)
	var stale [][]byte
	for ; iterator.Valid(); iterator.Next() {
		stale = append(stale, append([]byte(nil), iterator.Key()...))
	}
	iterator.Close()

	for _, key := range stale {
		nodeStore.Delete(key)
	}

	store.Set(types.KeyNumberOfNodes, types.IDToBytes(n))
	store.Set(types.KeyRegisteredNodes, types.IDToBytes(0))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetNumberOfNodes,
			sdk.NewAttribute(types.AttributeKeyNumberOfNodes, strconv.FormatUint(n, 10)),
			sdk.NewAttribute(types.AttributeKeyCountOfTrustNumber, strconv.FormatUint(types.CountOfTrustNumber(n), 10)),
		),
	)

	k.Logger(ctx).Info("node registry initialized", "nodes", n, "threshold", types.CountOfTrustNumber(n))
	return nil
}

// GetNumberOfNodes returns the registry capacity, zero if never initialized.
func (k Keeper) GetNumberOfNodes(ctx sdk.Context) uint64 {
	return k.getUint64(ctx, types.KeyNumberOfNodes)
}

// GetCountOfTrustNumber returns the quorum for the current registry capacity.
func (k Keeper) GetCountOfTrustNumber(ctx sdk.Context) uint64 {
	return types.CountOfTrustNumber(k.GetNumberOfNodes(ctx))
}

// GetRegisteredCount returns how many node addresses have been registered.
func (k Keeper) GetRegisteredCount(ctx sdk.Context) uint64 {
	return k.getUint64(ctx, types.KeyRegisteredNodes)
}

// SetNodeAddress appends addr at the next free index and returns that index.
func (k Keeper) SetNodeAddress(ctx sdk.Context, addr common.Address) (uint64, error) {
	n := k.GetNumberOfNodes(ctx)
	index := k.GetRegisteredCount(ctx)
	if index >= n {
		return 0, errorsmod.Wrapf(types.ErrOverCapacity, "%d of %d nodes registered", index, n)
	}

	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetNodeAddressKey(index), addr.Bytes())
	store.Set(types.KeyRegisteredNodes, types.IDToBytes(index+1))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetNodeAddress,
			sdk.NewAttribute(types.AttributeKeyIndex, strconv.FormatUint(index, 10)),
			sdk.NewAttribute(types.AttributeKeyNodeAddress, addr.Hex()),
		),
	)

	return index, nil
}

// GetNodeAddress returns the address registered at index.
func (k Keeper) GetNodeAddress(ctx sdk.Context, index uint64) (common.Address, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetNodeAddressKey(index))
	if len(bz) == 0 {
		return common.Address{}, false
	}
	return common.BytesToAddress(bz), true
}

// GetNodeAddresses returns the registered addresses in slot order.
func (k Keeper) GetNodeAddresses(ctx sdk.Context) []common.Address {
	store := ctx.KVStore(k.storeKey)
	iterator := sdk.KVStorePrefixIterator(store, types.KeyNodeAddress)
	defer iterator.Close()

	addrs := []common.Address{}
	for ; iterator.Valid(); iterator.Next() {
		addrs = append(addrs, common.BytesToAddress(iterator.Value()))
	}
	return addrs
}

func (k Keeper) getUint64(ctx sdk.Context, key []byte) uint64 {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(key)
	if len(bz) == 0 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}
