package keeper

import (
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// SetOracleResponse verifies resp against the node registry and, only if the
// quorum is met, stores every result under DataKey(uri, jsps[i], post).
// Nothing is written when it returns an error.
//
// The time field is signed but not compared with what is already stored, so
// an older response may replace a newer value.
func (k Keeper) SetOracleResponse(ctx sdk.Context, resp types.OracleResponse) (uint64, error) {
	if err := resp.Validate(); err != nil {
		return 0, err
	}

	digest := types.Digest(resp.OracleRequest)

	cacheCtx, write := ctx.CacheContext()

	valid, err := k.VerifySignatures(cacheCtx, digest, resp.Sigs)
	if err != nil {
		return valid, err
	}

	for i, jsp := range resp.Jsps {
		k.SetData(cacheCtx, types.DataKey(resp.URI, jsp, resp.Post), resp.Rslts[i])
	}

	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetOracleResponse,
			sdk.NewAttribute(types.AttributeKeyCid, strconv.FormatUint(resp.Cid, 10)),
			sdk.NewAttribute(types.AttributeKeyURI, resp.URI),
			sdk.NewAttribute(types.AttributeKeyPost, resp.Post),
			sdk.NewAttribute(types.AttributeKeyTime, strconv.FormatUint(resp.Time, 10)),
			sdk.NewAttribute(types.AttributeKeyResults, strings.Join(resp.Rslts, ",")),
			sdk.NewAttribute(types.AttributeKeyValidSignatures, strconv.FormatUint(valid, 10)),
		),
	)

	k.Logger(ctx).Info("oracle response accepted", "cid", resp.Cid, "uri", resp.URI, "digest", digest.Hex(), "valid", valid)
	return valid, nil
}

// SetData stores value under key unconditionally.
func (k Keeper) SetData(ctx sdk.Context, key common.Hash, value string) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetOracleDataKey(key), []byte(value))
}

// GetData returns the value stored under key. found is false when nothing was
// ever stored, which is distinct from a stored empty string.
func (k Keeper) GetData(ctx sdk.Context, key common.Hash) (value string, found bool) {
	store := ctx.KVStore(k.storeKey)
	dataKey := types.GetOracleDataKey(key)
	if !store.Has(dataKey) {
		return "", false
	}
	return string(store.Get(dataKey)), true
}

// GetDataFor looks up the value extracted with jsp from uri and post.
func (k Keeper) GetDataFor(ctx sdk.Context, uri, jsp, post string) (string, bool) {
	return k.GetData(ctx, types.DataKey(uri, jsp, post))
}

// IterateData calls cb for every stored value until cb returns true.
func (k Keeper) IterateData(ctx sdk.Context, cb func(key common.Hash, value string) (stop bool)) {
	store := ctx.KVStore(k.storeKey)
	iterator := sdk.KVStorePrefixIterator(store, types.KeyOracleData)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		key, err := types.ParseOracleDataKey(iterator.Key())
		if err != nil {
			panic(err)
		}
		if cb(key, string(iterator.Value())) {
			return
		}
	}
}
