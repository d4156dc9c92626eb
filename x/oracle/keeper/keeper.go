package keeper

import (
	"fmt"

	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

type Keeper struct {
	storeKey  storetypes.StoreKey
	recoverer types.Recoverer
}

// NewKeeper creates the oracle keeper. A nil recoverer selects
// types.EthRecoverer.
func NewKeeper(
	storeKey storetypes.StoreKey,
	recoverer types.Recoverer,
) *Keeper {
	if recoverer == nil {
		recoverer = types.EthRecoverer{}
	}

	return &Keeper{
		storeKey:  storeKey,
		recoverer: recoverer,
	}
}

func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}
