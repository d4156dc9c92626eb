package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cosmos/cosmos-sdk/store"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmdb "github.com/tendermint/tm-db"

	"github.com/GPTx-global/guru-oracle/oracle/config"
	"github.com/GPTx-global/guru-oracle/x/oracle"
	"github.com/GPTx-global/guru-oracle/x/oracle/keeper"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

const dbName = "oracle"

// State owns the oracle store and serializes every operation on it. Each
// Execute call runs on a branch of the store that is written and committed
// only when the call succeeds.
type State struct {
	mu     sync.Mutex
	db     tmdb.DB
	cms    storetypes.CommitMultiStore
	keeper *keeper.Keeper
	logger log.Logger
}

// Open opens the database described by cfg and mounts the oracle store. If
// the registry is empty and cfg lists a node registry, it is loaded.
func Open(cfg *config.Config, logger log.Logger) (*State, error) {
	db, err := tmdb.NewDB(dbName, tmdb.BackendType(cfg.DB.Backend), cfg.DBDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Backend, err)
	}

	s, err := New(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	if cfg.Registry.Nodes > 0 {
		if err := s.loadRegistry(cfg.Registry); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

// New mounts the oracle store on db.
func New(db tmdb.DB, logger log.Logger) (*State, error) {
	storeKey := sdk.NewKVStoreKey(types.StoreKey)

	cms := store.NewCommitMultiStore(db)
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	return &State{
		db:     db,
		cms:    cms,
		keeper: keeper.NewKeeper(storeKey, nil),
		logger: logger,
	}, nil
}

// Execute runs fn on a branch of the store. The branch is written and
// committed only if fn returns nil; otherwise the store is left unchanged.
func (s *State) Execute(fn func(ctx sdk.Context, k *keeper.Keeper) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache := s.cms.CacheMultiStore()
	if err := fn(s.newContext(cache), s.keeper); err != nil {
		return err
	}

	cache.Write()
	s.cms.Commit()
	return nil
}

// Query runs fn on a read-only branch of the store.
func (s *State) Query(fn func(ctx sdk.Context, k *keeper.Keeper) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.newContext(s.cms.CacheMultiStore()), s.keeper)
}

// Version returns the last committed version.
func (s *State) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cms.LastCommitID().Version
}

func (s *State) Close() error {
	return s.db.Close()
}

func (s *State) newContext(ms storetypes.MultiStore) sdk.Context {
	header := tmproto.Header{
		Height: s.cms.LastCommitID().Version + 1,
		Time:   time.Now().UTC(),
	}
	return sdk.NewContext(ms, header, false, s.logger)
}

func (s *State) loadRegistry(reg config.RegistryConfig) error {
	return s.Execute(func(ctx sdk.Context, k *keeper.Keeper) error {
		if k.GetNumberOfNodes(ctx) != 0 {
			return nil
		}

		if err := k.SetNumberOfNodes(ctx, reg.Nodes); err != nil {
			return err
		}
		for _, addr := range reg.Addresses {
			if _, err := k.SetNodeAddress(ctx, common.HexToAddress(addr)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ImportGenesis initializes an empty store from gs. It reports false and
// leaves the store untouched when a registry or data is already present.
func (s *State) ImportGenesis(gs types.GenesisState) (imported bool, err error) {
	if err := gs.Validate(); err != nil {
		return false, err
	}

	err = s.Execute(func(ctx sdk.Context, k *keeper.Keeper) (err error) {
		if !isEmpty(ctx, k) {
			return nil
		}

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("failed to import genesis: %v", r)
			}
		}()
		oracle.InitGenesis(ctx, *k, gs)
		imported = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return imported, nil
}

// ExportGenesis returns the registry and all stored data.
func (s *State) ExportGenesis() (types.GenesisState, error) {
	var gs types.GenesisState
	err := s.Query(func(ctx sdk.Context, k *keeper.Keeper) error {
		gs = oracle.ExportGenesis(ctx, *k)
		return nil
	})
	return gs, err
}

func isEmpty(ctx sdk.Context, k *keeper.Keeper) bool {
	if k.GetNumberOfNodes(ctx) != 0 {
		return false
	}

	empty := true
	k.IterateData(ctx, func(common.Hash, string) bool {
		empty = false
		return true
	})
	return empty
}

type stateKey struct{}

// WithState stores s in ctx for command handlers.
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateKey{}, s)
}

// FromContext returns the State stored by WithState.
func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(stateKey{}).(*State)
	return s, ok
}
