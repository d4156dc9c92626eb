package collector

import (
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/GPTx-global/guru-oracle/oracle/log"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

const (
	DefaultMaxPending = 4096
	DefaultTTL        = 10 * time.Minute
)

// Collector gathers node signatures for identical oracle requests until each
// request has enough slot-valid signatures to be accepted by the keeper.
// Requests are matched by their canonical digest.
type Collector struct {
	nodes     []common.Address
	threshold uint64
	recoverer types.Recoverer
	pools     cmap.ConcurrentMap[string, *pool]

	maxPending int
	ttl        time.Duration
	now        func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxPending bounds the number of requests waiting for quorum. Zero
// disables the bound.
func WithMaxPending(n int) Option {
	return func(c *Collector) { c.maxPending = n }
}

// WithTTL sets how long a request may wait for quorum before Prune drops it.
func WithTTL(ttl time.Duration) Option {
	return func(c *Collector) { c.ttl = ttl }
}

type pool struct {
	mu       sync.Mutex
	created  time.Time
	request  types.OracleRequest
	sigs     []*types.Signature
	valid    uint64
	reported bool
}

// New creates a collector for a registry snapshot. A nil recoverer selects
// types.EthRecoverer.
func New(nodes []common.Address, recoverer types.Recoverer, opts ...Option) *Collector {
	if recoverer == nil {
		recoverer = types.EthRecoverer{}
	}

	c := &Collector{
		nodes:      nodes,
		threshold:  types.CountOfTrustNumber(uint64(len(nodes))),
		recoverer:  recoverer,
		pools:      cmap.New[*pool](),
		maxPending: DefaultMaxPending,
		ttl:        DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add records the signature of the node at slot for req. The signature is
// checked immediately; a signature that does not recover to the node
// registered at slot is rejected. The assembled response is returned exactly
// once, by the call that brings the request to quorum.
func (c *Collector) Add(req types.OracleRequest, slot int, sig *types.Signature) (*types.OracleResponse, error) {
	if slot < 0 || slot >= len(c.nodes) {
		return nil, errorsmod.Wrapf(types.ErrInvalidSlots, "slot %d out of range [0, %d)", slot, len(c.nodes))
	}
	if sig == nil {
		return nil, errorsmod.Wrapf(types.ErrMalformedSignature, "slot %d: no signature", slot)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	digest := types.Digest(req)
	signer, err := c.recoverer.Recover(digest, *sig)
	if err != nil {
		return nil, err
	}
	if signer != c.nodes[slot] {
		return nil, errorsmod.Wrapf(types.ErrSlotMismatch, "slot %d: signer %s", slot, signer.Hex())
	}

	if !c.pools.Has(digest.Hex()) && c.maxPending > 0 && c.pools.Count() >= c.maxPending {
		if c.Prune(); c.pools.Count() >= c.maxPending {
			return nil, errorsmod.Wrapf(types.ErrTooManyPending, "%d requests waiting for quorum", c.pools.Count())
		}
	}

	c.pools.SetIfAbsent(digest.Hex(), &pool{
		created: c.now(),
		request: req,
		sigs:    make([]*types.Signature, len(c.nodes)),
	})
	p, ok := c.pools.Get(digest.Hex())
	if !ok {
		// removed concurrently
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sigs[slot] == nil {
		p.valid++
	}
	p.sigs[slot] = sig

	log.Debugf("collected signature for %s: slot %d, %d of %d", digest.Hex(), slot, p.valid, c.threshold)

	if p.reported || p.valid < c.threshold {
		return nil, nil
	}

	p.reported = true
	resp := p.response()
	return &resp, nil
}

// Response returns the current state of the request with the given digest.
func (c *Collector) Response(digest common.Hash) (types.OracleResponse, uint64, bool) {
	p, ok := c.pools.Get(digest.Hex())
	if !ok {
		return types.OracleResponse{}, 0, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.response(), p.valid, true
}

// Reopen lets the request with the given digest be returned by Add again,
// after a commit of the assembled response failed.
func (c *Collector) Reopen(digest common.Hash) {
	p, ok := c.pools.Get(digest.Hex())
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.reported = false
}

// Prune drops requests that have waited longer than the TTL and returns how
// many were dropped.
func (c *Collector) Prune() int {
	if c.ttl <= 0 {
		return 0
	}

	deadline := c.now().Add(-c.ttl)
	pruned := 0
	for key, p := range c.pools.Items() {
		if !p.created.Before(deadline) {
			continue
		}

		removed := c.pools.RemoveCb(key, func(_ string, cur *pool, exists bool) bool {
			return exists && cur == p
		})
		if removed {
			pruned++
			log.Debugf("dropped pending request %s after %v", key, c.ttl)
		}
	}
	return pruned
}

// Remove drops a request, normally after it has been submitted.
func (c *Collector) Remove(digest common.Hash) {
	c.pools.Remove(digest.Hex())
}

// Len returns the number of pending requests.
func (c *Collector) Len() int {
	return c.pools.Count()
}

func (c *Collector) Threshold() uint64 {
	return c.threshold
}

func (p *pool) response() types.OracleResponse {
	sigs := make([]*types.Signature, len(p.sigs))
	copy(sigs, p.sigs)
	return types.OracleResponse{
		OracleRequest: p.request,
		Sigs:          sigs,
	}
}
