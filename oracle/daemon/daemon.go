package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/GPTx-global/guru-oracle/oracle/collector"
	"github.com/GPTx-global/guru-oracle/oracle/log"
	"github.com/GPTx-global/guru-oracle/oracle/state"
	"github.com/GPTx-global/guru-oracle/x/oracle"
	"github.com/GPTx-global/guru-oracle/x/oracle/keeper"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

const (
	maxReplySize    = 1 << 20
	shutdownTimeout = 10 * time.Second
	pruneInterval   = time.Minute
)

// Daemon accepts signed node replies over HTTP, collects them per request and
// commits each request once it reaches quorum.
type Daemon struct {
	state     *state.State
	collector *collector.Collector
	router    *mux.Router
	nodes     int
}

// SubmitResult reports what happened to the signatures of one posted reply.
type SubmitResult struct {
	Digest    string            `json:"digest"`
	Accepted  []int             `json:"accepted"`
	Rejected  map[string]string `json:"rejected,omitempty"`
	Valid     uint64            `json:"valid"`
	Threshold uint64            `json:"threshold"`
	Committed bool              `json:"committed"`
}

// New creates a daemon over st using a snapshot of the stored node registry.
func New(st *state.State) (*Daemon, error) {
	var nodes []common.Address
	err := st.Query(func(ctx sdk.Context, k *keeper.Keeper) error {
		n := k.GetNumberOfNodes(ctx)
		nodes = make([]common.Address, n)
		for i := range nodes {
			// unregistered slots keep the zero address, which no signature recovers to
			nodes[i], _ = k.GetNodeAddress(ctx, uint64(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errorsmod.Wrap(types.ErrInvalidNodeCount, "node registry is not initialized")
	}

	d := &Daemon{
		state:     st,
		collector: collector.New(nodes, nil),
		nodes:     len(nodes),
	}
	d.router = d.newRouter()
	return d, nil
}

func (d *Daemon) newRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", d.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/replies", d.handleSubmit).Methods(http.MethodPost)
	v1.HandleFunc("/pending/{digest}", d.handlePending).Methods(http.MethodGet)
	v1.HandleFunc("/registry", d.handleRegistry).Methods(http.MethodGet)
	v1.HandleFunc("/data", d.handleData).Methods(http.MethodGet)
	return r
}

// Handler returns the HTTP handler serving the daemon API.
func (d *Daemon) Handler() http.Handler {
	return d.router
}

// Start serves the API on listen until ctx is done.
func (d *Daemon) Start(ctx context.Context, listen string) error {
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", listen, err)
	}
	return d.Serve(ctx, ln)
}

// Serve serves the API on ln until ctx is done, then shuts down gracefully.
func (d *Daemon) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           d.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("oracle daemon listening on %s (%d nodes, threshold %d)", ln.Addr(), d.nodes, d.collector.Threshold())
		errCh <- srv.Serve(ln)
	}()

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go d.prune(pruneCtx)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Infof("oracle daemon stopped")
	return nil
}

// prune periodically drops requests that never reached quorum.
func (d *Daemon) prune(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := d.collector.Prune(); n > 0 {
				log.Infof("dropped %d requests that did not reach quorum", n)
			}
		}
	}
}

// Submit feeds every signed slot of resp into the collector and commits the
// request when it reaches quorum.
func (d *Daemon) Submit(resp types.OracleResponse) (*SubmitResult, error) {
	if len(resp.Sigs) != d.nodes {
		return nil, errorsmod.Wrapf(types.ErrInvalidSlots, "got %d slots for %d nodes", len(resp.Sigs), d.nodes)
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}

	digest := types.Digest(resp.OracleRequest)
	res := &SubmitResult{
		Digest:    digest.Hex(),
		Accepted:  []int{},
		Threshold: d.collector.Threshold(),
	}

	var ready *types.OracleResponse
	for slot, sig := range resp.Sigs {
		if sig == nil {
			continue
		}
		full, err := d.collector.Add(resp.OracleRequest, slot, sig)
		if err != nil {
			if res.Rejected == nil {
				res.Rejected = map[string]string{}
			}
			res.Rejected[strconv.Itoa(slot)] = err.Error()
			continue
		}
		res.Accepted = append(res.Accepted, slot)
		if full != nil {
			ready = full
		}
	}

	if _, valid, ok := d.collector.Response(digest); ok {
		res.Valid = valid
	}
	if ready == nil {
		return res, nil
	}

	if err := d.commit(*ready); err != nil {
		d.collector.Reopen(digest)
		return nil, err
	}
	d.collector.Remove(digest)
	res.Committed = true
	return res, nil
}

func (d *Daemon) commit(resp types.OracleResponse) error {
	return d.state.Execute(func(ctx sdk.Context, k *keeper.Keeper) error {
		handler := oracle.NewHandler(keeper.NewMsgServerImpl(*k))
		_, err := handler(ctx, types.NewMsgSetOracleResponse(resp))
		return err
	})
}

func (d *Daemon) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReplySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	resp, err := types.ParseOracleResponse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := d.Submit(resp)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (d *Daemon) handlePending(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["digest"]
	digest, err := types.ParseDataKeyHex(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, valid, ok := d.collector.Response(digest)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no pending request %s", raw))
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Reply     json.RawMessage `json:"reply"`
		Valid     uint64          `json:"valid"`
		Threshold uint64          `json:"threshold"`
	}{
		Reply:     resp.MarshalNodeJSON(),
		Valid:     valid,
		Threshold: d.collector.Threshold(),
	})
}

func (d *Daemon) handleRegistry(w http.ResponseWriter, r *http.Request) {
	var res *keeper.QueryRegistryResponse
	err := d.state.Query(func(ctx sdk.Context, k *keeper.Keeper) error {
		var err error
		res, err = k.Registry(sdk.WrapSDKContext(ctx))
		return err
	})
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (d *Daemon) handleData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &keeper.QueryDataRequest{
		URI:  q.Get("uri"),
		Jsp:  q.Get("jsp"),
		Post: q.Get("post"),
	}

	var res *keeper.QueryDataResponse
	err := d.state.Query(func(ctx sdk.Context, k *keeper.Keeper) error {
		var err error
		res, err = k.Data(sdk.WrapSDKContext(ctx), req)
		return err
	})
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	status := http.StatusOK
	if !res.Found {
		status = http.StatusNotFound
	}
	writeJSON(w, status, res)
}

func (d *Daemon) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": d.state.Version(),
		"pending": d.collector.Len(),
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidResponse),
		errors.Is(err, types.ErrInvalidRequest),
		errors.Is(err, types.ErrInvalidSlots):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrQuorumNotMet):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	writeJSON(w, status, map[string]any{
		"error":     err.Error(),
		"codespace": codespace,
		"code":      code,
	})
}
