package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/guru-oracle/oracle/log"
	"github.com/GPTx-global/guru-oracle/oracle/retry"
	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

const maxBodySize = 4 << 20

var (
	once       sync.Once
	httpClient *http.Client
)

// defaultClient returns the shared HTTP client used when none is supplied.
func defaultClient() *http.Client {
	once.Do(func() {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	})

	return httpClient
}

// Fetcher performs the data request of an oracle node: it calls the endpoint,
// extracts each json pointer from the reply and trims the extracted values.
type Fetcher struct {
	client *http.Client
	retry  *retry.Config
	now    func() time.Time
}

// New creates a fetcher. A nil client selects a shared default client and a
// nil retry config selects retry.DefaultConfig.
func New(client *http.Client, retryCfg *retry.Config) *Fetcher {
	if client == nil {
		client = defaultClient()
	}
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}

	return &Fetcher{
		client: client,
		retry:  retryCfg,
		now:    time.Now,
	}
}

// Fetch requests req.URI, sending req.Post as the body when set, and returns
// req completed with the extracted results and the receive time in unix
// milliseconds. Incoming Rslts and Time are ignored.
func (f *Fetcher) Fetch(ctx context.Context, req types.OracleRequest) (types.OracleRequest, error) {
	if req.URI == "" {
		return types.OracleRequest{}, errorsmod.Wrap(types.ErrInvalidRequest, "empty uri")
	}
	if !req.IsPost() && len(req.Trims) != len(req.Jsps) {
		return types.OracleRequest{}, errorsmod.Wrapf(types.ErrInvalidRequest, "jsps and trims length mismatch: %d != %d", len(req.Jsps), len(req.Trims))
	}

	var body []byte
	err := retry.Do(ctx, f.retry, func() error {
		var err error
		body, err = f.fetchRawData(ctx, req.URI, req.Post)
		return err
	}, isRetryable)
	if err != nil {
		return types.OracleRequest{}, fmt.Errorf("failed to fetch %s: %w", req.URI, err)
	}
	received := f.now()

	if !gjson.ValidBytes(body) {
		return types.OracleRequest{}, fmt.Errorf("invalid JSON response from %s", req.URI)
	}
	root := gjson.ParseBytes(body)

	out := req
	out.Time = uint64(received.UnixMilli())
	out.Rslts = make([]string, len(req.Jsps))
	for i, jsp := range req.Jsps {
		value, err := Extract(root, jsp)
		if err != nil {
			return types.OracleRequest{}, err
		}
		if !req.IsPost() {
			value = Trim(value, req.Trims[i])
		}
		out.Rslts[i] = value
	}

	log.Debugf("fetched %s: %v", req.URI, out.Rslts)
	return out, nil
}

type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.code, e.status)
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return retry.DefaultIsRetryable(err)
}

func (f *Fetcher) fetchRawData(ctx context.Context, uri, post string) ([]byte, error) {
	method := http.MethodGet
	var reqBody io.Reader
	if post != "" {
		method = http.MethodPost
		reqBody = strings.NewReader(post)
	}

	req, err := http.NewRequestWithContext(ctx, method, uri, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Oracle-Node/1.0")
	req.Header.Set("Accept", "application/json")
	if post != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return body, nil
}

// Extract resolves a JSON pointer ("/a/0/b") against root. Strings are
// returned unquoted, every other value as its raw JSON text.
func Extract(root gjson.Result, pointer string) (string, error) {
	path, err := PointerToPath(pointer)
	if err != nil {
		return "", err
	}

	res := root
	if path != "" {
		res = root.Get(path)
	}
	if !res.Exists() {
		return "", errorsmod.Wrapf(types.ErrInvalidRequest, "json pointer %q not found", pointer)
	}

	if res.Type == gjson.String {
		return res.Str, nil
	}
	return res.Raw, nil
}

// PointerToPath converts an RFC 6901 JSON pointer into a gjson path.
func PointerToPath(pointer string) (string, error) {
	if pointer == "" {
		return "", nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return "", errorsmod.Wrapf(types.ErrInvalidRequest, "json pointer %q must start with /", pointer)
	}

	tokens := strings.Split(pointer[1:], "/")
	for i, token := range tokens {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		tokens[i] = escapePathComponent(token)
	}
	return strings.Join(tokens, "."), nil
}

func escapePathComponent(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', '"', ',', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Trim drops the last n characters of value.
func Trim(value string, n uint64) string {
	r := []rune(value)
	if n >= uint64(len(r)) {
		return ""
	}
	return string(r[:uint64(len(r))-n])
}
