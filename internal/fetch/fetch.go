// Package fetch retrieves a session's raw logs from the two remote
// session-log services. All timeout and retry policy lives here; the core
// only ever sees already-fetched bytes.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds one remote log fetch.
const DefaultTimeout = 30 * time.Second

// Config holds the two service endpoints and their auth tokens. The session
// id is appended to each base URL.
type Config struct {
	FlowLogURL  string
	FlowLogKey  string
	AgentLogURL string
	AgentLogKey string
}

// Client fetches session logs over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a fetch client with the default timeout.
func New(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: DefaultTimeout},
	}
}

// Result carries the fetched raw logs for one session plus a unique load id
// for bookkeeping by the caller.
type Result struct {
	LoadID   string
	FlowLog  []byte
	AgentLog []byte
}

// Session fetches both logs for a session id. Either fetch failing fails the
// whole operation; nothing partial is returned.
func (c *Client) Session(ctx context.Context, sessionID string) (*Result, error) {
	flowLog, err := c.get(ctx, c.cfg.FlowLogURL+"/"+sessionID, c.cfg.FlowLogKey)
	if err != nil {
		return nil, fmt.Errorf("flow-engine log for %s: %w", sessionID, err)
	}

	agentLog, err := c.get(ctx, c.cfg.AgentLogURL+"/"+sessionID, c.cfg.AgentLogKey)
	if err != nil {
		return nil, fmt.Errorf("agent log for %s: %w", sessionID, err)
	}

	return &Result{
		LoadID:   uuid.NewString(),
		FlowLog:  flowLog,
		AgentLog: agentLog,
	}, nil
}

func (c *Client) get(ctx context.Context, url, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if key != "" {
		req.Header.Set("Authorization", key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
