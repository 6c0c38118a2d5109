// Package sqlclient is a small synchronous client for the reldbwire
// frame protocol.
package sqlclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"reldb/internal/sql/executor"
	"reldb/server/reldbwire"
)

// Client serializes Exec calls over one connection; concurrent callers
// are safe but take turns.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
	id   atomic.Uint64

	// Optional per-request timeout (0 = no timeout).
	rwTimeout time.Duration
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: c}, nil
}

// SetRWTimeout sets a per-Exec read/write deadline so a dead server
// cannot hang the client forever.
func (c *Client) SetRWTimeout(d time.Duration) {
	if c == nil {
		return
	}
	c.rwTimeout = d
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) Exec(sql string) (*executor.Result, error) {
	return c.ExecContext(context.Background(), sql)
}

func (c *Client) ExecContext(ctx context.Context, sql string) (*executor.Result, error) {
	if c == nil || c.conn == nil {
		return nil, fmt.Errorf("sqlclient: nil client")
	}

	reqID := c.id.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() {
		// Clear deadline after the request so an idle connection does
		// not expire.
		_ = c.conn.SetDeadline(time.Time{})
	}()

	req := reldbwire.ExecuteRequest{ID: reqID, SQL: sql}
	if err := reldbwire.WriteFrame(c.conn, req); err != nil {
		return nil, err
	}

	var resp reldbwire.ExecuteResponse
	if err := reldbwire.ReadFrame(c.conn, &resp); err != nil {
		return nil, err
	}

	if resp.ID != reqID {
		return nil, fmt.Errorf("sqlclient: response id mismatch: got=%d want=%d", resp.ID, reqID)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	return resp.Result, nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.rwTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.rwTimeout))
	}
	return nil
}
