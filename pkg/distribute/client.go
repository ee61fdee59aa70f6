package distribute

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/req"
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/jmarsden/flowplan/pkg/network"
)

// DefaultTimeout bounds one remote solve round trip.
const DefaultTimeout = 60 * time.Second

// Client forwards solves to a remote worker. It satisfies the same Solve
// signature as the local planner, so callers cannot tell the difference.
// A req socket handles one exchange at a time; the client serializes.
type Client struct {
	mu      sync.Mutex
	sock    mangos.Socket
	timeout time.Duration
}

// Dial connects to a worker at url. timeout zero means DefaultTimeout.
func Dial(url string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	sock, err := req.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("distribute: creating req socket: %w", err)
	}
	if err := sock.Dial(url); err != nil {
		sock.Close()
		return nil, fmt.Errorf("distribute: dialing %s: %w", url, err)
	}
	return &Client{sock: sock, timeout: timeout}, nil
}

// Solve sends the request to the worker and waits for its result. The
// context deadline, when earlier than the configured timeout, bounds the
// socket deadlines; there is no mid-solve cancellation on the worker.
func (c *Client) Solve(ctx context.Context, request *network.Request) (*network.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, ctx.Err()
	}
	if err := c.sock.SetOption(mangos.OptionSendDeadline, timeout); err != nil {
		return nil, fmt.Errorf("distribute: setting send deadline: %w", err)
	}
	if err := c.sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		return nil, fmt.Errorf("distribute: setting receive deadline: %w", err)
	}

	out, err := encodeFrame(requestFrame{Request: request})
	if err != nil {
		return nil, err
	}
	if err := c.sock.Send(out); err != nil {
		return nil, fmt.Errorf("distribute: sending request: %w", err)
	}

	data, err := c.sock.Recv()
	if err != nil {
		if errors.Is(err, mangos.ErrRecvTimeout) {
			return nil, fmt.Errorf("distribute: timed out waiting for worker after %s", timeout)
		}
		return nil, fmt.Errorf("distribute: receiving response: %w", err)
	}

	var frame responseFrame
	if err := decodeFrame(data, &frame); err != nil {
		return nil, err
	}

	switch frame.ErrorCategory {
	case "":
		if frame.Result == nil {
			return nil, errors.New("distribute: worker returned an empty response")
		}
		return frame.Result, nil
	case errCategorySchema:
		return nil, &network.SchemaError{Reason: frame.ErrorMessage}
	case errCategoryDomain:
		return nil, &network.DomainError{Reason: frame.ErrorMessage}
	default:
		return nil, fmt.Errorf("distribute: worker error: %s", frame.ErrorMessage)
	}
}

// Close shuts the socket down.
func (c *Client) Close() error {
	return c.sock.Close()
}
