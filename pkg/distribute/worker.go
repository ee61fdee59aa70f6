package distribute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/rep"
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/jmarsden/flowplan/pkg/logging"
	"github.com/jmarsden/flowplan/pkg/network"
)

// Backend runs one solve on the worker side.
type Backend interface {
	Solve(ctx context.Context, req *network.Request) (*network.Result, error)
}

// Worker serves solve requests over a rep socket.
type Worker struct {
	sock    mangos.Socket
	backend Backend
	log     logging.Logger
}

// NewWorker listens on url and serves solves from backend.
func NewWorker(url string, backend Backend, log logging.Logger) (*Worker, error) {
	if log == nil {
		log = logging.Nop()
	}
	sock, err := rep.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("distribute: creating rep socket: %w", err)
	}
	if err := sock.Listen(url); err != nil {
		sock.Close()
		return nil, fmt.Errorf("distribute: listening on %s: %w", url, err)
	}
	return &Worker{
		sock:    sock,
		backend: backend,
		log:     log.With(logging.Component("worker")),
	}, nil
}

// Run serves requests until the context is canceled. The receive loop
// wakes periodically to notice cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.sock.SetOption(mangos.OptionRecvDeadline, time.Second); err != nil {
		return fmt.Errorf("distribute: setting receive deadline: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		data, err := w.sock.Recv()
		if err != nil {
			if errors.Is(err, mangos.ErrRecvTimeout) {
				continue
			}
			if errors.Is(err, mangos.ErrClosed) {
				return nil
			}
			return fmt.Errorf("distribute: receive failed: %w", err)
		}

		frame := w.serve(ctx, data)
		out, err := encodeFrame(frame)
		if err != nil {
			w.log.Error("encoding response failed", logging.Error(err))
			continue
		}
		if err := w.sock.Send(out); err != nil {
			if errors.Is(err, mangos.ErrClosed) {
				return nil
			}
			w.log.Error("sending response failed", logging.Error(err))
		}
	}
}

func (w *Worker) serve(ctx context.Context, data []byte) responseFrame {
	var in requestFrame
	if err := decodeFrame(data, &in); err != nil || in.Request == nil {
		return responseFrame{ErrorCategory: errCategorySchema, ErrorMessage: "malformed request frame"}
	}

	result, err := w.backend.Solve(ctx, in.Request)
	if err != nil {
		var schemaErr *network.SchemaError
		var domainErr *network.DomainError
		switch {
		case errors.As(err, &schemaErr):
			return responseFrame{ErrorCategory: errCategorySchema, ErrorMessage: schemaErr.Reason}
		case errors.As(err, &domainErr):
			return responseFrame{ErrorCategory: errCategoryDomain, ErrorMessage: domainErr.Reason}
		default:
			w.log.Error("solve failed", logging.Error(err))
			return responseFrame{ErrorCategory: errCategoryInternal, ErrorMessage: "solve failed"}
		}
	}

	return responseFrame{Result: result}
}

// Close shuts the socket down.
func (w *Worker) Close() error {
	return w.sock.Close()
}
