package kasa

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"homelight/logging"
)

const (
	DefaultPort    uint16 = 9999
	DefaultTimeout        = 2 * time.Second

	// DefaultResponseHeaderSize is the length prefix real bulbs put on TCP replies.
	DefaultResponseHeaderSize = 4
	// NoResponseHeader selects a TCP reply that carries no prefix at all.
	NoResponseHeader = -1

	maxResponseSize = 4096
)

// Options tune a single exchange. The zero value talks to port 9999 with a
// two second bound and expects a 4-byte prefix on TCP replies.
type Options struct {
	Port               uint16
	Timeout            time.Duration
	ResponseHeaderSize int
	Logger             *zap.Logger
}

func (o Options) target(address string) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	port := o.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(address, strconv.Itoa(int(port)))
}

func (o Options) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (o Options) responseHeaderSize() int {
	switch {
	case o.ResponseHeaderSize == 0:
		return DefaultResponseHeaderSize
	case o.ResponseHeaderSize < 0:
		return 0
	default:
		return o.ResponseHeaderSize
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.GetLogger()
}

// watchConnection applies the context deadline to conn and closes it as soon
// as ctx is done, so a cancelled call never leaves a socket behind.
func watchConnection(ctx context.Context, conn net.Conn) (stop func() bool, err error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return context.AfterFunc(ctx, func() { _ = conn.Close() }), nil
}

// classifyNetError turns a socket failure into ErrTimeout, the caller's
// cancellation, or a *TransportError.
func classifyNetError(ctx context.Context, op, addr string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%s %s: %w", op, addr, ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w", op, addr, ctxErr)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s %s: %w", op, addr, ErrTimeout)
	}
	return &TransportError{Op: op, Addr: addr, Err: err}
}
