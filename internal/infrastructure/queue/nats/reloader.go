// Package nats subscribes to pool reload broadcasts. Publishing any
// message on the configured subject makes every running instance reload
// its job and resume pools from the source.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Reloader listens for reload notifications and re-reads the pools.
type Reloader struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	sub     *nats.Subscription
}

type Options struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
}

func New(url, subject string, logger *slog.Logger, options Options) (*Reloader, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name("resumatch"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Reloader{conn: conn, subject: subject, logger: logger}, nil
}

// Subscribe starts handling reload broadcasts. reload is invoked once
// per message; its error is logged, never fatal.
func (r *Reloader) Subscribe(ctx context.Context, reload func(context.Context) error) error {
	sub, err := r.conn.Subscribe(r.subject, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		r.logger.Info("pool_reload_requested", "subject", msg.Subject)
		if err := reload(ctx); err != nil {
			r.logger.Error("pool_reload_failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := r.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	r.sub = sub
	return nil
}

func (r *Reloader) Close() {
	if r.sub != nil {
		_ = r.sub.Unsubscribe()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}
