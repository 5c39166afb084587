// Package server hosts the short-lived HTTP listener that receives the
// completion callback posted by a triggered remote recompute workflow. The
// audit starts it before firing the trigger and tears it down once the
// callback arrives or the wait times out.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/spriced-qa/pricing-audit/pkg/constants"
	"go.uber.org/zap"
)

// Listener receives workflow completion callbacks.
type Listener struct {
	logger   *zap.Logger
	addr     string
	srv      *http.Server
	ln       net.Listener
	received chan string
}

// NewListener constructs a callback listener bound to addr. An empty addr
// uses the default callback address.
func NewListener(addr string, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(addr) == "" {
		addr = constants.DefaultCallbackAddress
	}
	l := &Listener{
		logger:   logger,
		addr:     addr,
		received: make(chan string, 16),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/workflow/runWorkflow/", l.handleCallback)
	l.srv = &http.Server{Handler: mux}
	return l
}

// Start begins serving in the background. The bound address is available
// from Addr afterward, which matters when the configured port is 0.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", l.addr, err)
	}
	l.ln = ln
	l.logger.Info("callback listener started",
		zap.String("op", "server.Listener.Start"),
		zap.String("address", ln.Addr().String()),
	)
	go func() {
		if err := l.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.logger.Error("callback listener failed",
				zap.String("op", "server.Listener.Start"),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Addr returns the bound listen address.
func (l *Listener) Addr() string {
	if l.ln == nil {
		return l.addr
	}
	return l.ln.Addr().String()
}

// Wait blocks until a workflow callback arrives or ctx expires, returning
// the workflow name from the callback path.
func (l *Listener) Wait(ctx context.Context) (string, error) {
	select {
	case workflow := <-l.received:
		return workflow, nil
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for workflow callback: %w", ctx.Err())
	}
}

// Shutdown stops the listener gracefully.
func (l *Listener) Shutdown(ctx context.Context) error {
	return l.srv.Shutdown(ctx)
}

func (l *Listener) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	workflow := strings.TrimPrefix(r.URL.Path, "/workflow/runWorkflow/")
	l.logger.Info("workflow callback received",
		zap.String("op", "server.Listener.handleCallback"),
		zap.String("workflow", workflow),
	)

	select {
	case l.received <- workflow:
	default:
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}
