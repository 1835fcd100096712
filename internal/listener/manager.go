package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionHandler runs one operator session over a line-oriented
// connection. admin.Console implements it.
type SessionHandler interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

// ConnectionManager hands accepted console connections to the session
// handler. The telnet and ssh listeners share one.
type ConnectionManager struct {
	handler SessionHandler
}

func NewConnectionManager(handler SessionHandler) *ConnectionManager {
	return &ConnectionManager{
		handler: handler,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.handler.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}
