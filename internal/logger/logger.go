package logger

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/config"
)

// New builds the structured application logger.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

// Logger is the minimal logging capability handed to quiz components.
type Logger interface {
	Log(message string)
}

// Zap writes messages through a zap logger.
type Zap struct {
	l *zap.Logger
}

// NewZap wraps z. Messages are logged at debug level.
func NewZap(z *zap.Logger) *Zap {
	return &Zap{l: z.WithOptions(zap.AddCallerSkip(1))}
}

func (z *Zap) Log(message string) {
	z.l.Debug(message)
}

// Mirror forwards messages to a base logger and copies them to a panel,
// for example an on-screen debug area.
type Mirror struct {
	mu    sync.Mutex
	base  Logger
	panel io.Writer
}

// NewMirror returns a logger writing to both base and panel.
func NewMirror(base Logger, panel io.Writer) *Mirror {
	return &Mirror{base: base, panel: panel}
}

func (m *Mirror) Log(message string) {
	if m.base != nil {
		m.base.Log(message)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = fmt.Fprintln(m.panel, message)
}

type nop struct{}

func (nop) Log(string) {}

// Nop discards every message.
var Nop Logger = nop{}
