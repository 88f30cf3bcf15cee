// Package log provides structured logging (slog) routed through the host's
// print functions, so extension diagnostics appear in the host's own output.
package log

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/mardigontoler/gdext/internal/abi"
)

// PrintFunc is the shape of the host's print_error / print_warning entries.
type PrintFunc func(description, function, file *byte, line int32)

// HostHandler implements slog.Handler. Error records go to the host's error
// printer, warnings to its warning printer and everything else to a fallback
// handler.
type HostHandler struct {
	printError   PrintFunc
	printWarning PrintFunc
	opts         handlerConfig
	// pairs are WithAttrs attributes rendered under the prefix in effect
	// when they were added.
	pairs  []attrText
	prefix string
	// fallback already carries every WithAttrs/WithGroup call, in order.
	fallback slog.Handler
}

// HandlerOption configures the HostHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	fallback  slog.Handler
	level     slog.Level
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level:     slog.LevelInfo,
		addSource: true,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (function/file/line) to
// the host printers.
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithFallback sets the handler for records below warning level.
func WithFallback(h slog.Handler) HandlerOption {
	return func(c *handlerConfig) {
		c.fallback = h
	}
}

// NewHostHandler creates a HostHandler. Either printer may be nil, in which
// case its records go to the fallback handler as well.
func NewHostHandler(printError, printWarning PrintFunc, opts ...HandlerOption) *HostHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.fallback == nil {
		cfg.fallback = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.level})
	}
	return &HostHandler{
		printError:   printError,
		printWarning: printWarning,
		opts:         cfg,
		fallback:     cfg.fallback,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *HostHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level
}

// Handle formats the record and hands it to the matching printer.
func (h *HostHandler) Handle(ctx context.Context, record slog.Record) error {
	printer := h.printerFor(record.Level)
	if printer == nil {
		return h.fallback.Handle(ctx, record)
	}

	var function, file string
	var line int32
	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		frame, _ := frames.Next()
		function, file, line = frame.Function, frame.File, int32(frame.Line)
	}

	printer(abi.CBytes(h.describe(record)), abi.CBytes(function), abi.CBytes(file), line)
	return nil
}

func (h *HostHandler) printerFor(level slog.Level) PrintFunc {
	switch {
	case level >= slog.LevelError:
		return h.printError
	case level >= slog.LevelWarn:
		return h.printWarning
	default:
		return nil
	}
}

// describe renders "message key=value ..." with handler and record attributes.
func (h *HostHandler) describe(record slog.Record) string {
	var b strings.Builder
	b.WriteString(record.Message)

	write := func(kv attrText) {
		b.WriteByte(' ')
		b.WriteString(kv.key)
		b.WriteByte('=')
		b.WriteString(kv.value)
	}
	for _, kv := range h.pairs {
		write(kv)
	}
	record.Attrs(func(attr slog.Attr) bool {
		for _, kv := range flattenAttr(h.prefix, attr) {
			write(kv)
		}
		return true
	})
	return b.String()
}

// WithAttrs returns a new HostHandler that includes the given attributes
// under the current group.
func (h *HostHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	newHandler := *h
	newHandler.pairs = append([]attrText(nil), h.pairs...)
	for _, attr := range attrs {
		newHandler.pairs = append(newHandler.pairs, flattenAttr(h.prefix, attr)...)
	}
	newHandler.fallback = h.fallback.WithAttrs(attrs)
	return &newHandler
}

// WithGroup returns a new HostHandler that nests later attributes under name.
func (h *HostHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newHandler := *h
	newHandler.prefix = h.prefix + name + "."
	newHandler.fallback = h.fallback.WithGroup(name)
	return &newHandler
}
