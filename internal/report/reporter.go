// Package report records faults raised by plugin code without stopping the
// caller.
package report

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Versifine/protolib/internal/plugin"
)

//go:generate mockgen -destination=mocks/mock_reporter.go -package=mocks github.com/Versifine/protolib/internal/report Reporter

// DefaultMaxErrorCount is how many reports a plugin gets before it is muted.
const DefaultMaxErrorCount = 20

type Reporter interface {
	// ReportMinimal records err raised by owner while running method.
	ReportMinimal(owner plugin.Plugin, method string, err error)
}

type Options struct {
	// Detailed logs the full error chain with stack traces.
	Detailed bool
	// Suppressed method labels are never logged.
	Suppressed    []string
	MaxErrorCount int
}

// Basic logs reports through slog.
type Basic struct {
	logger *slog.Logger

	mu         sync.Mutex
	detailed   bool
	suppressed map[string]struct{}
	maxErrors  int
	counts     map[uuid.UUID]int
}

func NewBasic(logger *slog.Logger, opts Options) *Basic {
	b := &Basic{
		logger: logger,
		counts: make(map[uuid.UUID]int),
	}
	b.Configure(opts)
	return b
}

// Configure replaces the options. Report counts are kept.
func (b *Basic) Configure(opts Options) {
	if opts.MaxErrorCount <= 0 {
		opts.MaxErrorCount = DefaultMaxErrorCount
	}
	suppressed := make(map[string]struct{}, len(opts.Suppressed))
	for _, s := range opts.Suppressed {
		suppressed[s] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.detailed = opts.Detailed
	b.suppressed = suppressed
	b.maxErrors = opts.MaxErrorCount
}

func (b *Basic) ReportMinimal(owner plugin.Plugin, method string, err error) {
	if err == nil {
		return
	}

	b.mu.Lock()
	if _, ok := b.suppressed[method]; ok {
		b.mu.Unlock()
		return
	}
	b.counts[owner.ID]++
	n := b.counts[owner.ID]
	maxErrors, detailed := b.maxErrors, b.detailed
	b.mu.Unlock()

	switch {
	case n > maxErrors:
		return
	case n == maxErrors:
		b.logger.Warn("Too many errors, further reports are muted",
			"plugin", owner.String(), "method", method, "count", n)
	}

	attrs := []any{"plugin", owner.String(), "method", method, "error", err.Error()}
	if detailed {
		attrs = append(attrs, "detail", fmt.Sprintf("%+v", err))
	}
	b.logger.Error("Unhandled error in "+method+" for "+owner.String(), attrs...)
}

// Count is the number of reports received for owner, muted ones included.
func (b *Basic) Count(owner plugin.Plugin) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[owner.ID]
}
