package eventchain

import (
	"fmt"

	"github.com/randalmurphal/eventchain/pkg/eventchain/actionlog"
	ecconfig "github.com/randalmurphal/eventchain/pkg/eventchain/config"
)

// NewFromConfig creates a Director from a file-loaded configuration.
// Additional options are applied on top and win over the file values.
//
// If the configuration names a log sink path, the SQLite sink is opened
// here; close it by closing the returned sink via CloseLogSink when the
// Director is no longer used.
func NewFromConfig(cfg ecconfig.Config, opts ...Option) (*Director, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	base := []Option{
		WithMaxConcurrentActions(cfg.MaxConcurrentActions),
		WithMaxLogEntries(cfg.MaxLogEntries),
		WithDepthFirst(cfg.DepthFirst),
		WithFlattenedResults(cfg.FlattenResults),
	}

	var sink actionlog.Sink
	if cfg.LogSinkPath != "" {
		s, err := actionlog.NewSQLiteSink(cfg.LogSinkPath)
		if err != nil {
			return nil, fmt.Errorf("open log sink: %w", err)
		}
		sink = s
		base = append(base, WithLogSink(sink))
	}

	d := New(append(base, opts...)...)
	d.sink = sink
	return d, nil
}

// CloseLogSink closes the sink NewFromConfig opened, if any.
// Directors built with New and an explicit WithLogSink own nothing and
// return nil here; the caller closes their own sink.
func (d *Director) CloseLogSink() error {
	if d.sink == nil {
		return nil
	}
	return d.sink.Close()
}
