// Package sweep runs a grid of strategy configs against one or more
// symbols, deduplicating indicator materialization and parallelizing
// across a worker pool (spec.md §4.8).
package sweep

import "trendlab/logger"

// EventKind names the stage a progress Event reports.
type EventKind int

const (
	SweepStarted EventKind = iota
	SymbolStarted
	ConfigCompleted
	SweepComplete
	SweepCancelled
)

func (k EventKind) String() string {
	switch k {
	case SweepStarted:
		return "sweep_started"
	case SymbolStarted:
		return "symbol_started"
	case ConfigCompleted:
		return "config_completed"
	case SweepComplete:
		return "sweep_complete"
	case SweepCancelled:
		return "sweep_cancelled"
	default:
		return "unknown"
	}
}

// Event is one progress notification emitted during a sweep (spec.md
// §4.8's "sweep-started, per-symbol-started, per-config-completed,
// sweep-complete/cancelled" event list).
type Event struct {
	Kind      EventKind
	Symbol    string
	ConfigTag string
	Completed int
	Total     int
}

// ProgressFunc receives sweep progress events. A nil func is a valid,
// silent no-op receiver.
type ProgressFunc func(Event)

func emit(fn ProgressFunc, e Event) {
	if fn != nil {
		fn(e)
	}
}

// logInfo and logWarn no-op when log is nil, the same "nil subscriber"
// convention ProgressFunc uses, so callers that don't care about logging
// aren't forced to supply one.
func logInfo(log logger.Logger, msg string, fields ...logger.Field) {
	if log != nil {
		log.Info(msg, fields...)
	}
}

func logWarn(log logger.Logger, msg string, fields ...logger.Field) {
	if log != nil {
		log.Warn(msg, fields...)
	}
}
