package bar

import (
	"fmt"
	"time"
)

// Dataset is a columnar view of a bar sequence: the base OHLCV columns plus
// whatever named columns the indicator cache and strategy layer append.
// Ordered by Ts ascending, no duplicate Ts — enforced by FromBars.
type Dataset struct {
	Symbol    string
	Timeframe string

	Ts     []int64 // unix nanos, kept as int64 for cheap comparisons
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64

	// columns holds every appended column by name, including the base
	// OHLCV ones under their canonical names ("open", "high", ...).
	columns map[string][]float64
	order   []string // insertion order, for deterministic iteration/debugging
}

// FromBars builds a Dataset from a time-ordered slice of bars. Returns a
// data-quality error (spec.md §7) if bars are not monotone, duplicate a
// timestamp, or fail Bar.Validate.
func FromBars(bars []Bar) (*Dataset, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("bar: empty bar series")
	}
	ds := &Dataset{
		Symbol:    bars[0].Symbol,
		Timeframe: bars[0].Timeframe,
		Ts:        make([]int64, len(bars)),
		Open:      make([]float64, len(bars)),
		High:      make([]float64, len(bars)),
		Low:       make([]float64, len(bars)),
		Close:     make([]float64, len(bars)),
		Volume:    make([]float64, len(bars)),
		columns:   make(map[string][]float64),
	}
	var prevTs int64
	for i, b := range bars {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("bar: data quality error at index %d: %w", i, err)
		}
		ts := b.Ts.UnixNano()
		if i > 0 {
			if ts == prevTs {
				return nil, fmt.Errorf("bar: duplicate timestamp at index %d (%s)", i, b.Ts)
			}
			if ts < prevTs {
				return nil, fmt.Errorf("bar: non-monotone timestamp at index %d (%s before %s)", i, b.Ts, bars[i-1].Ts)
			}
		}
		prevTs = ts
		ds.Ts[i] = ts
		ds.Open[i] = b.Open
		ds.High[i] = b.High
		ds.Low[i] = b.Low
		ds.Close[i] = b.Close
		ds.Volume[i] = b.Volume
	}
	ds.columns["open"] = ds.Open
	ds.columns["high"] = ds.High
	ds.columns["low"] = ds.Low
	ds.columns["close"] = ds.Close
	ds.columns["volume"] = ds.Volume
	ds.order = []string{"open", "high", "low", "close", "volume"}
	return ds, nil
}

// Len returns the number of rows (bars) in the dataset.
func (d *Dataset) Len() int { return len(d.Ts) }

// Bar reconstructs the Bar at row i (for the sequential oracle and tests).
func (d *Dataset) Bar(i int) Bar {
	return Bar{
		Ts:        time.Unix(0, d.Ts[i]).UTC(),
		Open:      d.Open[i],
		High:      d.High[i],
		Low:       d.Low[i],
		Close:     d.Close[i],
		Volume:    d.Volume[i],
		Symbol:    d.Symbol,
		Timeframe: d.Timeframe,
	}
}

// Clone returns a deep copy of the dataset's column set, so callers (e.g.
// an ensemble evaluating each child in isolation) can mutate the copy's
// columns without affecting the original or each other.
func (d *Dataset) Clone() (*Dataset, error) {
	out := &Dataset{
		Symbol:    d.Symbol,
		Timeframe: d.Timeframe,
		Ts:        append([]int64(nil), d.Ts...),
		Open:      append([]float64(nil), d.Open...),
		High:      append([]float64(nil), d.High...),
		Low:       append([]float64(nil), d.Low...),
		Close:     append([]float64(nil), d.Close...),
		Volume:    append([]float64(nil), d.Volume...),
		columns:   make(map[string][]float64, len(d.columns)),
		order:     append([]string(nil), d.order...),
	}
	out.columns["open"] = out.Open
	out.columns["high"] = out.High
	out.columns["low"] = out.Low
	out.columns["close"] = out.Close
	out.columns["volume"] = out.Volume
	for name, col := range d.columns {
		switch name {
		case "open", "high", "low", "close", "volume":
			continue
		}
		out.columns[name] = append([]float64(nil), col...)
	}
	return out, nil
}

// HasColumn reports whether a named column has been materialized.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Column returns a materialized column by name, or nil if absent. Callers
// must not mutate the returned slice.
func (d *Dataset) Column(name string) []float64 {
	return d.columns[name]
}

// SetColumn appends or replaces a named column. Per the indicator cache's
// invariant (i) (spec.md §3), this never reorders or mutates other columns
// — it only ever adds or overwrites under the requested name.
func (d *Dataset) SetColumn(name string, values []float64) error {
	if len(values) != d.Len() {
		return fmt.Errorf("bar: column %q length %d != dataset length %d", name, len(values), d.Len())
	}
	if _, exists := d.columns[name]; !exists {
		d.order = append(d.order, name)
	}
	d.columns[name] = values
	return nil
}

// ColumnNames returns every materialized column name in insertion order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// BoolColumn is a convenience accessor: treats a materialized column as a
// boolean flag where a nonzero value (and no NaN) is true. Strategies store
// raw_entry/raw_exit/... this way so they stay ordinary float64 columns.
func (d *Dataset) BoolColumn(name string) []bool {
	col := d.columns[name]
	if col == nil {
		return nil
	}
	out := make([]bool, len(col))
	for i, v := range col {
		out[i] = v != 0
	}
	return out
}

// SetBoolColumn stores a []bool as a 0/1 float64 column.
func (d *Dataset) SetBoolColumn(name string, values []bool) error {
	col := make([]float64, len(values))
	for i, v := range values {
		if v {
			col[i] = 1
		}
	}
	return d.SetColumn(name, col)
}
