package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// DonchianBreakoutConfig parameterizes the classic dual-channel breakout:
// enter on a close beyond the entry_n-bar channel, exit on a close back
// inside the (tighter) exit_n-bar channel.
type DonchianBreakoutConfig struct {
	EntryN int
	ExitN  int
	Mode   TradingMode
}

// Validate checks the channel lengths are sane and the exit channel is
// never wider than the entry channel (an exit channel wider than entry
// would never trigger before the entry channel itself reverses).
func (c DonchianBreakoutConfig) Validate() error {
	if c.EntryN < 2 {
		return fmt.Errorf("strategy: DonchianBreakout entry_n must be >= 2, got %d", c.EntryN)
	}
	if c.ExitN < 2 {
		return fmt.Errorf("strategy: DonchianBreakout exit_n must be >= 2, got %d", c.ExitN)
	}
	if c.ExitN > c.EntryN {
		return fmt.Errorf("strategy: DonchianBreakout exit_n (%d) must be <= entry_n (%d)", c.ExitN, c.EntryN)
	}
	return nil
}

// DonchianBreakout is the spec's DonchianBreakout(entry_n, exit_n) variant.
type DonchianBreakout struct {
	Cfg DonchianBreakoutConfig
}

func NewDonchianBreakout(cfg DonchianBreakoutConfig) (*DonchianBreakout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &DonchianBreakout{Cfg: cfg}, nil
}

func (s *DonchianBreakout) IndicatorKeys() []indicator.Key {
	return []indicator.Key{
		{Kind: "Donchian", Window: s.Cfg.EntryN},
		{Kind: "Donchian", Window: s.Cfg.ExitN},
	}
}

func (s *DonchianBreakout) EmitSignalColumns(ds *bar.Dataset) error {
	entryUpper := ds.Column(fmt.Sprintf("dc_%d_upper", s.Cfg.EntryN))
	entryLower := ds.Column(fmt.Sprintf("dc_%d_lower", s.Cfg.EntryN))
	exitUpper := ds.Column(fmt.Sprintf("dc_%d_upper", s.Cfg.ExitN))
	exitLower := ds.Column(fmt.Sprintf("dc_%d_lower", s.Cfg.ExitN))
	if entryUpper == nil || exitLower == nil {
		return fmt.Errorf("strategy: DonchianBreakout requires Donchian(%d) and Donchian(%d) materialized first", s.Cfg.EntryN, s.Cfg.ExitN)
	}

	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 0; i < n; i++ {
		c := ds.Close[i]
		entry[i] = c > entryUpper[i]
		exit[i] = c < exitLower[i]
		entryShort[i] = c < entryLower[i]
		exitShort[i] = c > exitUpper[i]
	}
	if err := ds.SetBoolColumn(colRawEntry, entry); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawExit, exit); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawEntryShort, entryShort); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawExitShort, exitShort); err != nil {
		return err
	}
	return maskByMode(ds, s.Cfg.Mode)
}

func (s *DonchianBreakout) WarmupPeriod() int { return s.Cfg.EntryN + 1 }

func (s *DonchianBreakout) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *DonchianBreakout) Fingerprint() types.StrategyConfigID {
	return fingerprint("DonchianBreakout", int64(s.Cfg.EntryN), int64(s.Cfg.ExitN), int64(s.Cfg.Mode))
}
