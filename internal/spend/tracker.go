package spend

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wardenlabs/tradewarden/internal/model"
)

// Trade is one confirmed capital-committing call.
type Trade struct {
	At     time.Time
	Tool   string
	Symbol string
	Value  decimal.Decimal
}

// Tracker enforces the per-trade and daily USD caps.
//
// Admission uses reserve-then-confirm: Decide atomically reserves the trade
// value against committed+reserved, Record converts the reservation into
// committed spend, and Release drops it on any non-success outcome. Two
// concurrent calls that would jointly exceed the daily cap can therefore
// never both be admitted, and failed or abandoned calls never count.
//
// The committed total and history reset atomically at the first evaluation
// on a new UTC calendar date, before any check is applied.
type Tracker struct {
	cfg     Config
	journal *Journal
	now     func() time.Time

	mu        sync.Mutex
	day       string // UTC calendar date, "2006-01-02"
	committed decimal.Decimal
	reserved  decimal.Decimal
	pending   map[string]decimal.Decimal // call ID -> reserved value
	history   []Trade
}

const dayLayout = "2006-01-02"

// NewTracker validates the config, opens the journal if configured, and
// replays today's confirmed trades into the running total.
func NewTracker(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFatalConfiguration, err)
	}

	t := &Tracker{
		cfg:       cfg,
		now:       time.Now,
		committed: decimal.Zero,
		reserved:  decimal.Zero,
		pending:   make(map[string]decimal.Decimal),
	}
	t.day = t.now().UTC().Format(dayLayout)

	if cfg.JournalPath != "" {
		j, err := OpenJournal(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		trades, err := j.ReplayDay(t.day)
		if err != nil {
			j.Close()
			return nil, err
		}
		for _, tr := range trades {
			t.committed = t.committed.Add(tr.Value)
			t.history = append(t.history, tr)
		}
		t.journal = j
	}

	return t, nil
}

func (t *Tracker) Name() string { return "spend_limit" }

// Decide admits or blocks a call against the caps. Read-only calls are
// always admitted without touching state. An Allow for a priced
// capital-committing call carries a reservation that must be resolved by
// Record or Release.
func (t *Tracker) Decide(ctx *model.ToolCallContext) model.Decision {
	if !ctx.CapitalCommitting() {
		return model.Allow()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()

	if !ctx.Priced() {
		if t.cfg.Unpriced == UnpricedBlock {
			return model.BlockRule(
				fmt.Sprintf("trade value for %s could not be determined and unpriced policy is block", ctx.Tool),
				"spend.unpriced",
			)
		}
		// Admitted without a reservation; it cannot count against the caps.
		return model.Allow()
	}

	value := *ctx.TradeValue
	if value.GreaterThan(t.cfg.MaxPerTrade) {
		return model.BlockRule(
			fmt.Sprintf("per-trade cap exceeded: trade $%s > max $%s", value, t.cfg.MaxPerTrade),
			"spend.per_trade",
		)
	}

	projected := t.committed.Add(t.reserved).Add(value)
	if projected.GreaterThan(t.cfg.MaxDaily) {
		return model.BlockRule(
			fmt.Sprintf("daily cap exceeded: committed $%s + reserved $%s + trade $%s > max $%s",
				t.committed, t.reserved, value, t.cfg.MaxDaily),
			"spend.daily",
		)
	}

	t.reserved = t.reserved.Add(value)
	t.pending[ctx.CallID] = value
	return model.Allow()
}

// Record confirms a reservation after a successful terminal outcome. Any
// other outcome must go through Release instead.
func (t *Tracker) Record(ctx *model.ToolCallContext, outcome model.Outcome) {
	if outcome != model.OutcomeSuccess || !ctx.CapitalCommitting() {
		t.Release(ctx)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()

	value, ok := t.pending[ctx.CallID]
	if !ok {
		return
	}
	delete(t.pending, ctx.CallID)
	t.reserved = t.reserved.Sub(value)
	t.committed = t.committed.Add(value)

	tr := Trade{At: t.now().UTC(), Tool: ctx.Tool, Symbol: ctx.Symbol, Value: value}
	t.history = append(t.history, tr)

	if t.journal != nil {
		if err := t.journal.Append(t.day, tr); err != nil {
			// The in-memory total stays authoritative for this process.
			fmt.Fprintf(os.Stderr, "spend: journal write failed: %v\n", err)
		}
	}
}

// Release drops the reservation for a call that did not reach success.
func (t *Tracker) Release(ctx *model.ToolCallContext) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if value, ok := t.pending[ctx.CallID]; ok {
		delete(t.pending, ctx.CallID)
		t.reserved = t.reserved.Sub(value)
	}
}

// DailyTotal returns the committed total for the current UTC date.
func (t *Tracker) DailyTotal() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.committed
}

// History returns a copy of today's confirmed trades.
func (t *Tracker) History() []Trade {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	out := make([]Trade, len(t.history))
	copy(out, t.history)
	return out
}

// Close closes the journal, if any.
func (t *Tracker) Close() error {
	if t.journal != nil {
		return t.journal.Close()
	}
	return nil
}

// rolloverLocked resets the committed total and history when the UTC date
// has changed. In-flight reservations survive: they were admitted under a
// cap and confirming them can only undercount the fresh day.
func (t *Tracker) rolloverLocked() {
	today := t.now().UTC().Format(dayLayout)
	if today == t.day {
		return
	}
	t.day = today
	t.committed = decimal.Zero
	t.history = nil
}
