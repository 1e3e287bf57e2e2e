// Package engine orchestrates the promotion evaluation cycle: hash-gated
// recomputation on cart changes, catalog fetch, per-promotion evaluation,
// stacking resolution, and the write to the applied-discount sink.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dukerupert/gersemi/internal/cart"
	"github.com/dukerupert/gersemi/internal/catalog"
	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/dukerupert/gersemi/internal/promo"
	"github.com/dukerupert/gersemi/internal/sink"
)

// Engine runs the fetch-and-evaluate cycle. It is the sole writer of the
// sink's promotion layer.
type Engine struct {
	store    *cart.Store
	provider catalog.Provider
	calc     *promo.Calculator
	sink     *sink.Sink
	metrics  *Metrics
	logger   *slog.Logger

	timeout time.Duration
	now     func() time.Time

	// generation guards against a slow, superseded catalog fetch
	// overwriting the result of a newer cart state.
	generation atomic.Uint64

	mu        sync.Mutex
	lastHash  string
	evaluated bool
	displays  []domain.PromotionDisplay
}

// NewEngine creates the evaluation engine.
func NewEngine(store *cart.Store, provider catalog.Provider, calc *promo.Calculator, snk *sink.Sink, metrics *Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		provider: provider,
		calc:     calc,
		sink:     snk,
		metrics:  metrics,
		logger:   logger,
		timeout:  10 * time.Second,
		now:      time.Now,
	}
}

// Start subscribes the engine to cart changes.
func (e *Engine) Start() {
	e.store.Subscribe(func(items []domain.CartItem, hash string) {
		e.cycle(context.Background(), items, hash, false)
	})
}

// Refresh forces a full re-evaluation outside the hash-gated cycle.
func (e *Engine) Refresh(ctx context.Context) {
	e.cycle(ctx, e.store.Items(), e.store.Hash(), true)
}

// Displays returns the per-promotion display records from the last cycle.
func (e *Engine) Displays() []domain.PromotionDisplay {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.PromotionDisplay, len(e.displays))
	copy(out, e.displays)
	return out
}

func (e *Engine) cycle(ctx context.Context, items []domain.CartItem, hash string, force bool) {
	e.mu.Lock()
	if !force && e.evaluated && hash == e.lastHash {
		e.mu.Unlock()
		e.metrics.cycles.WithLabelValues(outcomeSkipped).Inc()
		return
	}

	// A combo item anywhere in the cart blocks the whole engine: no fetch,
	// no promotion, and any previously applied promotion is cleared.
	if domain.HasComboItem(items) {
		e.lastHash = hash
		e.evaluated = true
		e.displays = nil
		e.mu.Unlock()
		e.sink.ClearPromotions()
		e.metrics.cycles.WithLabelValues(outcomeBlocked).Inc()
		e.logger.Debug("evaluation blocked by combo item", "hash", hash)
		return
	}
	e.mu.Unlock()

	gen := e.generation.Add(1)
	start := e.now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	promotions, err := e.provider.ActivePromotions(ctx)
	if err != nil {
		// Fail open: no promotion applied this cycle, never a crash.
		e.metrics.catalogFailures.Inc()
		e.logger.Error("catalog fetch failed, treating catalog as empty", "error", err)
		promotions = nil
	}

	subtotal := domain.SubtotalCents(items)
	nowT := e.now()

	candidates := make([]promo.Candidate, 0, len(promotions))
	displays := make([]domain.PromotionDisplay, 0, len(promotions))

	for _, p := range promotions {
		result := promo.Evaluate(p, items, subtotal, nowT)
		if result.Eligible {
			result.SavingsCents = e.calc.Savings(p, items)
		} else if result.ConditionFailed {
			report := promo.Progress(p, items, subtotal)
			result.Progress = report.Percent
			result.RemainingCents = report.RemainingCents
			result.RemainingQuantity = report.RemainingQuantity
		}
		candidates = append(candidates, promo.Candidate{Promotion: p, Result: result})
		displays = append(displays, display(p, result))
	}

	applied := promo.ResolveStack(candidates)

	// Discard this cycle entirely if a newer cart state superseded it while
	// the fetch was in flight.
	if gen != e.generation.Load() {
		e.metrics.cycles.WithLabelValues(outcomeStale).Inc()
		e.logger.Debug("discarding stale evaluation cycle", "hash", hash)
		return
	}

	e.mu.Lock()
	e.lastHash = hash
	e.evaluated = true
	e.displays = displays
	e.mu.Unlock()

	if len(applied) == 0 {
		e.sink.ClearPromotions()
	} else {
		e.sink.SetPromotions(applied, promo.StackTotal(applied))
	}

	e.metrics.cycles.WithLabelValues(outcomeCompleted).Inc()
	e.metrics.cycleDuration.Observe(e.now().Sub(start).Seconds())
	e.logger.Debug("evaluation cycle completed",
		"hash", hash,
		"promotions", len(promotions),
		"applied", len(applied),
	)
}

// display builds the UI-facing record for one promotion.
func display(p domain.Promotion, r domain.EvaluationResult) domain.PromotionDisplay {
	d := domain.PromotionDisplay{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Type:              p.Type,
		SavingsCents:      r.SavingsCents,
		IsEligible:        r.Eligible,
		IsRestricted:      r.Restricted,
		Progress:          r.Progress,
		RemainingCents:    r.RemainingCents,
		RemainingQuantity: r.RemainingQuantity,
		IsFreeShipping:    p.IsFreeShipping(),
	}

	switch {
	case r.Eligible:
		d.Message = fmt.Sprintf("Saves %s", formatCents(r.SavingsCents))
	case r.Restricted:
		d.RestrictionReason = r.Reason
		d.Message = r.Reason
	case r.ConditionFailed && r.RemainingQuantity > 0:
		d.Message = fmt.Sprintf("Add %d more to unlock", r.RemainingQuantity)
	case r.ConditionFailed && r.RemainingCents > 0:
		d.Message = fmt.Sprintf("Spend %s more to unlock", formatCents(r.RemainingCents))
	default:
		d.Message = r.Reason
	}
	return d
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
