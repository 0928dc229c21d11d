package matcher

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

// Mode selects how the composite merges signals.
type Mode string

const (
	// ModeWeighted computes one weighted amount/date/description score
	// per candidate. This is the production default.
	ModeWeighted Mode = "weighted"
	// ModeStrategies fans out over the configured strategies and
	// deduplicates their results, keeping the strongest signal.
	ModeStrategies Mode = "strategies"
)

// Weights for the weighted mode components. They must sum to 1.0.
type Weights struct {
	Amount      float64
	Date        float64
	Description float64
}

// Config holds composite matcher configuration.
type Config struct {
	Mode          Mode
	Weights       Weights
	WindowDays    int     // candidate pre-filter window (default 30)
	MinConfidence float64 // weighted results below this are dropped (default 0.6)
}

// DefaultConfig returns the documented production configuration.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeWeighted,
		Weights:       Weights{Amount: 0.4, Date: 0.3, Description: 0.3},
		WindowDays:    30,
		MinConfidence: 0.6,
	}
}

// Composite runs the configured strategies concurrently against one
// transaction and merges their output into a single ranked list. It holds
// no state across invocations.
type Composite struct {
	config     Config
	strategies []Strategy
	logger     *slog.Logger
}

// NewComposite validates the configuration and builds the orchestrator.
// Misconfiguration is the only error this package surfaces after
// construction time.
func NewComposite(cfg Config, logger *slog.Logger, strategies ...Strategy) (*Composite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Mode {
	case ModeWeighted, ModeStrategies:
	default:
		return nil, fmt.Errorf("unknown composite mode %q", cfg.Mode)
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, fmt.Errorf("minimum confidence %v outside [0.0, 1.0]", cfg.MinConfidence)
	}
	if cfg.WindowDays < 0 {
		return nil, fmt.Errorf("window days must not be negative, got %d", cfg.WindowDays)
	}
	if cfg.Mode == ModeWeighted {
		w := cfg.Weights
		if w.Amount < 0 || w.Date < 0 || w.Description < 0 {
			return nil, fmt.Errorf("weights must not be negative: %+v", w)
		}
		if sum := w.Amount + w.Date + w.Description; math.Abs(sum-1.0) > 1e-9 {
			return nil, fmt.Errorf("weights must sum to 1.0, got %v", sum)
		}
	}
	return &Composite{config: cfg, strategies: strategies, logger: logger}, nil
}

// Match ranks the candidates most likely settled by the transaction. It
// never returns an error: empty input yields an empty list, and a failing
// strategy only loses its own contribution.
func (c *Composite) Match(tx *model.Transaction, candidates []*model.Payment) []MatchResult {
	filtered := c.filterWindow(tx, candidates)
	if len(filtered) == 0 {
		return []MatchResult{}
	}

	var results []MatchResult
	if c.config.Mode == ModeWeighted {
		results = c.matchWeighted(tx, filtered)
	} else {
		results = c.matchStrategies(tx, filtered)
	}

	// Stable: equal confidence keeps candidate supply order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

// filterWindow applies the cost-control date window before any strategy
// sees the candidates.
func (c *Composite) filterWindow(tx *model.Transaction, candidates []*model.Payment) []*model.Payment {
	if c.config.WindowDays == 0 {
		return candidates
	}
	filtered := make([]*model.Payment, 0, len(candidates))
	for _, candidate := range candidates {
		if daysBetween(tx.Date, candidate.DueDate) <= c.config.WindowDays {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

// matchWeighted computes one weighted score per candidate. Candidates are
// scored concurrently into index-aligned slots so the output order never
// depends on goroutine scheduling.
func (c *Composite) matchWeighted(tx *model.Transaction, candidates []*model.Payment) []MatchResult {
	slots := make([]*MatchResult, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate *model.Payment) {
			defer wg.Done()
			slots[i] = c.scoreWeighted(tx, candidate)
		}(i, candidate)
	}
	wg.Wait()

	results := make([]MatchResult, 0, len(candidates))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results
}

// scoreWeighted combines the amount, date and description step scores
// under the configured weights. Returns nil below the confidence floor.
func (c *Composite) scoreWeighted(tx *model.Transaction, candidate *model.Payment) *MatchResult {
	aScore := amountScore(tx.AbsAmount(), candidate.AmountDue)
	dScore := dateScore(tx.Date, candidate.DueDate)
	descScore := c.descriptionScore(tx, candidate)

	w := c.config.Weights
	confidence := aScore*w.Amount + dScore*w.Date + descScore*w.Description
	if confidence < c.config.MinConfidence {
		return nil
	}

	var matchedFields []string
	if aScore > 0 {
		matchedFields = append(matchedFields, "amount")
	}
	if dScore > 0 {
		matchedFields = append(matchedFields, "date")
	}
	if descScore > 0 {
		matchedFields = append(matchedFields, "description")
	}

	reason := fmt.Sprintf("weighted score: amount %.2f, date %.2f, description %.2f", aScore, dScore, descScore)
	result, err := NewMatchResult(tx, candidate, confidence, MatchTypeComposite, reason, matchedFields)
	if err != nil {
		// Weights sum to 1 and components stay in [0, 1], so the score
		// cannot leave the interval. Treated as no match if it ever does.
		c.logger.Warn("weighted score out of range", "error", err)
		return nil
	}
	return &result
}

// descriptionScore is the text component of the weighted score: the best
// similarity of any transaction text field against the candidate text,
// mapped onto the fuzzy confidence steps. Missing text on either side
// contributes zero.
func (c *Composite) descriptionScore(tx *model.Transaction, candidate *model.Payment) float64 {
	candidateText := normalizeText(candidate.Description)
	if candidateText == "" {
		return 0
	}
	best := 0.0
	for _, value := range tx.TextFields() {
		if sim := similarity(normalizeText(value), candidateText); sim > best {
			best = sim
		}
	}
	if best == 0 {
		return 0
	}
	return similarityStep(best)
}

// matchStrategies fans out over the strategies, isolates their failures
// and deduplicates by candidate, keeping the highest confidence.
func (c *Composite) matchStrategies(tx *model.Transaction, candidates []*model.Payment) []MatchResult {
	slots := make([][]MatchResult, len(c.strategies))

	var wg sync.WaitGroup
	for i, strategy := range c.strategies {
		wg.Add(1)
		go func(i int, strategy Strategy) {
			defer wg.Done()
			// A panicking or failing strategy contributes zero results;
			// its siblings are unaffected.
			defer func() {
				if r := recover(); r != nil {
					c.logger.Warn("strategy panicked", "strategy", strategy.Name(), "panic", r)
					slots[i] = nil
				}
			}()
			results, err := strategy.Match(tx, candidates)
			if err != nil {
				c.logger.Warn("strategy failed", "strategy", strategy.Name(), "error", err)
				return
			}
			slots[i] = results
		}(i, strategy)
	}
	wg.Wait()

	// Keep the strongest result per candidate. Strategies are visited in
	// configured order, so equal scores resolve deterministically.
	best := make(map[string]MatchResult)
	for _, results := range slots {
		for _, result := range results {
			id := result.Payment.ID
			current, seen := best[id]
			if !seen || result.Confidence > current.Confidence {
				best[id] = result
			}
		}
	}

	// Emit in candidate supply order so the later stable sort preserves it
	// for ties.
	results := make([]MatchResult, 0, len(best))
	for _, candidate := range candidates {
		if result, ok := best[candidate.ID]; ok {
			results = append(results, result)
		}
	}
	return results
}
