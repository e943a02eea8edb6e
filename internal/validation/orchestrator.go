package validation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/config"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/observability"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// Options tunes a single Validate call.
type Options struct {
	// FailFast stops launching further strategies once any invalid result
	// lands. Strategies already running still have their results merged.
	FailFast bool
	// IncludeStrategies restricts the run to the named strategies.
	IncludeStrategies []string
	// ExcludeStrategies removes the named strategies from the run.
	ExcludeStrategies []string
	// SkipBusinessRules and SkipEntityValidation are set when re-running an
	// operation under a confirmed bypass; permission validation still applies.
	SkipBusinessRules    bool
	SkipEntityValidation bool
	// HandleBypass marks the call as part of the owner confirmation flow;
	// the result cache is not consulted or populated.
	HandleBypass bool
	// NoCache disables the result cache for this call.
	NoCache bool
}

// AggregateResult merges the outcomes of all applicable strategies.
type AggregateResult struct {
	Valid           bool
	Issues          []domain.ValidationIssue
	StrategyResults map[string]*domain.ValidationResult
	// RequiresConfirmation is set only for the guild owner when the invalid
	// aggregate contains bypass-eligible violations.
	RequiresConfirmation bool
	BypassRequests       []domain.BypassRequest
	FromCache            bool
}

// Errors returns only blocking issues.
func (a *AggregateResult) Errors() []domain.ValidationIssue {
	var out []domain.ValidationIssue
	for _, issue := range a.Issues {
		if issue.Severity == domain.SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// Warnings returns only non-blocking issues.
func (a *AggregateResult) Warnings() []domain.ValidationIssue {
	var out []domain.ValidationIssue
	for _, issue := range a.Issues {
		if issue.Severity == domain.SeverityWarning {
			out = append(out, issue)
		}
	}
	return out
}

// Orchestrator runs the applicable validation strategies concurrently per
// command, merges their results, and owns the two pieces of shared state the
// validation core carries: the short-lived result cache and the pending-bypass
// store. Both are instance state, not process globals.
type Orchestrator struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	order      []string

	cache    *resultCache
	bypasses *bypassStore
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewOrchestrator constructs an orchestrator with no strategies registered.
func NewOrchestrator(cfg config.ValidationConfig, logger *zap.Logger, metrics *observability.Metrics) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		strategies: make(map[string]Strategy),
		cache:      newResultCache(cfg.CacheTTL(), cfg.CacheMaxEntries, cfg.CacheEvictBatch),
		bypasses:   newBypassStore(cfg.BypassTTL()),
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// RegisterStrategy adds a strategy, replacing any existing one with the same
// name (last write wins) while keeping its original position in the run order.
func (o *Orchestrator) RegisterStrategy(s Strategy) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.strategies[s.Name()]; !exists {
		o.order = append(o.order, s.Name())
	}
	o.strategies[s.Name()] = s
}

// UnregisterStrategy removes a strategy by name.
func (o *Orchestrator) UnregisterStrategy(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.strategies[name]; !exists {
		return
	}
	delete(o.strategies, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

func (o *Orchestrator) applicable(vc *domain.ValidationContext, opts Options) []Strategy {
	include := toSet(opts.IncludeStrategies)
	exclude := toSet(opts.ExcludeStrategies)
	if opts.SkipBusinessRules {
		exclude[StrategyBusinessRule] = struct{}{}
	}
	if opts.SkipEntityValidation {
		exclude[StrategyCrossEntity] = struct{}{}
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []Strategy
	for _, name := range o.order {
		if len(include) > 0 {
			if _, ok := include[name]; !ok {
				continue
			}
		}
		if _, ok := exclude[name]; ok {
			continue
		}
		s := o.strategies[name]
		if s.CanHandle(vc) {
			out = append(out, s)
		}
	}
	return out
}

// Validate runs all applicable strategies concurrently and merges their
// results. A strategy that fails or panics becomes a STRATEGY_ERROR issue in
// the aggregate; it never crashes the orchestrator.
func (o *Orchestrator) Validate(ctx context.Context, vc *domain.ValidationContext, opts Options) (*AggregateResult, error) {
	useCache := !opts.NoCache && !opts.HandleBypass
	key := cacheKey(vc)
	if useCache {
		if cached, ok := o.cache.get(key, o.now()); ok {
			hit := *cached
			hit.FromCache = true
			return &hit, nil
		}
	}

	strategies := o.applicable(vc, opts)
	results := o.runConcurrently(ctx, vc, strategies, opts.FailFast)
	aggregate := o.merge(vc, strategies, results)

	o.metrics.RecordValidation(vc.CommandName, aggregate.Valid)

	if aggregate.Valid && useCache {
		o.cache.put(key, aggregate, o.now())
	}
	return aggregate, nil
}

// runConcurrently launches each strategy in its own goroutine and joins them.
// With failFast set, no strategy is launched after an invalid result has been
// observed; in-flight strategies still complete and report.
func (o *Orchestrator) runConcurrently(ctx context.Context, vc *domain.ValidationContext, strategies []Strategy, failFast bool) map[string]*domain.ValidationResult {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]*domain.ValidationResult, len(strategies))
		tripped bool
	)

	record := func(name string, result *domain.ValidationResult) {
		mu.Lock()
		results[name] = result
		if !result.Valid {
			tripped = true
		}
		mu.Unlock()
	}

	for _, s := range strategies {
		if failFast {
			mu.Lock()
			stop := tripped
			mu.Unlock()
			if stop {
				break
			}
		}

		wg.Add(1)
		go func(s Strategy) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("validation strategy panicked",
						zap.String("strategy", s.Name()), zap.Any("panic", r))
					record(s.Name(), strategyErrorResult(s.Name(), fmt.Errorf("%v", r)))
				}
			}()

			result, err := s.Validate(ctx, vc)
			if err != nil {
				o.logger.Warn("validation strategy failed",
					zap.String("strategy", s.Name()), zap.Error(err))
				record(s.Name(), strategyErrorResult(s.Name(), err))
				return
			}
			record(s.Name(), result)
		}(s)
	}

	wg.Wait()
	return results
}

// strategyErrorResult converts a strategy failure into a blocking issue.
func strategyErrorResult(name string, err error) *domain.ValidationResult {
	result := &domain.ValidationResult{StrategyName: name}
	result.AddError(domain.IssueCodeStrategyError,
		fmt.Sprintf("validation strategy %q failed: %v", name, err),
		map[string]any{"strategy": name},
	)
	return result
}

// merge folds per-strategy results into one aggregate in registration order,
// then packages bypass-eligible violations for the guild owner.
func (o *Orchestrator) merge(vc *domain.ValidationContext, strategies []Strategy, results map[string]*domain.ValidationResult) *AggregateResult {
	aggregate := &AggregateResult{
		Valid:           true,
		StrategyResults: results,
	}

	for _, s := range strategies {
		result, ok := results[s.Name()]
		if !ok {
			continue
		}
		if !result.Valid {
			aggregate.Valid = false
		}
		aggregate.Issues = append(aggregate.Issues, result.Issues...)
		if !result.Valid && result.BypassAvailable {
			aggregate.BypassRequests = append(aggregate.BypassRequests, domain.BypassRequest{
				Type:         result.BypassType,
				StrategyName: result.StrategyName,
				Issues:       result.Errors(),
				Metadata:     result.Metadata,
			})
		}
	}

	if !aggregate.Valid && len(aggregate.BypassRequests) > 0 && vc.Permission.IsGuildOwner {
		aggregate.RequiresConfirmation = true
		o.bypasses.put(vc.Permission.UserID, &domain.PendingBypass{
			ActorID:  vc.Permission.UserID,
			GuildID:  vc.Permission.GuildID,
			Requests: aggregate.BypassRequests,
			Context:  vc,
		}, o.now())
	}
	return aggregate
}

// ValidateOrThrow raises a validation error carrying the joined error messages
// when the aggregate is invalid.
func (o *Orchestrator) ValidateOrThrow(ctx context.Context, vc *domain.ValidationContext, opts Options) (*AggregateResult, error) {
	aggregate, err := o.Validate(ctx, vc, opts)
	if err != nil {
		return nil, err
	}
	if !aggregate.Valid {
		messages := make([]string, 0, len(aggregate.Issues))
		for _, issue := range aggregate.Errors() {
			messages = append(messages, issue.Message)
		}
		return aggregate, apperrors.NewValidationError(strings.Join(messages, "; "), map[string]any{
			"issues":                aggregate.Issues,
			"requires_confirmation": aggregate.RequiresConfirmation,
		})
	}
	return aggregate, nil
}

// ValidateWithStrategy runs exactly one named strategy.
func (o *Orchestrator) ValidateWithStrategy(ctx context.Context, name string, vc *domain.ValidationContext) (*domain.ValidationResult, error) {
	o.mu.RLock()
	s, ok := o.strategies[name]
	o.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFound("validation strategy", map[string]any{"strategy": name})
	}
	if !s.CanHandle(vc) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("strategy %q cannot handle %s.%s", name, vc.EntityType, vc.Operation), nil)
	}
	return s.Validate(ctx, vc)
}

// HasPendingBypass reports whether the actor currently has a confirmable bypass.
func (o *Orchestrator) HasPendingBypass(actorID string) bool {
	return o.bypasses.peek(actorID, o.now())
}

// ConsumePendingBypass removes and returns the actor's pending bypass; exactly
// one confirmation can succeed per triggered bypass.
func (o *Orchestrator) ConsumePendingBypass(actorID string) (*domain.PendingBypass, error) {
	return o.bypasses.consume(actorID, o.now())
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
