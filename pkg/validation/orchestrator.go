package validation

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// Orchestrator runs every mandatory rule concurrently and normalizes the
// results into a single domain.ValidationResult.
type Orchestrator struct {
	evaluator *Evaluator
	rules     []RuleSpec
	cfg       config.ValidationConfig
}

func NewOrchestrator(evaluator *Evaluator, cfg config.ValidationConfig) *Orchestrator {
	return &Orchestrator{evaluator: evaluator, rules: mandatoryRules(), cfg: cfg}
}

type ruleOutcome struct {
	rule      RuleSpec
	violated  bool
	reason    string
	evidence  string
}

// Validate runs every rule independently ("Each rule is
// independent") concurrently via errgroup, mirroring pkg/classifier's
// concurrent per-category scoring, then normalizes into a
// domain.ValidationResult with stable violation ordering.
func (o *Orchestrator) Validate(ctx context.Context, definition domain.Definition, vctx ValidationContext) (domain.ValidationResult, error) {
	f := extractFeatures(definition, o.cfg)

	outcomes := make([]ruleOutcome, len(o.rules))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range o.rules {
		i, rule := i, rule
		g.Go(func() error {
			reason, evidence, violated, err := o.evaluator.Evaluate(gctx, rule, f)
			if err != nil {
				return err
			}
			mu.Lock()
			outcomes[i] = ruleOutcome{rule: rule, violated: violated, reason: reason, evidence: evidence}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ValidationResult{}, err
	}

	var violations []domain.Violation
	var passed []string
	scores := make(map[string]float64, len(o.rules))
	for _, outcome := range outcomes {
		if outcome.violated {
			violations = append(violations, domain.Violation{
				RuleID:   outcome.rule.ID,
				Severity: outcome.rule.Severity,
				Message:  outcome.reason,
				Evidence: outcome.evidence,
			})
			scores[outcome.rule.ID] = 0
		} else {
			passed = append(passed, outcome.rule.ID)
			scores[outcome.rule.ID] = 1
		}
	}

	sortViolations(violations)

	result := domain.ValidationResult{
		Violations:     violations,
		PassedRules:    passed,
		DetailedScores: scores,
		Version:        1,
	}
	result.IsAcceptable = !result.HasCriticalViolation()
	return result, nil
}

// sortViolations orders by rule id then severity, so the
// same violation set always renders identically regardless of the
// goroutines' completion order.
func sortViolations(violations []domain.Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].RuleID != violations[j].RuleID {
			return violations[i].RuleID < violations[j].RuleID
		}
		return severityRank[violations[i].Severity] < severityRank[violations[j].Severity]
	})
}
