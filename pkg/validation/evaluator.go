package validation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"github.com/open-policy-agent/opa/rego"
)

// EvaluatorConfig points the Evaluator at the directory holding the
// policies/*.rego bundle.
type EvaluatorConfig struct {
	PolicyDir string
}

// Evaluator compiles every *.rego file under PolicyDir once and keeps one
// prepared query per rule; StartHotReload watches the directory so that
// editing or removing a policy file takes effect without a Go recompile.
// A new rule is only evaluated once its RuleSpec is also listed in
// mandatoryRules (rules.go). The shape follows the
// rego.Evaluator/StartHotReload API the aianalysis Rego tests exercise.
type Evaluator struct {
	cfg     EvaluatorConfig
	logger  logr.Logger
	mu      sync.RWMutex
	reason  map[string]rego.PreparedEvalQuery
	evidence map[string]rego.PreparedEvalQuery
	watcher *fsnotify.Watcher
	stop    chan struct{}
}

func NewEvaluator(cfg EvaluatorConfig, logger logr.Logger) *Evaluator {
	return &Evaluator{cfg: cfg, logger: logger}
}

// StartHotReload performs the initial compile and, if it succeeds, starts a
// background fsnotify watch on PolicyDir that recompiles on any write.
func (e *Evaluator) StartHotReload(ctx context.Context) error {
	if err := e.load(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting policy file watcher: %w", err)
	}
	if err := watcher.Add(e.cfg.PolicyDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching policy dir %s: %w", e.cfg.PolicyDir, err)
	}
	e.watcher = watcher
	e.stop = make(chan struct{})

	go e.watchLoop(ctx)
	return nil
}

func (e *Evaluator) watchLoop(ctx context.Context) {
	for {
		select {
		case <-e.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".rego") {
				continue
			}
			if err := e.load(ctx); err != nil {
				e.logger.Error(err, "policy hot-reload failed, keeping previous compiled rules", "file", event.Name)
			} else {
				e.logger.Info("reloaded validation policies", "file", event.Name)
			}
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error(err, "policy watcher error")
		}
	}
}

// Stop releases the fsnotify watch. Safe to call on an Evaluator that was
// never hot-reloaded.
func (e *Evaluator) Stop() {
	if e.watcher != nil {
		close(e.stop)
		_ = e.watcher.Close()
	}
}

func (e *Evaluator) load(ctx context.Context) error {
	entries, err := os.ReadDir(e.cfg.PolicyDir)
	if err != nil {
		return fmt.Errorf("reading policy dir %s: %w", e.cfg.PolicyDir, err)
	}

	var modules []func(*rego.Rego)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".rego") {
			continue
		}
		path := filepath.Join(e.cfg.PolicyDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading policy file %s: %w", path, err)
		}
		modules = append(modules, rego.Module(path, string(content)))
	}
	if len(modules) == 0 {
		return fmt.Errorf("no .rego policy files found in %s", e.cfg.PolicyDir)
	}

	reason := make(map[string]rego.PreparedEvalQuery, len(mandatoryRules()))
	evidence := make(map[string]rego.PreparedEvalQuery, len(mandatoryRules()))
	for _, rule := range mandatoryRules() {
		reasonOpts := append(append([]func(*rego.Rego){}, modules...), rego.Query(fmt.Sprintf("data.%s.violation_reason", rule.Package)))
		reasonQuery, err := rego.New(reasonOpts...).PrepareForEval(ctx)
		if err != nil {
			return fmt.Errorf("compiling rule %s: %w", rule.ID, err)
		}
		reason[rule.ID] = reasonQuery

		evidenceOpts := append(append([]func(*rego.Rego){}, modules...), rego.Query(fmt.Sprintf("data.%s.violation_evidence", rule.Package)))
		evidenceQuery, err := rego.New(evidenceOpts...).PrepareForEval(ctx)
		if err != nil {
			return fmt.Errorf("compiling rule %s evidence query: %w", rule.ID, err)
		}
		evidence[rule.ID] = evidenceQuery
	}

	e.mu.Lock()
	e.reason = reason
	e.evidence = evidence
	e.mu.Unlock()
	return nil
}

// Evaluate runs one rule's compiled query against f. A zero-value return
// with violated=false means the rule passed.
func (e *Evaluator) Evaluate(ctx context.Context, rule RuleSpec, f features) (reason string, evidence string, violated bool, err error) {
	e.mu.RLock()
	reasonQuery, ok := e.reason[rule.ID]
	evidenceQuery := e.evidence[rule.ID]
	e.mu.RUnlock()
	if !ok {
		return "", "", false, fmt.Errorf("no compiled policy for rule %s", rule.ID)
	}

	input := toInput(f)
	results, err := reasonQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", false, fmt.Errorf("evaluating rule %s: %w", rule.ID, err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "", "", false, nil
	}
	reasonText, _ := results[0].Expressions[0].Value.(string)

	evidenceResults, err := evidenceQuery.Eval(ctx, rego.EvalInput(input))
	if err == nil && len(evidenceResults) > 0 && len(evidenceResults[0].Expressions) > 0 {
		evidence, _ = evidenceResults[0].Expressions[0].Value.(string)
	}

	return reasonText, evidence, true, nil
}

func toInput(f features) map[string]any {
	return map[string]any{
		"term":                      f.Term,
		"sentence_count":            f.SentenceCount,
		"starts_with_copula":        f.StartsWithCopula,
		"starts_with_forbidden":     f.StartsWithForbidden,
		"matched_starter":           f.MatchedStarter,
		"contains_term_standalone":  f.ContainsTermStandalone,
		"contains_context_verbatim": f.ContainsContextVerbatim,
		"matched_context":           f.MatchedContext,
		"has_ontological_marker":    f.HasOntologicalMarker,
		"length":                    f.Length,
		"min_length":                f.MinLength,
		"max_length":                f.MaxLength,
		"contains_subjective_word":  f.ContainsSubjectiveWord,
		"matched_subjective_words":  f.MatchedSubjectiveWords,
	}
}
