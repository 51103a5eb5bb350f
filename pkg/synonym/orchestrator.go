package synonym

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// Suggester is the AI synonym-suggestion collaborator,
// implemented by pkg/synonymsuggester.
type Suggester interface {
	Suggest(ctx context.Context, term string, existing []domain.WeightedSynonym) ([]Suggestion, error)
}

// Suggestion is one AI-proposed synonym, with the rationale recorded into
// context_json on save.
type Suggestion struct {
	Term      string
	Weight    float64
	Rationale string
	Model     string
}

// EnsureResult is ensure_synonyms's return value.
type EnsureResult struct {
	Synonyms            []domain.WeightedSynonym
	AIPendingAddedCount int
	Status              string // success | no_synonyms | error | not_available
}

const (
	StatusSuccess     = "success"
	StatusNoSynonyms  = "no_synonyms"
	StatusError       = "error"
	StatusNotAvail    = "not_available"
)

// Orchestrator fronts the Registry with the TTL cache and governance
// policy.
type Orchestrator struct {
	registry  *Registry
	cache     *ttlCache
	suggester Suggester
	policy    config.Policy
	cfg       config.SynonymConfig
	flight    singleflight.Group
}

func NewOrchestrator(registry *Registry, suggester Suggester, cfg config.SynonymConfig) *Orchestrator {
	o := &Orchestrator{
		registry:  registry,
		cache:     newTTLCache(cfg.CacheMaxSize, cfg.TTL()),
		suggester: suggester,
		policy:    cfg.Policy,
		cfg:       cfg,
	}
	registry.RegisterInvalidationCallback(o.cache.invalidate)
	return o
}

// UseRedis attaches a warm-cache mirror so other process instances share
// cache state instead of each hitting the registry on a cold start. Safe
// to skip entirely: a nil store degrades every mirror lookup to a local
// miss, which is the single-process behavior this orchestrator already has.
func (o *Orchestrator) UseRedis(store *RedisStore) {
	o.cache.redis = store
}

// visibleStatuses returns which member statuses are readable under the
// active governance policy: the policy is read once per
// request, matching o.policy being fixed at construction.
func (o *Orchestrator) visibleStatuses() []domain.MemberStatus {
	if o.policy == config.PolicyPragmatic {
		return []domain.MemberStatus{domain.MemberActive, domain.MemberAIPending}
	}
	return []domain.MemberStatus{domain.MemberActive}
}

// lookup queries the cache, falling through to the registry on a miss
// (cache/registry fast path).
func (o *Orchestrator) lookup(ctx context.Context, term string) ([]domain.WeightedSynonym, error) {
	if cached, ok := o.cache.get(ctx, term); ok {
		return cached, nil
	}

	synonyms, err := o.registry.GetSynonyms(ctx, term, o.visibleStatuses(), o.cfg.MinWeight, "", 100)
	if err != nil {
		return nil, err
	}
	o.cache.put(ctx, term, synonyms)
	return synonyms, nil
}

// EnsureSynonyms implements ensure_synonyms: a fast path
// over existing data, and a singleflight-deduped slow path that invokes
// the AI suggester under a hard timeout when the existing set falls short
// of minCount.
func (o *Orchestrator) EnsureSynonyms(ctx context.Context, term string, minCount int, triggerContext string) (EnsureResult, error) {
	existing, err := o.lookup(ctx, term)
	if err != nil {
		return EnsureResult{Status: StatusError}, err
	}
	if len(existing) >= minCount {
		return EnsureResult{Synonyms: existing, Status: StatusSuccess}, nil
	}
	if o.suggester == nil {
		return EnsureResult{Synonyms: existing, Status: StatusNotAvail}, nil
	}

	result, err, _ := o.flight.Do(normalize(term), func() (any, error) {
		return o.enrichSlowPath(ctx, term, existing, triggerContext)
	})
	if err != nil {
		// On timeout/error, return the existing set with added=0; never
		// raise. The error is dropped without being logged.
		return EnsureResult{Synonyms: existing, AIPendingAddedCount: 0, Status: StatusError}, nil
	}
	return result.(EnsureResult), nil
}

func (o *Orchestrator) enrichSlowPath(ctx context.Context, term string, existing []domain.WeightedSynonym, triggerContext string) (EnsureResult, error) {
	timeout := o.cfg.GPT4Timeout()
	suggestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	suggestions, err := o.suggester.Suggest(suggestCtx, term, existing)
	if err != nil {
		return EnsureResult{Synonyms: existing, Status: StatusError}, err
	}

	group, err := o.registry.GetOrCreateGroup(ctx, term, "", "synonym-orchestrator")
	if err != nil {
		return EnsureResult{Synonyms: existing, Status: StatusError}, err
	}

	added := 0
	for _, s := range suggestions {
		rationale, _ := json.Marshal(map[string]any{
			"rationale": s.Rationale,
			"model":     s.Model,
			"trigger":   triggerContextOrDefault(triggerContext),
			"added_at":  time.Now().UTC().Format(time.RFC3339),
		})
		contextJSON := string(rationale)
		_, err := o.registry.AddGroupMember(ctx, group.ID, s.Term, s.Weight, domain.MemberAIPending, domain.SourceAISuggested, contextJSON, nil, "synonym-orchestrator")
		if err != nil {
			// A per-suggestion store or validation error is dropped
			// without being logged, and the loop continues.
			continue
		}
		added++
	}

	o.cache.invalidate(term)
	refreshed, err := o.lookup(ctx, term)
	if err != nil {
		return EnsureResult{Synonyms: existing, AIPendingAddedCount: added, Status: StatusError}, err
	}

	status := StatusSuccess
	if len(refreshed) == 0 {
		status = StatusNoSynonyms
	}

	return EnsureResult{Synonyms: refreshed, AIPendingAddedCount: added, Status: status}, nil
}

// ExplainMember runs jqExpr against one AI-suggested member's
// context_json, e.g. ".rationale" or ".trigger", for the admin
// introspection surface.
func (o *Orchestrator) ExplainMember(ctx context.Context, memberID, jqExpr string) (any, error) {
	contextJSON, err := o.registry.GetMemberContextJSON(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return QueryContext(contextJSON, jqExpr)
}

func triggerContextOrDefault(ctx string) string {
	if ctx == "" {
		return "ensure_synonyms"
	}
	return ctx
}

// Metrics exposes the cache's operator-facing counters.
func (o *Orchestrator) Metrics() CacheMetrics {
	return o.cache.metrics()
}
