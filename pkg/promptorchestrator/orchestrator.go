// Package promptorchestrator composes pkg/promptmodules's module catalog
// into a single generation prompt.
package promptorchestrator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptmodules"
)

// ModuleFilter decides, per module id, whether it participates in a given
// composition ("include/exclude flags per module id").
type ModuleFilter func(moduleID string) bool

// IncludeAll is the default filter: every registered module runs.
func IncludeAll(string) bool { return true }

// Options configure one BuildPrompt call.
type Options struct {
	Filter          ModuleFilter
	CompactMode     bool
	MaxPromptLength int // 0 means no cap
}

// Orchestrator holds a registered, priority-sorted module list. It is
// read-only after construction ("no locking required for module
// execution"); Register only runs during setup.
type Orchestrator struct {
	modules []promptmodules.Module
}

// New registers modules in the order given, then sorts by descending
// priority (ties broken by registration order).
func New(modules []promptmodules.Module) *Orchestrator {
	sorted := make([]promptmodules.Module, len(modules))
	copy(sorted, modules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})
	return &Orchestrator{modules: sorted}
}

var (
	singletonOnce sync.Once
	singletonLock sync.Mutex
	singleton     *Orchestrator
)

// Singleton returns the process-wide orchestrator built from Catalog16,
// constructing it lazily on first use under sync.Once
// ("Singleton cache").
func Singleton() *Orchestrator {
	singletonOnce.Do(func() {
		singletonLock.Lock()
		defer singletonLock.Unlock()
		singleton = New(promptmodules.Catalog16())
	})
	return singleton
}

// BuildResult is the composed prompt plus the accumulated shared state and
// per-module diagnostics, useful to the caller and to tests.
type BuildResult struct {
	Prompt       string
	SharedState  promptmodules.SharedState
	Components   []string
	Truncated    bool
	ModuleErrors map[string]error
}

// BuildPrompt runs every filtered module in priority order, accumulating
// shared_state and concatenating content with a blank line between
// fragments. A module that errors is skipped, not fatal: BuildPrompt
// always succeeds, falling back to a minimal built-in prompt if every
// module errors.
func (o *Orchestrator) BuildPrompt(ctx promptmodules.ModuleContext, opts Options) BuildResult {
	filter := opts.Filter
	if filter == nil {
		filter = IncludeAll
	}
	ctx.CompactMode = opts.CompactMode

	shared := promptmodules.SharedState{}
	var fragments []string
	var components []string
	moduleErrors := map[string]error{}

	for _, module := range o.modules {
		if !filter(module.ID()) {
			continue
		}
		snapshot := shared.Snapshot()
		output, err := module.Execute(ctx, snapshot)
		if err != nil {
			moduleErrors[module.ID()] = err
			continue
		}
		if strings.TrimSpace(output.Content) == "" {
			components = append(components, module.ID())
			continue
		}
		fragments = append(fragments, output.Content)
		components = append(components, module.ID())
		for k, v := range output.SharedWrites {
			shared[k] = v
		}
	}

	var prompt string
	if len(fragments) == 0 {
		prompt = fallbackPrompt(ctx)
	} else {
		prompt = strings.Join(fragments, "\n\n")
	}

	if opts.CompactMode {
		prompt = stripCompactSections(prompt)
	}

	truncated := false
	if opts.MaxPromptLength > 0 && len(prompt) > opts.MaxPromptLength {
		prompt = prompt[:opts.MaxPromptLength]
		truncated = true
	}

	return BuildResult{
		Prompt:       prompt,
		SharedState:  shared,
		Components:   components,
		Truncated:    truncated,
		ModuleErrors: moduleErrors,
	}
}

// fallbackPrompt is used only when every registered module errors
// (phase 6's "Always succeeds" guarantee).
func fallbackPrompt(ctx promptmodules.ModuleContext) string {
	return fmt.Sprintf(
		"Geef een eenduidige, beleidsmatige definitie in één zin voor de term %q.",
		ctx.Term,
	)
}

// stripCompactSections drops example lines (those starting with
// "Voorbeeld:") from an already-composed prompt (compact-mode
// post-processing). Validation-rule lines, including their Goed/Fout
// pairs, are kept.
// Modules themselves already honor CompactMode for their own content;
// this is a defensive second pass over any line a module still emitted
// with an example marker.
func stripCompactSections(prompt string) string {
	lines := strings.Split(prompt, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Voorbeeld:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
