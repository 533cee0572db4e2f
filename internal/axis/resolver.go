// Package axis maps adaptive signals (mindpacing tags, weakest trait axis)
// onto content modules through an ordered chain of resolvers.
package axis

import (
	"sort"
	"strings"

	"github.com/mindquest/coach/internal/content"
)

// FallbackReason explains why the default module was used.
type FallbackReason string

const (
	FallbackNone       FallbackReason = ""
	FallbackMissingTag FallbackReason = "missing_tag"
	FallbackUnknownTag FallbackReason = "unknown_tag"
)

// Resolver maps a normalized (lower-case) tag to a module, or reports no match.
type Resolver interface {
	Name() string
	Resolve(tag string) (content.ModuleID, bool)
}

// TableResolver resolves by exact lookup in a fixed table.
type TableResolver struct {
	name  string
	table map[string]content.ModuleID
}

// NewTableResolver creates a resolver over a copy of table.
func NewTableResolver(name string, table map[string]content.ModuleID) *TableResolver {
	t := make(map[string]content.ModuleID, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &TableResolver{name: name, table: t}
}

func (r *TableResolver) Name() string { return r.name }

func (r *TableResolver) Resolve(tag string) (content.ModuleID, bool) {
	m, ok := r.table[tag]
	return m, ok
}

// Resolution is the outcome of mapping a tag to a module.
type Resolution struct {
	ModuleID       content.ModuleID `json:"module_id"`
	NormalizedTag  string           `json:"normalized_tag,omitempty"`
	FallbackReason FallbackReason   `json:"fallback_reason,omitempty"`
	MatchedBy      string           `json:"matched_by,omitempty"` // resolver name; empty on fallback
}

// IsFallback reports whether the default module was used.
func (r Resolution) IsFallback() bool {
	return r.FallbackReason != FallbackNone
}

// Mapper runs resolvers in order; the first match wins.
type Mapper struct {
	resolvers     []Resolver
	defaultModule content.ModuleID
}

// NewMapper creates a mapper with an explicit resolver order.
func NewMapper(defaultModule content.ModuleID, resolvers ...Resolver) *Mapper {
	return &Mapper{resolvers: resolvers, defaultModule: defaultModule}
}

// Resolver names used by FromRegistry.
const (
	ResolverVocabulary = "vocabulary"
	ResolverSignal     = "signal"
)

// FromRegistry builds the standard chain: vocabulary tags, then coarse signals,
// then the registry's default module.
func FromRegistry(reg *content.Registry) *Mapper {
	return NewMapper(reg.DefaultModule(),
		NewTableResolver(ResolverVocabulary, reg.VocabularyTags()),
		NewTableResolver(ResolverSignal, reg.SignalTags()),
	)
}

// DefaultModule returns the module used on fallback.
func (m *Mapper) DefaultModule() content.ModuleID {
	return m.defaultModule
}

// ResolveModuleForTag maps tag to a module. The empty tag means "no tag provided".
// Matching is case-insensitive and exact: no trimming, prefixes or fuzzy matches.
func (m *Mapper) ResolveModuleForTag(tag string) Resolution {
	if tag == "" {
		return Resolution{ModuleID: m.defaultModule, FallbackReason: FallbackMissingTag}
	}

	normalized := strings.ToLower(tag)
	for _, r := range m.resolvers {
		if mod, ok := r.Resolve(normalized); ok {
			return Resolution{ModuleID: mod, NormalizedTag: normalized, MatchedBy: r.Name()}
		}
	}
	return Resolution{
		ModuleID:       m.defaultModule,
		NormalizedTag:  normalized,
		FallbackReason: FallbackUnknownTag,
	}
}

// WeakestAxis returns the axis with the lowest score. Ties go to the
// alphabetically first axis. ok is false when scores is empty.
func WeakestAxis(scores map[content.Axis]float64) (content.Axis, bool) {
	if len(scores) == 0 {
		return "", false
	}
	axes := make([]content.Axis, 0, len(scores))
	for a := range scores {
		axes = append(axes, a)
	}
	sort.Slice(axes, func(i, j int) bool {
		if scores[axes[i]] != scores[axes[j]] {
			return scores[axes[i]] < scores[axes[j]]
		}
		return axes[i] < axes[j]
	})
	return axes[0], true
}

// ResolveWeakestAxis maps the weakest measured axis through the chain.
// No measurements behave like a missing tag.
func (m *Mapper) ResolveWeakestAxis(scores map[content.Axis]float64) Resolution {
	weakest, ok := WeakestAxis(scores)
	if !ok {
		return m.ResolveModuleForTag("")
	}
	return m.ResolveModuleForTag(string(weakest))
}

// ClusterFor reports the content cluster of the module a resolution landed on.
// Modules outside the three clusters report "".
func ClusterFor(reg *content.Registry, res Resolution) content.Cluster {
	mod, err := reg.Module(res.ModuleID)
	if err != nil {
		return ""
	}
	return mod.Cluster
}
