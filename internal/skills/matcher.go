package skills

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/kb"
	"github.com/jonathan/resume-scorer/internal/logging"
	"github.com/jonathan/resume-scorer/internal/textutil"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Default thresholds.
const (
	DefaultFuzzyThreshold = 0.8
	DefaultKBThreshold    = 0.5
	kbQueryTopK           = 5
)

// Match methods, in the order they are tried.
const (
	MethodExact      = "exact"
	MethodSubstring  = "substring"
	MethodKB         = "kb_semantic"
	MethodSynonym    = "synonym"
	MethodEquivalent = "equivalent"
	MethodFuzzy      = "fuzzy"
)

// Matcher matches candidate skills against required skills through the
// exact, substring, KB, synonym, equivalents and fuzzy rules in turn.
type Matcher struct {
	kb             kb.Searcher
	fuzzyThreshold float64
	kbThreshold    float64
	logger         *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithFuzzyThreshold sets the minimum fuzzy ratio for the last-resort rule.
func WithFuzzyThreshold(t float64) Option {
	return func(m *Matcher) { m.fuzzyThreshold = t }
}

// WithKBThreshold sets the minimum KB similarity for semantic matches.
func WithKBThreshold(t float64) Option {
	return func(m *Matcher) { m.kbThreshold = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) { m.logger = logging.OrNop(l) }
}

// NewMatcher builds a matcher. searcher may be nil, in which case the KB
// rule is skipped.
func NewMatcher(searcher kb.Searcher, opts ...Option) *Matcher {
	m := &Matcher{
		kb:             searcher,
		fuzzyThreshold: DefaultFuzzyThreshold,
		kbThreshold:    DefaultKBThreshold,
		logger:         zap.NewNop(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

type candidate struct {
	name string
	key  string
}

// Match compares candidate skills to required skills. Required skills are
// deduplicated case-insensitively; an empty requirement list is a 100%
// match.
func (m *Matcher) Match(ctx context.Context, candidateSkills, required []string) *types.SkillMatchResult {
	res := &types.SkillMatchResult{
		Matched:           []string{},
		Missing:           []string{},
		MatchMap:          map[string]string{},
		Methods:           map[string]string{},
		TotalResumeSkills: len(candidateSkills),
		MatchedTechnical:  []string{},
		MissingTechnical:  []string{},
	}

	var cands []candidate
	for _, s := range candidateSkills {
		if k := Key(s); k != "" {
			cands = append(cands, candidate{name: strings.TrimSpace(s), key: k})
		}
	}

	lookup := newKBLookup(m.kb, m.logger)
	seen := map[string]bool{}
	for _, req := range required {
		key := Key(req)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		res.TotalJDSkills++

		name := strings.TrimSpace(req)
		if idx, method := m.matchOne(ctx, lookup, key, cands); idx >= 0 {
			res.Matched = append(res.Matched, name)
			res.MatchMap[name] = cands[idx].name
			res.Methods[name] = method
		} else {
			res.Missing = append(res.Missing, name)
		}
	}

	if res.TotalJDSkills == 0 {
		res.MatchPercentage = 100
	} else {
		res.MatchPercentage = float64(len(res.Matched)) / float64(res.TotalJDSkills) * 100
	}
	res.MatchedTechnical = Technical(res.Matched)
	res.MissingTechnical = Technical(res.Missing)
	return res
}

// matchOne returns the index of the first candidate satisfying the first
// rule that fires, or -1.
func (m *Matcher) matchOne(ctx context.Context, lookup *kbLookup, req string, cands []candidate) (int, string) {
	for i, c := range cands {
		if c.key == req {
			return i, MethodExact
		}
	}
	for i, c := range cands {
		if containsTerm(c.key, req) || containsTerm(req, c.key) {
			return i, MethodSubstring
		}
	}
	if i := m.kbMatch(ctx, lookup, req, cands); i >= 0 {
		return i, MethodKB
	}
	expanded := ExpandSynonyms(req)
	for i, c := range cands {
		if overlaps(expanded, ExpandSynonyms(c.key)) {
			return i, MethodSynonym
		}
	}
	for i, c := range cands {
		if equivalent(req, c.key) {
			return i, MethodEquivalent
		}
	}
	for i, c := range cands {
		if textutil.FuzzyRatio(req, c.key) >= m.fuzzyThreshold {
			return i, MethodFuzzy
		}
	}
	return -1, ""
}

// kbMatch matches when both terms resolve to the same KB skill above the
// threshold, or when the candidate's resolved label contains the required
// skill or is contained by it.
func (m *Matcher) kbMatch(ctx context.Context, lookup *kbLookup, req string, cands []candidate) int {
	reqTop, ok := lookup.top(ctx, req)
	if !ok {
		return -1
	}
	reqLabel := strings.ToLower(reqTop.Label)
	for i, c := range cands {
		top, ok := lookup.top(ctx, c.key)
		if !ok || top.Score < m.kbThreshold {
			continue
		}
		label := strings.ToLower(top.Label)
		if label == reqLabel && reqTop.Score >= m.kbThreshold {
			return i
		}
		if containsTerm(label, req) || containsTerm(req, label) {
			return i
		}
	}
	return -1
}

func overlaps(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if set[s] {
			return true
		}
	}
	return false
}

// kbLookup memoizes top skill hits for one Match call. After the first
// search error the KB rule is disabled for the rest of the call.
type kbLookup struct {
	searcher kb.Searcher
	logger   *zap.Logger
	cache    map[string]*kb.Result
	failed   bool
}

func newKBLookup(s kb.Searcher, logger *zap.Logger) *kbLookup {
	return &kbLookup{searcher: s, logger: logger, cache: map[string]*kb.Result{}}
}

func (l *kbLookup) top(ctx context.Context, term string) (kb.Result, bool) {
	if l.searcher == nil || l.failed {
		return kb.Result{}, false
	}
	if r, ok := l.cache[term]; ok {
		if r == nil {
			return kb.Result{}, false
		}
		return *r, true
	}
	results, err := l.searcher.Search(ctx, term, kb.TypeSkill, kbQueryTopK)
	if err != nil {
		l.failed = true
		l.logger.Warn("kb skill lookup failed, skipping semantic rule", zap.String("term", term), zap.Error(err))
		return kb.Result{}, false
	}
	if len(results) == 0 {
		l.cache[term] = nil
		return kb.Result{}, false
	}
	l.cache[term] = &results[0]
	return results[0], true
}
