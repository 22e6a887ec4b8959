package service

import (
	"regexp"
	"strings"
	"sync"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/types"
)

// RestrictionKey identifies a restriction with a built-in keyword pattern.
type RestrictionKey string

const (
	GlutenFree RestrictionKey = "gluten-free"
	DairyFree  RestrictionKey = "dairy-free"
	NutFree    RestrictionKey = "nut-free"
	Vegan      RestrictionKey = "vegan"
	Vegetarian RestrictionKey = "vegetarian"
	Kosher     RestrictionKey = "kosher"
	Halal      RestrictionKey = "halal"
)

// ConflictPattern holds the keywords checked for one restriction.
//
// Safe keywords are matched and reported by SafeMatch but do not veto a
// conflict: whether a safe term should override a conflict term is still
// undecided, so conflicts alone determine the outcome.
type ConflictPattern struct {
	Conflicts []string
	Safe      []string
}

func builtinPatterns() map[RestrictionKey]ConflictPattern {
	return map[RestrictionKey]ConflictPattern{
		GlutenFree: {
			Conflicts: []string{
				"wheat bread", "white bread", "whole wheat", "flour", "wheat cereal",
				"regular pasta", "cookies", "cake", "crackers",
			},
			Safe: []string{"gluten-free", "gluten free", "gf-", "rice", "corn"},
		},
		DairyFree: {
			Conflicts: []string{"milk", "cheese", "butter", "yogurt", "cream", "dairy"},
			Safe:      []string{"dairy-free", "dairy free", "non-dairy", "plant-based", "almond milk", "soy milk"},
		},
		NutFree: {
			Conflicts: []string{
				"nut", "nuts", "peanut", "peanuts", "almond", "almonds", "walnut", "walnuts",
				"cashew", "cashews", "pistachio", "pistachios", "hazelnut", "hazelnuts",
				"pecan", "pecans", "tree nut",
			},
			Safe: []string{"nut-free", "nut free"},
		},
		Vegan: {
			Conflicts: []string{"meat", "chicken", "beef", "pork", "fish", "dairy", "egg", "honey", "gelatin"},
			Safe:      []string{"vegan", "plant-based", "vegetable", "fruit"},
		},
		Vegetarian: {
			Conflicts: []string{"meat", "chicken", "beef", "pork", "fish"},
			Safe:      []string{"vegetarian", "veggie", "plant-based"},
		},
		Kosher: {
			Conflicts: []string{"pork", "shellfish", "non-kosher"},
			Safe:      []string{"kosher", "kosher-certified"},
		},
		Halal: {
			Conflicts: []string{"pork", "alcohol", "non-halal"},
			Safe:      []string{"halal", "halal-certified"},
		},
	}
}

// keywordMatcher matches a single keyword against lowercased text.
type keywordMatcher struct {
	keyword string
	word    *regexp.Regexp
}

func newKeywordMatcher(keyword string) keywordMatcher {
	keyword = strings.ToLower(keyword)
	if strings.Contains(keyword, " ") {
		return keywordMatcher{keyword: keyword}
	}
	return keywordMatcher{
		keyword: keyword,
		word:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`),
	}
}

// matches uses substring containment for phrases and a whole-word match
// for single tokens, so "nut" never hits "nutmeg".
func (m keywordMatcher) matches(text string) bool {
	if m.word == nil {
		return strings.Contains(text, m.keyword)
	}
	return m.word.MatchString(text)
}

type compiledPattern struct {
	conflicts []keywordMatcher
	safe      []keywordMatcher
}

func compilePattern(p ConflictPattern) compiledPattern {
	c := compiledPattern{
		conflicts: make([]keywordMatcher, 0, len(p.Conflicts)),
		safe:      make([]keywordMatcher, 0, len(p.Safe)),
	}
	for _, kw := range p.Conflicts {
		c.conflicts = append(c.conflicts, newKeywordMatcher(kw))
	}
	for _, kw := range p.Safe {
		c.safe = append(c.safe, newKeywordMatcher(kw))
	}
	return c
}

func anyMatch(matchers []keywordMatcher, name, category string) bool {
	for _, m := range matchers {
		if m.matches(name) || m.matches(category) {
			return true
		}
	}
	return false
}

// PatternTable maps restriction names to their keyword patterns. Built-in
// restrictions are keyed by RestrictionKey; patterns for catalog
// restrictions outside that set can be added with Register.
type PatternTable struct {
	builtin map[RestrictionKey]compiledPattern

	mu     sync.RWMutex
	custom map[string]compiledPattern
}

// NewPatternTable returns a table holding the built-in patterns.
func NewPatternTable() *PatternTable {
	t := &PatternTable{
		builtin: make(map[RestrictionKey]compiledPattern),
		custom:  make(map[string]compiledPattern),
	}
	for key, p := range builtinPatterns() {
		t.builtin[key] = compilePattern(p)
	}
	return t
}

// Register adds or replaces the pattern for a restriction name that is not
// one of the built-in keys. Built-in names cannot be overridden.
func (t *PatternTable) Register(name string, p ConflictPattern) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := t.builtin[RestrictionKey(key)]; ok || key == "" {
		return false
	}
	compiled := compilePattern(p)
	t.mu.Lock()
	t.custom[key] = compiled
	t.mu.Unlock()
	return true
}

func (t *PatternTable) lookup(name string) (compiledPattern, bool) {
	key := strings.ToLower(name)
	if p, ok := t.builtin[RestrictionKey(key)]; ok {
		return p, true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.custom[key]
	return p, ok
}

// Known reports whether the table has a pattern for the restriction name.
func (t *PatternTable) Known(name string) bool {
	_, ok := t.lookup(name)
	return ok
}

// HasConflict reports whether the item's name or category contains any of
// the restriction's conflict keywords. Unknown restrictions never conflict.
func (t *PatternTable) HasConflict(item types.InventoryItem, restriction *models.DietaryRestriction) bool {
	if restriction == nil {
		return false
	}
	p, ok := t.lookup(restriction.Name)
	if !ok {
		return false
	}
	name, category := item.SearchText()
	return anyMatch(p.conflicts, name, category)
}

// SafeMatch reports whether the item matches any of the restriction's safe
// keywords. It has no effect on HasConflict.
func (t *PatternTable) SafeMatch(item types.InventoryItem, restriction *models.DietaryRestriction) bool {
	if restriction == nil {
		return false
	}
	p, ok := t.lookup(restriction.Name)
	if !ok {
		return false
	}
	name, category := item.SearchText()
	return anyMatch(p.safe, name, category)
}
