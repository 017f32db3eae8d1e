// Package relevance decides whether a blob of free text is about the topic.
// The rule data lives in rules.yaml; this file implements the matching:
// blacklist veto with override, positive-term union, and the weak-root
// disambiguation for the highly ambiguous 东方/東方 prefix.
package relevance

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// RuleSet is the immutable keyword configuration for one run. The four
// positive groups are kept separate because the disambiguation step needs
// to distinguish specific terms (characters/works/music) from core ones.
type RuleSet struct {
	Disambiguate bool     `yaml:"disambiguate"`
	Core         []string `yaml:"core"`
	Characters   []string `yaml:"characters"`
	Works        []string `yaml:"works"`
	Music        []string `yaml:"music"`
	Blacklist    []string `yaml:"blacklist"`
}

// DefaultRuleSet returns the embedded rule revision.
func DefaultRuleSet() (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(defaultRules, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parsing embedded rules: %w", err)
	}
	return rs, nil
}

// overrideMarkers cancel a blacklist veto. They are the topic's unambiguous
// brand tokens: a crossover item that merely co-mentions a blacklisted brand
// still carries one of these.
var overrideMarkers = []string{"project", "zun"}

// rootTerms are the ambiguous two-character namesake. Alone they co-occur
// with too many unrelated brands to count as evidence.
var rootTerms = []string{"东方", "東方"}

// Classifier matches text against one RuleSet. Term lists are lowercased
// once at construction; Match lowercases its input once per call.
type Classifier struct {
	rules     RuleSet
	positive  []string
	specific  []string // characters ∪ works ∪ music
	blacklist []string
}

func NewClassifier(rules RuleSet) *Classifier {
	lower := func(terms []string) []string {
		out := make([]string, 0, len(terms))
		for _, t := range terms {
			out = append(out, strings.ToLower(t))
		}
		return out
	}

	specific := lower(rules.Characters)
	specific = append(specific, lower(rules.Works)...)
	specific = append(specific, lower(rules.Music)...)

	positive := lower(rules.Core)
	positive = append(positive, specific...)

	return &Classifier{
		rules:     rules,
		positive:  positive,
		specific:  specific,
		blacklist: lower(rules.Blacklist),
	}
}

// Match reports whether text is about the topic.
func (c *Classifier) Match(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)

	// Blacklist veto. The first hit rejects outright unless an override
	// marker rescues the whole text.
	for _, bad := range c.blacklist {
		if !strings.Contains(lowered, bad) {
			continue
		}
		if containsAny(lowered, overrideMarkers) {
			continue
		}
		return false
	}

	if containsAny(lowered, c.positive) {
		return true
	}

	// Weak-root disambiguation: the bare namesake needs a specific term
	// alongside it before it counts.
	if c.rules.Disambiguate && containsAny(lowered, rootTerms) {
		return containsAny(lowered, c.specific)
	}

	return false
}

func containsAny(lowered string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}
