package legalchat

import (
	"strings"
)

const maxSuggestions = 5

// ExtractSuggestions pulls bullet-like lines out of a completion, marker
// stripped, capped at five.
func ExtractSuggestions(response string) []string {
	var out []string
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		var item string
		switch {
		case strings.HasPrefix(trimmed, "- "):
			item = strings.TrimSpace(trimmed[2:])
		case strings.HasPrefix(trimmed, "* "):
			item = strings.TrimSpace(trimmed[2:])
		case strings.HasPrefix(trimmed, "• "):
			item = strings.TrimSpace(strings.TrimPrefix(trimmed, "• "))
		default:
			continue
		}
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// topicVocabulary is the fixed set of trade-law phrases scanned for in
// completion text to populate related topics.
var topicVocabulary = []string{
	"export regulations",
	"import duties",
	"customs clearance",
	"hs codes",
	"tariff classification",
	"trade agreements",
	"documentation requirements",
	"restricted goods",
	"certificate of origin",
	"bill of lading",
	"dispute resolution",
}

// ExtractRelatedTopics returns vocabulary phrases present in the response,
// deduplicated, in order of first appearance in the vocabulary scan.
func ExtractRelatedTopics(response string) []string {
	lowered := strings.ToLower(response)
	var out []string
	seen := make(map[string]bool)
	for _, topic := range topicVocabulary {
		if seen[topic] {
			continue
		}
		if strings.Contains(lowered, topic) {
			seen[topic] = true
			out = append(out, topic)
		}
	}
	return out
}

// FactDeriver is a pure strategy turning the raw text of a turn into zero
// or one context fact. Derivers are independent of persistence and network
// concerns so they can be swapped and tested alone.
type FactDeriver func(userMessage, response string) *ContextFact

// legalTopicKeywords is the trade/legal vocabulary matched against the
// whole turn for the "legal_topics" fact.
var legalTopicKeywords = []string{
	"export", "import", "customs", "tariff", "duty",
	"hs code", "classification",
	"commercial invoice", "packing list", "bill of lading", "certificate of origin",
	"wto", "cptpp", "cusma",
	"restricted", "prohibited",
	"permit", "license", "regulation", "compliance",
	"documentation", "clearance", "border",
	"china", "canada",
	"international trade", "legal advice", "consultation",
}

// DeriveLegalTopics scans the whole turn for trade/legal keywords.
func DeriveLegalTopics(userMessage, response string) *ContextFact {
	lowered := strings.ToLower(userMessage + " " + response)
	var matched []string
	for _, kw := range legalTopicKeywords {
		if strings.Contains(lowered, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return &ContextFact{
		ContextKey:   "legal_topics",
		ContextValue: strings.Join(matched, ", "),
		ContextType:  "legal_topic",
		Importance:   3,
	}
}

// DerivePreferences records urgency and verbosity cues from the user
// message alone.
func DerivePreferences(userMessage, _ string) *ContextFact {
	lowered := strings.ToLower(userMessage)
	var prefs []string
	if containsAny(lowered, []string{"urgent", "asap", "quickly"}) {
		prefs = append(prefs, "urgent")
	}
	switch {
	case containsAny(lowered, []string{"detailed", "comprehensive", "thorough"}):
		prefs = append(prefs, "prefers detailed answers")
	case containsAny(lowered, []string{"simple", "basic", "overview"}):
		prefs = append(prefs, "prefers simple answers")
	}
	if len(prefs) == 0 {
		return nil
	}
	return &ContextFact{
		ContextKey:   "user_preferences",
		ContextValue: strings.Join(prefs, ", "),
		ContextType:  "preference",
		Importance:   2,
	}
}

// DeriveCaseInfo keeps the opening of any message describing a concrete
// case so later turns stay grounded in it.
func DeriveCaseInfo(userMessage, _ string) *ContextFact {
	lowered := strings.ToLower(userMessage)
	if !containsAny(lowered, []string{"case", "situation", "scenario"}) {
		return nil
	}
	excerpt := userMessage
	if runes := []rune(excerpt); len(runes) > 200 {
		excerpt = string(runes[:200])
	}
	return &ContextFact{
		ContextKey:   "case_information",
		ContextValue: excerpt,
		ContextType:  "case_info",
		Importance:   4,
	}
}

// DefaultFactDerivers are applied, independently and best-effort, after
// every assistant turn.
var DefaultFactDerivers = []FactDeriver{
	DeriveLegalTopics,
	DerivePreferences,
	DeriveCaseInfo,
}
