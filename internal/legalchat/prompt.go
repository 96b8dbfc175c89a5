package legalchat

import (
	"strings"

	"github.com/tradebridge/legalai/internal/assistant"
)

type Language string

const (
	LangEnglish Language = "en"
	LangPersian Language = "fa"
	LangOther   Language = "other"
)

// DetectLanguage classifies the dominant script of a message. Any
// Arabic-script rune marks the message Persian; an all-ASCII message is
// English; everything else is "other".
func DetectLanguage(text string) Language {
	allASCII := true
	for _, r := range text {
		if isArabicScript(r) {
			return LangPersian
		}
		if r > 127 {
			allASCII = false
		}
	}
	if allASCII {
		return LangEnglish
	}
	return LangOther
}

func isArabicScript(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF: // Arabic
		return true
	case r >= 0x0750 && r <= 0x077F: // Arabic Supplement
		return true
	case r >= 0xFB50 && r <= 0xFDFF: // Arabic Presentation Forms-A
		return true
	case r >= 0xFE70 && r <= 0xFEFF: // Arabic Presentation Forms-B
		return true
	}
	return false
}

// LanguageDirective tells the model which language to answer in. The
// directive is appended to every prompt so the model does not drift between
// languages mid-conversation.
func LanguageDirective(lang Language) string {
	switch lang {
	case LangPersian:
		return "IMPORTANT: The user wrote in Persian (Farsi). Reply entirely in Persian and do not switch languages unless the user asks you to."
	case LangEnglish:
		return "IMPORTANT: The user wrote in English. Reply entirely in English and do not switch languages unless the user asks you to."
	default:
		return "IMPORTANT: Reply in the same language the user wrote in and do not switch languages unless the user asks you to."
	}
}

const defaultSystemPrompt = `You are a legal assistant for an international trade-compliance portal. Your scope:
- international trade law, customs procedures and documentation
- import/export between China and Canada (both directions)
- tariffs, duties, HS classification
- trade agreements and restricted or prohibited goods
- pointing users toward dispute-resolution options

Rules:
- You provide general information only. You are not a substitute for a licensed lawyer.
- Always include a short disclaimer reminding the user to consult licensed counsel for decisions with legal consequences.
- Stay within your scope; politely decline unrelated questions.`

// SystemPrompt merges the fixed persona with any admin-saved override and
// extra instructions. Settings may be nil.
func SystemPrompt(s *assistant.Settings) string {
	prompt := defaultSystemPrompt
	if s != nil && strings.TrimSpace(s.SystemPrompt) != "" {
		prompt = s.SystemPrompt
	}
	if s != nil && strings.TrimSpace(s.Instructions) != "" {
		prompt += "\n\nAdditional instructions:\n" + s.Instructions
	}
	return prompt
}

// BuildContextBlock renders prior conversation and saved facts into the
// single context string attached to the prompt and snapshotted on the
// assistant message row. History must already be in chronological order.
func BuildContextBlock(historyAsc []Message, facts []ContextFact) string {
	var b strings.Builder

	if len(historyAsc) > 0 {
		b.WriteString("CONVERSATION HISTORY:\n")
		for _, m := range historyAsc {
			switch m.MessageType {
			case MessageTypeUser:
				b.WriteString("User: ")
				b.WriteString(m.MessageText)
				b.WriteString("\n")
			case MessageTypeAssistant:
				b.WriteString("AI: ")
				b.WriteString(m.ResponseText)
				b.WriteString("\n")
			}
		}
	}

	if len(facts) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("SAVED CONTEXT:\n")
		for _, f := range facts {
			b.WriteString(f.ContextKey)
			b.WriteString(": ")
			b.WriteString(f.ContextValue)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// BuildUserTurn wraps the raw question with the requested answer structure
// and the language directive.
func BuildUserTurn(message, contextBlock string, lang Language) string {
	var b strings.Builder
	if contextBlock != "" {
		b.WriteString(contextBlock)
		b.WriteString("\n")
	}
	b.WriteString("Question: ")
	b.WriteString(message)
	b.WriteString("\n\nStructure your answer as:\n")
	b.WriteString("1. Direct answer\n")
	b.WriteString("2. Relevant legal framework\n")
	b.WriteString("3. Practical steps\n")
	b.WriteString("4. When to seek licensed counsel\n")
	b.WriteString("5. Disclaimers\n\n")
	b.WriteString(LanguageDirective(lang))
	return b.String()
}
