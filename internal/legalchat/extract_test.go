package legalchat

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractSuggestions(t *testing.T) {
	response := "Here is what you should do:\n" +
		"- Confirm the HS code\n" +
		"* Prepare the invoice\n" +
		"• Book the inspection\n" +
		"plain prose line\n" +
		"-not a bullet, no space\n" +
		"- \n" +
		"- fourth item\n" +
		"- fifth item\n" +
		"- sixth item beyond the cap\n"

	got := ExtractSuggestions(response)
	want := []string{
		"Confirm the HS code",
		"Prepare the invoice",
		"Book the inspection",
		"fourth item",
		"fifth item",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractSuggestions_NoBullets(t *testing.T) {
	if got := ExtractSuggestions("Just a paragraph with no list at all."); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
}

func TestExtractRelatedTopics(t *testing.T) {
	response := "Check the Customs Clearance rules and import duties. " +
		"Customs clearance again, plus a certificate of origin."
	got := ExtractRelatedTopics(response)
	want := []string{"import duties", "customs clearance", "certificate of origin"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractRelatedTopics_Empty(t *testing.T) {
	if got := ExtractRelatedTopics("nothing relevant here"); len(got) != 0 {
		t.Fatalf("expected no topics, got %v", got)
	}
}

func TestDeriveLegalTopics(t *testing.T) {
	fact := DeriveLegalTopics("What tariff applies when I export to Canada?", "You will pay duty at the border.")
	if fact == nil {
		t.Fatalf("expected a fact")
	}
	if fact.ContextKey != "legal_topics" || fact.ContextType != "legal_topic" || fact.Importance != 3 {
		t.Fatalf("unexpected fact shape: %+v", fact)
	}
	for _, kw := range []string{"export", "tariff", "duty", "border", "canada"} {
		if !strings.Contains(fact.ContextValue, kw) {
			t.Fatalf("expected %q in %q", kw, fact.ContextValue)
		}
	}

	if got := DeriveLegalTopics("What's the weather like?", "Sunny."); got != nil {
		t.Fatalf("expected nil for an off-topic turn, got %+v", got)
	}
}

func TestDerivePreferences(t *testing.T) {
	fact := DerivePreferences("This is urgent, I need a detailed breakdown", "")
	if fact == nil {
		t.Fatalf("expected a fact")
	}
	if fact.ContextKey != "user_preferences" || fact.Importance != 2 {
		t.Fatalf("unexpected fact shape: %+v", fact)
	}
	if fact.ContextValue != "urgent, prefers detailed answers" {
		t.Fatalf("unexpected value: %q", fact.ContextValue)
	}

	simple := DerivePreferences("just give me a simple overview", "")
	if simple == nil || simple.ContextValue != "prefers simple answers" {
		t.Fatalf("expected simple preference, got %+v", simple)
	}

	// detailed cue wins over simple when both appear
	both := DerivePreferences("a detailed yet simple answer", "")
	if both == nil || both.ContextValue != "prefers detailed answers" {
		t.Fatalf("expected detailed to win, got %+v", both)
	}

	if got := DerivePreferences("tell me about tariffs", ""); got != nil {
		t.Fatalf("expected nil without preference cues, got %+v", got)
	}
}

func TestDeriveCaseInfo(t *testing.T) {
	fact := DeriveCaseInfo("My situation: goods held at the border", "")
	if fact == nil {
		t.Fatalf("expected a fact")
	}
	if fact.ContextKey != "case_information" || fact.Importance != 4 {
		t.Fatalf("unexpected fact shape: %+v", fact)
	}
	if fact.ContextValue != "My situation: goods held at the border" {
		t.Fatalf("unexpected value: %q", fact.ContextValue)
	}

	if got := DeriveCaseInfo("general question about tariffs", ""); got != nil {
		t.Fatalf("expected nil without case cues, got %+v", got)
	}
}

func TestDeriveCaseInfo_TruncatesOnRuneBoundary(t *testing.T) {
	long := "my case: " + strings.Repeat("پرونده ", 60)
	fact := DeriveCaseInfo(long, "")
	if fact == nil {
		t.Fatalf("expected a fact")
	}
	runes := []rune(fact.ContextValue)
	if len(runes) != 200 {
		t.Fatalf("expected 200 runes, got %d", len(runes))
	}
	if !strings.HasPrefix(long, fact.ContextValue) {
		t.Fatalf("excerpt must be a clean prefix of the message")
	}
}
