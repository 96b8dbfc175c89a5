package legalchat

import (
	"strings"
	"testing"
)

func TestFallbackResponse_BranchSelection(t *testing.T) {
	cases := []struct {
		name    string
		message string
		marker  string
	}{
		{"export keyword", "What documents do I need to export my goods?", "export goods from China"},
		{"china keyword", "Shipping electronics out of China", "export goods from China"},
		{"import keyword", "What does it cost to import machinery?", "Importing into Canada"},
		{"canada keyword", "How long does customs clearance take in Canada?", "Importing into Canada"},
		{"customs keyword", "Which customs forms are mandatory?", "core customs document set"},
		{"tariff keyword", "What tariff applies here?", "Tariffs and duties depend"},
		{"hs code keyword", "How do I find the right HS code?", "HS classification starts"},
		{"restricted keyword", "Are these goods restricted?", "Restricted goods can cross"},
		{"catch-all", "Hello, who are you?", "I can help with international trade law"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := FallbackResponse(tc.message, LangEnglish)
			if !strings.Contains(resp.Text, tc.marker) {
				t.Fatalf("wrong branch for %q:\n%s", tc.message, resp.Text)
			}
			if resp.Confidence != FallbackConfidence {
				t.Fatalf("expected confidence %v, got %v", FallbackConfidence, resp.Confidence)
			}
			if len(resp.Suggestions) == 0 || len(resp.RelatedTopics) == 0 {
				t.Fatalf("canned answer must carry suggestions and topics")
			}
		})
	}
}

func TestFallbackResponse_RuleOrderPrecedence(t *testing.T) {
	// "export from China to Canada" matches both the export and the import
	// rules; the export rule is listed first and must win
	resp := FallbackResponse("I export from China to Canada", LangEnglish)
	if !strings.Contains(resp.Text, "export goods from China") {
		t.Fatalf("expected the export branch to win:\n%s", resp.Text)
	}
}

func TestFallbackResponse_PersianVariant(t *testing.T) {
	resp := FallbackResponse("export به کانادا", LangPersian)
	if !strings.Contains(resp.Text, "صادرات") {
		t.Fatalf("expected Persian canned text, got:\n%s", resp.Text)
	}
	if resp.Confidence != FallbackConfidence {
		t.Fatalf("expected confidence %v, got %v", FallbackConfidence, resp.Confidence)
	}
}

func TestFallbackResponse_ThirdLanguageGetsEnglish(t *testing.T) {
	resp := FallbackResponse("exportación de mercancías a través de customs", LangOther)
	if !strings.Contains(resp.Text, "This is general information") {
		t.Fatalf("expected English fallback for a third language, got:\n%s", resp.Text)
	}
}

func TestFallbackResponse_CaseInsensitiveMatching(t *testing.T) {
	resp := FallbackResponse("EXPORT PAPERWORK?", LangEnglish)
	if !strings.Contains(resp.Text, "export goods from China") {
		t.Fatalf("keyword matching must be case-insensitive:\n%s", resp.Text)
	}
}

func TestFallbackResponse_ReturnsFreshSlices(t *testing.T) {
	a := FallbackResponse("tariff question", LangEnglish)
	a.Suggestions[0] = "mutated"
	b := FallbackResponse("tariff question", LangEnglish)
	if b.Suggestions[0] == "mutated" {
		t.Fatalf("canned answer slices must not be shared between calls")
	}
}

func TestTechnicalDifficultiesResponse(t *testing.T) {
	en := TechnicalDifficultiesResponse(LangEnglish)
	if en.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %v", en.Confidence)
	}
	if !strings.Contains(en.Text, "technical difficulties") {
		t.Fatalf("unexpected text: %q", en.Text)
	}
	fa := TechnicalDifficultiesResponse(LangPersian)
	if !strings.Contains(fa.Text, "مشکل فنی") {
		t.Fatalf("expected Persian text, got %q", fa.Text)
	}
	if len(en.Suggestions) != 0 || len(en.RelatedTopics) != 0 {
		t.Fatalf("technical-difficulties answer carries no suggestions")
	}
}
