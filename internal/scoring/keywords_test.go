package scoring

import "testing"

func TestTokenize_TechSuffixes(t *testing.T) {
	kw := tokenize("Shipped C++ and C# services, migrated Node.js apps")
	for _, want := range []string{"c++", "c#", "node.js", "shipped", "services"} {
		if !kw[want] {
			t.Errorf("expected token %q, got %v", want, kw)
		}
	}
	if kw["and"] {
		t.Error("stop word should be filtered")
	}
}

func TestTokenize_TrailingDot(t *testing.T) {
	kw := tokenize("worked with docker.")
	if !kw["docker"] {
		t.Errorf("trailing dot should be stripped, got %v", kw)
	}
}

func TestContainsKeyword_MultiWord(t *testing.T) {
	tokens := tokenize("built machine learning pipelines in production")
	if !containsKeyword(tokens, "machine learning") {
		t.Error("multi-word keyword should match on its tokens")
	}
	if containsKeyword(tokens, "deep learning") {
		t.Error("missing token should fail the keyword")
	}
}

func TestFold(t *testing.T) {
	if fold("  ReAcT ") != "react" {
		t.Errorf("got %q", fold("  ReAcT "))
	}
}
