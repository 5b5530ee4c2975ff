package summarizer

import "testing"

// TestSentenceTokenizer_SplitsSentences は複数文のテキストが文単位に分割されることを検証する。
func TestSentenceTokenizer_SplitsSentences(t *testing.T) {
	tok, err := NewSentenceTokenizer()
	if err != nil {
		t.Fatalf("NewSentenceTokenizer returned error: %v", err)
	}

	text := "The market rallied today. Investors were optimistic. Analysts remain cautious."
	sents := tok.Sentences(text)

	if len(sents) != 3 {
		t.Fatalf("got %d sentences, want 3: %v", len(sents), sents)
	}
	if sents[0] != "The market rallied today." {
		t.Errorf("first sentence = %q", sents[0])
	}
}

// TestSentenceTokenizer_HandlesAbbreviations は略語のピリオドで分割されないことを検証する。
func TestSentenceTokenizer_HandlesAbbreviations(t *testing.T) {
	tok, err := NewSentenceTokenizer()
	if err != nil {
		t.Fatalf("NewSentenceTokenizer returned error: %v", err)
	}

	text := "Dr. Smith joined the company. She leads the research team."
	sents := tok.Sentences(text)

	if len(sents) != 2 {
		t.Fatalf("got %d sentences, want 2: %v", len(sents), sents)
	}
}

// TestSentenceTokenizer_EmptyText は空テキストで空スライスが返ることを検証する。
func TestSentenceTokenizer_EmptyText(t *testing.T) {
	tok, err := NewSentenceTokenizer()
	if err != nil {
		t.Fatalf("NewSentenceTokenizer returned error: %v", err)
	}

	if sents := tok.Sentences(""); len(sents) != 0 {
		t.Errorf("got %d sentences for empty text, want 0", len(sents))
	}
	if sents := tok.Sentences("   \n  "); len(sents) != 0 {
		t.Errorf("got %d sentences for whitespace text, want 0", len(sents))
	}
}
