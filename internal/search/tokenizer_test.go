package search

import (
	"strings"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	tokens := Tokenize("Read a file from disk")
	expected := []string{"read", "file", "from", "disk"}

	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens %v, want %v", len(tokens), tokens, expected)
	}
	for i, tok := range tokens {
		if tok != expected[i] {
			t.Errorf("token %d = %q, want %q", i, tok, expected[i])
		}
	}
}

func TestTokenizeSeparators(t *testing.T) {
	// Underscores, punctuation, and non-ASCII letters all split tokens.
	// "déjà" shatters into fragments too short to keep, as do "2" and "0".
	tokens := Tokenize("read_file: déjà-vu! HTTP/2.0")
	want := []string{"read", "file", "http"}
	if len(tokens) != len(want) {
		t.Fatalf("got %v, want %v", tokens, want)
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("token %d = %q, want %q", i, tok, want[i])
		}
	}
}

func TestTokenizeShortTokensDropped(t *testing.T) {
	if tokens := Tokenize("ab cd"); len(tokens) != 0 {
		t.Errorf("expected no tokens for all-short input, got %v", tokens)
	}
	if tokens := Tokenize("a of to in"); len(tokens) != 0 {
		t.Errorf("expected no tokens for stop-word-length input, got %v", tokens)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if tokens := Tokenize(""); len(tokens) != 0 {
		t.Errorf("expected no tokens for empty input, got %v", tokens)
	}
}

func TestTokenizeKeepsDuplicates(t *testing.T) {
	tokens := Tokenize("file file FILE")
	if len(tokens) != 3 {
		t.Fatalf("duplicates must be kept, got %v", tokens)
	}
	for _, tok := range tokens {
		if tok != "file" {
			t.Errorf("expected all tokens to be %q, got %q", "file", tok)
		}
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"Read a file from disk",
		"write_file: Write a file to disk!!",
		"Download a resource from a URL",
		"MiXeD CaSe with-hyphens and_underscores 12345",
	}

	for _, input := range inputs {
		once := Tokenize(input)
		again := Tokenize(strings.Join(once, " "))

		if len(once) != len(again) {
			t.Fatalf("tokenize not idempotent for %q: %v vs %v", input, once, again)
		}
		for i := range once {
			if once[i] != again[i] {
				t.Errorf("tokenize not idempotent for %q at %d: %q vs %q", input, i, once[i], again[i])
			}
		}
	}
}

func TestTokenizeOutputDomain(t *testing.T) {
	tokens := Tokenize("Fetch URL#42 via HTTPS (proxy_aware), ÜBER-fast!")
	for _, tok := range tokens {
		if len(tok) < minTokenLen {
			t.Errorf("token %q shorter than %d", tok, minTokenLen)
		}
		for _, r := range tok {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
				t.Errorf("token %q contains non-alphanumeric rune %q", tok, r)
			}
		}
	}
}
