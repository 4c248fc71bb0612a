package wordlist

import "testing"

func TestFilterASCII(t *testing.T) {
	filter := FilterASCII()
	if !filter("hello") {
		t.Fatalf("expected hello to pass ascii filter")
	}
	for _, word := range []string{"", "Hello", "résumé", "naïve", "don’t", "co-op"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}
