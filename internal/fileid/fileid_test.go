package fileid

import (
	"strings"
	"testing"
)

func TestDigest(t *testing.T) {
	d1 := Digest([]byte("hello"))
	d2 := Digest([]byte("hello"))
	if d1 != d2 {
		t.Errorf("same content should give same digest: %q vs %q", d1, d2)
	}
	if !strings.HasPrefix(d1, prefix) {
		t.Errorf("digest should have prefix %q: got %q", prefix, d1)
	}
	if want := "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"; d1 != want {
		t.Errorf("got %q, want %q", d1, want)
	}
}

func TestDigest_differentContent(t *testing.T) {
	if Digest([]byte("a")) == Digest([]byte("b")) {
		t.Error("different content should give different digests")
	}
}

func TestDigest_empty(t *testing.T) {
	if d := Digest(nil); len(d) != len(prefix)+64 {
		t.Errorf("empty input: got %q", d)
	}
}
