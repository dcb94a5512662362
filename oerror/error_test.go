package oerror

import "testing"

func TestNewFormatsArgs(t *testing.T) {
	if got := New("bad id %d", 7).Error(); got != "bad id 7" {
		t.Fatalf("unexpected message %q", got)
	}
	// A message containing verbs but no args is kept as-is.
	if got := New("100% broken").Error(); got != "100% broken" {
		t.Fatalf("unexpected message %q", got)
	}
}
