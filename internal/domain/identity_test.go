package domain

import "testing"

func TestIdentityKey(t *testing.T) {
	if got := UserIdentity(42).Key(); got != "user:42" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := SessionIdentity("abc123").Key(); got != "session:abc123" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Anonymous().Key(); got != "anonymous" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestIdentityIsAnonymous(t *testing.T) {
	if UserIdentity(1).IsAnonymous() {
		t.Fatalf("user identity should not be anonymous")
	}
	if SessionIdentity("s").IsAnonymous() {
		t.Fatalf("session identity should not be anonymous")
	}
	if !Anonymous().IsAnonymous() {
		t.Fatalf("anonymous identity should report anonymous")
	}
}
