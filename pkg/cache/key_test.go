package cache

import "testing"

func TestKeyIsDeterministicRegardlessOfMapOrder(t *testing.T) {
	vars1 := map[string]any{"a": 1, "b": 2}
	vars2 := map[string]any{"b": 2, "a": 1}

	k1 := Key("provider-1", "rendered prompt", vars1, nil)
	k2 := Key("provider-1", "rendered prompt", vars2, nil)
	if k1 != k2 {
		t.Fatalf("expected identical keys, got %q and %q", k1, k2)
	}
}

func TestKeyDiffersOnPromptChange(t *testing.T) {
	k1 := Key("provider-1", "prompt A", nil, nil)
	k2 := Key("provider-1", "prompt B", nil, nil)
	if k1 == k2 {
		t.Fatal("expected different keys for different prompts")
	}
}

func TestKeyDiffersOnProviderChange(t *testing.T) {
	k1 := Key("provider-1", "same prompt", nil, nil)
	k2 := Key("provider-2", "same prompt", nil, nil)
	if k1 == k2 {
		t.Fatal("expected different keys for different providers")
	}
}
