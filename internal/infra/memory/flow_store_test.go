package memory

import "testing"

func TestFlowStoreReusesFlows(t *testing.T) {
	store := NewFlowStore()

	first := store.GetOrCreate("flow-1")
	if again := store.GetOrCreate("flow-1"); again != first {
		t.Fatalf("expected the same flow instance")
	}

	got, ok := store.Get("flow-1")
	if !ok || got != first {
		t.Fatalf("expected stored flow back")
	}

	store.Delete("flow-1")
	if _, ok := store.Get("flow-1"); ok {
		t.Fatalf("expected flow removed")
	}
}
