package chain

import (
	"context"
	"testing"

	"voice-chatter/internal/store"
)

func put(t *testing.T, s store.Store, id int, replyTo *int, role string, member bool) {
	t.Helper()
	if err := s.Put(context.Background(), store.Record{
		ID:            id,
		Text:          "msg",
		ReplyTo:       replyTo,
		Role:          role,
		IsChainMember: member,
	}); err != nil {
		t.Fatalf("put %d: %v", id, err)
	}
}

func ref(id int) *int { return &id }

func TestResolve_OrderAndLinks(t *testing.T) {
	s := store.NewMemory()
	put(t, s, 1, nil, store.RoleUser, true)
	put(t, s, 2, ref(1), store.RoleAssistant, true)
	put(t, s, 3, ref(2), store.RoleUser, true)

	got := NewResolver(s).Resolve(context.Background(), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].ID != want {
			t.Fatalf("position %d: expected id %d, got %d", i, want, got[i].ID)
		}
	}
	// Every adjacent pair must be directly linked.
	for i := 1; i < len(got); i++ {
		if got[i].ReplyTo == nil || *got[i].ReplyTo != got[i-1].ID {
			t.Fatalf("gap between %d and %d", got[i-1].ID, got[i].ID)
		}
	}
}

func TestResolve_MissingStartIsEmpty(t *testing.T) {
	s := store.NewMemory()
	if got := NewResolver(s).Resolve(context.Background(), 42); len(got) != 0 {
		t.Fatalf("expected empty chain, got %d records", len(got))
	}
}

func TestResolve_NonMemberStartIsEmpty(t *testing.T) {
	s := store.NewMemory()
	put(t, s, 1, nil, store.RoleUser, false)
	if got := NewResolver(s).Resolve(context.Background(), 1); len(got) != 0 {
		t.Fatalf("expected empty chain for non-member, got %d records", len(got))
	}
}

func TestResolve_BrokenLinkTruncates(t *testing.T) {
	s := store.NewMemory()
	// Record 5 is missing: the walk stops there and keeps the prefix.
	put(t, s, 6, ref(5), store.RoleAssistant, true)
	put(t, s, 7, ref(6), store.RoleUser, true)

	got := NewResolver(s).Resolve(context.Background(), 7)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != 6 || got[1].ID != 7 {
		t.Fatalf("unexpected ids: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestResolve_DepthBoundStopsCycle(t *testing.T) {
	s := store.NewMemory()
	// Malformed graph: 1 and 2 point at each other.
	put(t, s, 1, ref(2), store.RoleUser, true)
	put(t, s, 2, ref(1), store.RoleAssistant, true)

	got := NewResolver(s).Resolve(context.Background(), 1)
	if len(got) != DefaultMaxDepth {
		t.Fatalf("expected walk to stop at %d hops, got %d", DefaultMaxDepth, len(got))
	}
}
