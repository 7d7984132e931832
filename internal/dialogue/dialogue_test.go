package dialogue

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"voice-chatter/internal/llm"
	"voice-chatter/internal/store"
)

type fakeLLM struct {
	resp llm.Response
	err  error
	got  []llm.Message
}

func (f *fakeLLM) Generate(_ context.Context, msgs []llm.Message) (llm.Response, error) {
	f.got = msgs
	return f.resp, f.err
}

func ref(id int) *int { return &id }

func TestSplitMessage_ConcatRestoresOriginal(t *testing.T) {
	texts := []string{
		"",
		"short",
		strings.Repeat("a", 4096),
		strings.Repeat("b", 4097),
		strings.Repeat("привет мир ", 1000),
	}
	for _, text := range texts {
		chunks := SplitMessage(text, 4096)
		if got := strings.Join(chunks, ""); got != text {
			t.Fatalf("concatenation mismatch for len %d", len(text))
		}
		for i, c := range chunks {
			if n := utf8.RuneCountInString(c); n > 4096 {
				t.Fatalf("chunk %d has %d runes", i, n)
			}
		}
	}
}

func TestSplitMessage_DoesNotSplitMidCharacter(t *testing.T) {
	text := strings.Repeat("я", 10)
	for _, chunk := range SplitMessage(text, 3) {
		if !utf8.ValidString(chunk) {
			t.Fatalf("chunk is not valid UTF-8: %q", chunk)
		}
	}
}

func TestRespond_BuildsRequestInOrder(t *testing.T) {
	f := &fakeLLM{resp: llm.Response{Content: "ответ"}}
	e := New(f, store.NewMemory(), "be helpful", 4096)

	chainRecs := []store.Record{
		{ID: 1, Text: "q1", Role: store.RoleUser, IsChainMember: true},
		{ID: 2, Text: "a1", Role: store.RoleAssistant, IsChainMember: true},
	}
	chunks, _, err := e.Respond(context.Background(), chainRecs, "q2")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "ответ" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}

	wantRoles := []string{"system", "user", "assistant", "user"}
	wantTexts := []string{"be helpful", "q1", "a1", "q2"}
	if len(f.got) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(f.got))
	}
	for i := range wantRoles {
		if f.got[i].Role != wantRoles[i] || f.got[i].Content != wantTexts[i] {
			t.Fatalf("message %d: got %+v", i, f.got[i])
		}
	}
}

func TestRespond_SplitsLongResponse(t *testing.T) {
	long := strings.Repeat("x", 10)
	f := &fakeLLM{resp: llm.Response{Content: long}}
	e := New(f, store.NewMemory(), "", 4)

	chunks, _, err := e.Respond(context.Background(), nil, "hi")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != long {
		t.Fatalf("chunks do not restore response")
	}
}

func TestPersistAssistant_EveryChunkPointsAtTrigger(t *testing.T) {
	s := store.NewMemory()
	e := New(&fakeLLM{}, s, "", 4096)

	triggerID := 100
	for _, id := range []int{101, 102, 103} {
		if err := e.PersistAssistant(context.Background(), id, triggerID, "full text"); err != nil {
			t.Fatalf("persist %d: %v", id, err)
		}
	}
	for _, id := range []int{101, 102, 103} {
		rec, err := s.Get(context.Background(), id)
		if err != nil || rec == nil {
			t.Fatalf("get %d: %v", id, err)
		}
		if rec.ReplyTo == nil || *rec.ReplyTo != triggerID {
			t.Fatalf("chunk %d does not point at trigger", id)
		}
		if !rec.IsChainMember || rec.Role != store.RoleAssistant {
			t.Fatalf("chunk %d: %+v", id, rec)
		}
	}
}

func TestTrackUser_InheritsChainMembership(t *testing.T) {
	s := store.NewMemory()
	e := New(&fakeLLM{}, s, "", 4096)
	ctx := context.Background()

	// Reply to a chain member inherits true.
	if err := s.Put(ctx, store.Record{ID: 1, Role: store.RoleAssistant, IsChainMember: true}); err != nil {
		t.Fatal(err)
	}
	if err := e.TrackUser(ctx, 2, ref(1), "continuing"); err != nil {
		t.Fatalf("track: %v", err)
	}
	rec, _ := s.Get(ctx, 2)
	if rec == nil || !rec.IsChainMember {
		t.Fatalf("membership not inherited: %+v", rec)
	}

	// Reply to a plain record stays false.
	if err := s.Put(ctx, store.Record{ID: 3, Role: store.RoleUser, IsChainMember: false}); err != nil {
		t.Fatal(err)
	}
	if err := e.TrackUser(ctx, 4, ref(3), "just chatting"); err != nil {
		t.Fatalf("track: %v", err)
	}
	rec, _ = s.Get(ctx, 4)
	if rec == nil || rec.IsChainMember {
		t.Fatalf("membership wrongly inherited: %+v", rec)
	}

	// No reply target at all.
	if err := e.TrackUser(ctx, 5, nil, "fresh"); err != nil {
		t.Fatalf("track: %v", err)
	}
	rec, _ = s.Get(ctx, 5)
	if rec == nil || rec.IsChainMember || rec.ReplyTo != nil {
		t.Fatalf("fresh record wrong: %+v", rec)
	}

	// Reply to an unknown id is tracked as non-member.
	if err := e.TrackUser(ctx, 6, ref(999), "orphan reply"); err != nil {
		t.Fatalf("track: %v", err)
	}
	rec, _ = s.Get(ctx, 6)
	if rec == nil || rec.IsChainMember {
		t.Fatalf("orphan reply wrong: %+v", rec)
	}
}
