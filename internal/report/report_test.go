package report

import (
	"strings"
	"testing"
	"time"

	"voice-chatter/internal/store"
)

func TestBuild(t *testing.T) {
	day := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	records := []store.Record{
		{ID: 1, Role: store.RoleUser, IsChainMember: true, CreatedAt: day},
		{ID: 2, Role: store.RoleAssistant, IsChainMember: true, CreatedAt: day.Add(time.Minute)},
		{ID: 3, Role: store.RoleUser, CreatedAt: day.Add(time.Hour)},
		{ID: 4, Role: store.RoleUser, CreatedAt: day.Add(-25 * time.Hour)}, // previous day
	}

	stats := Build(records, day)
	if stats.TotalMessages != 3 {
		t.Fatalf("total = %d", stats.TotalMessages)
	}
	if stats.UserMessages != 2 || stats.ModelReplies != 1 {
		t.Fatalf("user=%d model=%d", stats.UserMessages, stats.ModelReplies)
	}
	if stats.ChainMessages != 2 {
		t.Fatalf("chain = %d", stats.ChainMessages)
	}
	if stats.Date != "2026-08-28" {
		t.Fatalf("date = %s", stats.Date)
	}
}

func TestSummaryMentionsCounts(t *testing.T) {
	stats := &DailyStats{Date: "2026-08-28", TotalMessages: 5, UserMessages: 3, ModelReplies: 2, ChainMessages: 4}
	s := stats.Summary()
	for _, want := range []string{"2026-08-28", "5", "3", "2", "4"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q: %s", want, s)
		}
	}
}
