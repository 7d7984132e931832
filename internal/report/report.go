package report

import (
	"fmt"
	"time"

	"voice-chatter/internal/store"
)

// DailyStats содержит статистику использования за день
type DailyStats struct {
	Date          string `json:"date"`
	TotalMessages int    `json:"total_messages"`
	UserMessages  int    `json:"user_messages"`
	ModelReplies  int    `json:"model_replies"`
	ChainMessages int    `json:"chain_messages"`
}

// Build counts records created on the target day.
func Build(records []store.Record, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{Date: startOfDay.Format("2006-01-02")}
	for _, rec := range records {
		if rec.CreatedAt.Before(startOfDay) || !rec.CreatedAt.Before(endOfDay) {
			continue
		}
		stats.TotalMessages++
		switch rec.Role {
		case store.RoleUser:
			stats.UserMessages++
		case store.RoleAssistant:
			stats.ModelReplies++
		}
		if rec.IsChainMember {
			stats.ChainMessages++
		}
	}
	return stats
}

// Summary создает текстовое резюме для отправки администратору
func (ds *DailyStats) Summary() string {
	return fmt.Sprintf(`Статистика бота за %s:
- Всего сообщений: %d
- От пользователей: %d
- Ответов модели: %d
- В активных диалогах: %d`,
		ds.Date, ds.TotalMessages, ds.UserMessages, ds.ModelReplies, ds.ChainMessages)
}
