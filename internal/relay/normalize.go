package relay

import (
	"time"

	"github.com/opsalert/dispatch-console/internal/domain"
)

// Normalize turns an inbound monitor webhook into the update shape viewers
// render. A messages list wins over the single sender/message pair.
func Normalize(p domain.MonitorWebhookPayload, now time.Time) domain.GroupStatusUpdate {
	update := domain.GroupStatusUpdate{
		GroupID:     p.GroupID,
		GroupName:   p.GroupName,
		MemberCount: p.MemberCount,
		Status:      p.Status,
	}

	if update.Status == "" {
		update.Status = domain.GroupActive
	}
	if p.UnreadCount != nil {
		update.UnreadCount = *p.UnreadCount
	}

	switch {
	case p.Messages != nil:
		update.RecentMessages = p.Messages
		if len(p.Messages) > 0 {
			first := p.Messages[0]
			update.LastMessage = &first
		}
	case p.Message != "" && p.Sender != "":
		ts := p.Timestamp
		if ts == "" {
			ts = now.UTC().Format(time.RFC3339Nano)
		}
		msg := domain.GroupMessage{Sender: p.Sender, Content: p.Message, Timestamp: ts}
		update.LastMessage = &msg
		update.RecentMessages = []domain.GroupMessage{msg}
	}

	return update
}
