package domain

import "encoding/json"

type GroupStatus string

const (
	GroupActive  GroupStatus = "active"
	GroupIdle    GroupStatus = "idle"
	GroupOffline GroupStatus = "offline"
)

type GroupMessage struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type GroupStatusUpdate struct {
	GroupID        string         `json:"groupId"`
	GroupName      string         `json:"groupName"`
	Description    string         `json:"description,omitempty"`
	LastMessage    *GroupMessage  `json:"lastMessage,omitempty"`
	MemberCount    *int           `json:"memberCount,omitempty"`
	Status         GroupStatus    `json:"status,omitempty"`
	UnreadCount    int            `json:"unreadCount"`
	RecentMessages []GroupMessage `json:"recentMessages,omitempty"`
}

// MonitorWebhookPayload is what the workflow engine posts to the monitor
// webhook. Groups is kept raw so a sync is re-emitted verbatim.
type MonitorWebhookPayload struct {
	GroupID     string            `json:"groupId"`
	GroupName   string            `json:"groupName"`
	Sender      string            `json:"sender,omitempty"`
	Message     string            `json:"message,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
	MemberCount *int              `json:"memberCount,omitempty"`
	Status      GroupStatus       `json:"status,omitempty"`
	UnreadCount *int              `json:"unreadCount,omitempty"`
	EventType   string            `json:"eventType,omitempty"`
	Groups      []json.RawMessage `json:"groups,omitempty"`
	Messages    []GroupMessage    `json:"messages,omitempty"`
}

const EventTypeSync = "sync"
