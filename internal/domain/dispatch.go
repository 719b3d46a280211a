package domain

import "time"

type DispatchStatus string

const (
	StatusPending DispatchStatus = "PENDING"
	StatusSuccess DispatchStatus = "SUCCESS"
	StatusFailed  DispatchStatus = "FAILED"
)

func (s DispatchStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

type Channel string

const (
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WHATSAPP"
)

type Category string

const (
	CategoryAlerta  Category = "ALERTA"
	CategoryImpacto Category = "IMPACTO"
	CategoryMassivo Category = "MASSIVO"
)

// DispatchRecord is one row of the activity_logs audit table.
type DispatchRecord struct {
	ID         string         `db:"id" json:"id"`
	EntidadeID string         `db:"entidade_id" json:"entidade_id"`
	UserID     *string        `db:"user_id" json:"user_id,omitempty"`
	Acao       string         `db:"acao" json:"acao"`
	Canal      Channel        `db:"canal" json:"canal"`
	Regional   string         `db:"regional" json:"regional"`
	Mensagem   string         `db:"mensagem" json:"mensagem"`
	Status     DispatchStatus `db:"status" json:"status"`
	Protocolo  *string        `db:"protocolo" json:"protocolo,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// NewDispatchRecord carries the fields written when a record is staged.
type NewDispatchRecord struct {
	EntidadeID string
	UserID     string
	Acao       string
	Canal      Channel
	Regional   string
	Mensagem   string
}

type DispatchRequest struct {
	Canal    Channel  `json:"canal" validate:"omitempty,oneof=SMS WHATSAPP"`
	Regional Regional `json:"regional"`
	Telefone string   `json:"telefone,omitempty"`
	Mensagem string   `json:"mensagem" validate:"required,notblank"`
	Tipo     Category `json:"tipo" validate:"required,oneof=ALERTA IMPACTO MASSIVO"`
	Autor    string   `json:"autor,omitempty"`
}

type DispatchResult struct {
	ID        string         `json:"id"`
	Status    DispatchStatus `json:"status"`
	Protocolo string         `json:"protocolo"`
	CreatedAt time.Time      `json:"created_at"`
}

// WebhookPayload is the body posted to the workflow engine.
type WebhookPayload struct {
	Regional       Regional `json:"regional"`
	Mensagem       string   `json:"mensagem"`
	Tipo           Category `json:"tipo"`
	Autor          string   `json:"autor"`
	Timestamp      string   `json:"timestamp"`
	ProtocoloLocal string   `json:"protocolo_local"`
	EntidadeID     string   `json:"entidade_id"`
	UserID         string   `json:"user_id"`
}

type WebhookResult struct {
	StatusCode int
	Body       []byte
	// Protocol is empty when the response carried no reference.
	Protocol string
}

type DispatchStats struct {
	Pending int64 `json:"pending"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
	Total   int64 `json:"total"`
}
