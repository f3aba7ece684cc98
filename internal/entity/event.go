package entity

import "time"

// StageChangedEvent vai para a fila depois do commit de uma transição.
type StageChangedEvent struct {
	LeadID    string    `json:"lead_id"`
	FromStage Stage     `json:"from_stage"`
	ToStage   Stage     `json:"to_stage"`
	ChangedAt time.Time `json:"changed_at"`
}
