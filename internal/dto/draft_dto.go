package dto

import "mostrador/internal/model"

// SyncResponse reports the outcome of a manual draft push.
type SyncResponse struct {
	Empujadas int `json:"empujadas"`
	Fallidas  int `json:"fallidas"`
}

type DraftListResponse struct {
	Data []model.Draft `json:"data"`
}
