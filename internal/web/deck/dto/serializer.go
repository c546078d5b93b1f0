package dto

import (
	"time"

	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
)

// SlidesResponse is the deck in display order plus any per-file
// warnings from an upload batch.
type SlidesResponse struct {
	Slides   []model.Slide `json:"slides"`
	Warnings []string      `json:"warnings,omitempty"`
}

// MoveRequest moves the slide at Source to Destination.
type MoveRequest struct {
	Source      int `json:"source"`
	Destination int `json:"destination"`
}

// IssueCodeRequest creates an access code for one investor.
type IssueCodeRequest struct {
	InvestorName string `json:"investor_name"`
}

// AccessCodeResponse is the admin view of one code. The hash is only
// included here; viewer-facing responses never carry it.
type AccessCodeResponse struct {
	ID           string     `json:"id"`
	InvestorName string     `json:"investor_name"`
	HashCode     string     `json:"hash_code"`
	Redeemed     bool       `json:"redeemed"`
	CreatedAt    time.Time  `json:"created_at"`
	RedeemedAt   *time.Time `json:"redeemed_at,omitempty"`
}

func NewAccessCodeResponse(code *model.AccessCode) *AccessCodeResponse {
	return &AccessCodeResponse{
		ID:           code.ID.Hex(),
		InvestorName: code.InvestorName,
		HashCode:     code.HashCode,
		Redeemed:     code.Redeemed,
		CreatedAt:    code.CreatedAt,
		RedeemedAt:   code.RedeemedAt,
	}
}
