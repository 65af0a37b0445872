package packets

import (
	"time"

	"github.com/Obed704/church-portal/internal/model"
)

// StudyResponse adds the rendered markdown body.
type StudyResponse struct {
	model.Study
	ContentHTML string `json:"content_html"`
}

type NextOccurrenceResponse struct {
	EventID   int        `json:"event_id"`
	Recurring bool       `json:"recurring"`
	Next      *time.Time `json:"next"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type ReactionCountsResponse struct {
	TargetType string                `json:"target_type"`
	TargetID   int                   `json:"target_id"`
	Counts     []model.ReactionCount `json:"counts"`
}
