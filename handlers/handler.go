package handlers

import (
	"gorm.io/gorm"

	"whaletrack-server/pipeline"
	"whaletrack-server/storage"
)

// Handler serves the upload/track API. Everything it touches is either
// request-scoped or safe for concurrent use, so one Handler serves all
// requests.
type Handler struct {
	db      *gorm.DB
	files   *storage.Store
	pipe    *pipeline.Pipeline
	ffprobe string
}

func NewHandler(db *gorm.DB, files *storage.Store, pipe *pipeline.Pipeline, ffprobe string) *Handler {
	return &Handler{
		db:      db,
		files:   files,
		pipe:    pipe,
		ffprobe: ffprobe,
	}
}

// TrackResponse is the success contract of POST /track. StreamURL points
// at the playable deliverable under the /videos mount; the download URLs
// are set when the corresponding artifact exists.
type TrackResponse struct {
	StreamURL string `json:"stream_url"`
	VideoURL  string `json:"video_url,omitempty"`
	CSVURL    string `json:"csv_url,omitempty"`
}

// ErrorResponse is the failure contract. Details carries the bounded
// diagnostic tail of a failed external stage; exposing it is a deliberate
// choice for an internal deployment, not something to ship on a public API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
