package uploads

import (
	"whaletrack-server/database"

	"gorm.io/gorm"
)

type Status string

const (
	StatusReceived    Status = "received"
	StatusTranscoding Status = "transcoding"
	StatusTracking    Status = "tracking"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Upload is one accepted video and the artifacts derived from it.
// StorageName is assigned at intake and never changes; ResultName and
// CSVName are filled in when the pipeline completes.
type Upload struct {
	gorm.Model
	StorageName  string `gorm:"uniqueIndex"`
	OriginalName string // client-supplied, untrusted; kept for display only
	ContentType  string
	Size         int64
	Status       Status

	ResultName string
	CSVName    string

	// best-effort ffprobe metadata of the final artifact
	Width    uint
	Height   uint
	FPS      float64
	Duration float64
}

func SetStatus(id uint, status Status) error {
	db := database.Get()
	log.Debugln("upload", id, "status ->", status)
	return db.Model(&Upload{}).Where("id = ?", id).Update("status", status).Error
}
