package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"whaletrack-server/ffmpeg"
	"whaletrack-server/pipeline"
	"whaletrack-server/storage"
	"whaletrack-server/uploads"
)

// Track accepts one multipart video upload, pushes it through the
// processing pipeline, and answers with URLs for the resulting artifacts.
func (h *Handler) Track(c echo.Context) error {
	fh, err := c.FormFile("video")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No video uploaded"})
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "video/") {
		return c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
			Error: fmt.Sprintf("unsupported media type %q, want video/*", contentType),
		})
	}

	src, err := fh.Open()
	if err != nil {
		log.Errorln("couldn't open upload part:", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "couldn't read upload"})
	}
	defer src.Close()

	name := storage.NewName(fh.Filename)
	size, err := h.files.Save(name, src)
	if err != nil {
		if errors.Is(err, storage.ErrPayloadTooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: "upload exceeds size limit",
			})
		}
		log.Errorf("couldn't store upload %s: %v", name, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "couldn't store upload"})
	}

	upload := uploads.Upload{
		StorageName:  name,
		OriginalName: filepath.Base(fh.Filename),
		ContentType:  contentType,
		Size:         size,
		Status:       uploads.StatusReceived,
	}
	if err := h.db.Create(&upload).Error; err != nil {
		log.Errorln("couldn't record upload:", err)
	}
	log.Infof("new video uploaded: %s (%d bytes, %s)", name, size, contentType)

	outcome, err := h.pipe.Run(c.Request().Context(), pipeline.Request{
		Name: name,
		OnStage: func(stage pipeline.Stage) {
			switch stage {
			case pipeline.StageTranscode:
				uploads.SetStatus(upload.ID, uploads.StatusTranscoding)
			case pipeline.StageTrack:
				uploads.SetStatus(upload.ID, uploads.StatusTracking)
			}
		},
	})
	if err != nil {
		uploads.SetStatus(upload.ID, uploads.StatusFailed)
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   stageErr.Message,
				Details: stageErr.Diagnostic,
			})
		}
		log.Errorf("pipeline error for %s: %v", name, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "processing failed"})
	}

	h.db.Model(&uploads.Upload{}).Where("id = ?", upload.ID).
		Updates(map[string]interface{}{
			"status":      uploads.StatusCompleted,
			"result_name": outcome.VideoName,
			"csv_name":    outcome.CSVName,
		})
	h.stampMeta(upload.ID, outcome.VideoName)

	resp := TrackResponse{
		StreamURL: "/videos/" + outcome.VideoName,
		VideoURL:  "/download/" + outcome.VideoName,
	}
	if outcome.CSVName != "" {
		resp.CSVURL = "/download/" + outcome.CSVName
	}
	return c.JSON(http.StatusOK, resp)
}

// stampMeta probes the deliverable and records its dimensions on the
// upload row. Best effort; a missing ffprobe just leaves the fields zero.
func (h *Handler) stampMeta(id uint, name string) {
	path, err := h.files.Path(name)
	if err != nil {
		return
	}
	meta, err := ffmpeg.Probe(h.ffprobe, path)
	if err != nil {
		return
	}
	h.db.Model(&uploads.Upload{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"width":    meta.Width,
			"height":   meta.Height,
			"fps":      meta.FPS,
			"duration": meta.Duration,
		})
}
