// Package http carries the track HTTP surface: byte-range streaming for
// incremental playback and the multipart upload that produces track ids.
package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devclub-iitd/CommonAudioVideoServer/internal/domain"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/store/content"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/store/tracks"
)

type TrackHandlers struct {
	Tracks  tracks.Store
	Content content.Store
}

func NewTrackHandlers(trackStore tracks.Store, contentStore content.Store) *TrackHandlers {
	return &TrackHandlers{Tracks: trackStore, Content: contentStore}
}

// Listen serves GET /api/listen/:trackId as 206 partial content. The stream
// carries exactly the requested byte window of the stored audio.
func (h *TrackHandlers) Listen(c *gin.Context) {
	trackID := c.Param("trackId")

	track, err := h.Tracks.FindID(c.Request.Context(), trackID)
	if err != nil {
		if errors.Is(err, tracks.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Track not found."})
			return
		}
		serverError(c, err)
		return
	}

	file, err := h.Content.Open(c.Request.Context(), track.Filename)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Track content not found."})
			return
		}
		serverError(c, err)
		return
	}
	defer file.Close()

	length := file.Length()
	start, end, err := parseRange(c.GetHeader("Range"), length)
	if err != nil {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", length))
		c.JSON(http.StatusRequestedRangeNotSatisfiable, gin.H{"message": "Requested range not satisfiable."})
		return
	}
	chunkSize := end - start + 1

	log.Debug().Str("module", "transport.http").Str("track_id", trackID).Int64("start", start).Int64("end", end).Int64("length", length).Msg("serving range")

	extra := map[string]string{
		"Content-Range": fmt.Sprintf("bytes %d-%d/%d", start, end, length),
		"Accept-Ranges": "bytes",
	}
	c.DataFromReader(http.StatusPartialContent, chunkSize, "audio/mpeg",
		io.NewSectionReader(file, start, chunkSize), extra)
}

// Upload ingests a multipart form (title + track file), stores the bytes and
// persists the track metadata that addTrack/changeTrack/listen consume.
func (h *TrackHandlers) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("track")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Track file is required."})
		return
	}
	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	src, err := fileHeader.Open()
	if err != nil {
		serverError(c, err)
		return
	}
	defer src.Close()

	binaryID := uuid.NewString()
	filename := binaryID + filepath.Ext(fileHeader.Filename)
	size, err := h.Content.Put(c.Request.Context(), filename, src)
	if err != nil {
		serverError(c, err)
		return
	}

	track := &domain.Track{
		ID:       uuid.NewString(),
		Title:    title,
		Filename: filename,
		BinaryID: binaryID,
	}
	if err := h.Tracks.Create(c.Request.Context(), track); err != nil {
		_ = h.Content.Delete(c.Request.Context(), filename)
		serverError(c, err)
		return
	}

	log.Info().Str("module", "transport.http").Str("track_id", track.ID).Str("filename", filename).Int64("size", size).Msg("track uploaded")
	c.JSON(http.StatusCreated, gin.H{"track": track})
}

// serverError writes the request-failure envelope used by the outer handler.
func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"errors": gin.H{"message": err.Error(), "error": gin.H{}},
	})
}
