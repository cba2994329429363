package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/phototags/internal/gallery"
	"github.com/Oxyrus/phototags/internal/http/middleware"
	"github.com/Oxyrus/phototags/internal/storage"
)

// Library is the subset of *gallery.Manager the handlers call.
type Library interface {
	Ingest(ctx context.Context, up gallery.Upload) (gallery.Receipt, error)
	Delete(ctx context.Context, id, filename string) (gallery.DeletionReport, error)
	List(ctx context.Context) (gallery.Gallery, error)
	FindByTags(ctx context.Context, tags []string) (gallery.Gallery, error)
	Get(ctx context.Context, id string) (storage.Photo, error)
}

type PhotoHandler struct {
	logger    *slog.Logger
	library   Library
	uploadURL string
	maxBytes  int64
}

func NewPhotoHandler(logger *slog.Logger, library Library, uploadURL string, maxBytes int64) *PhotoHandler {
	return &PhotoHandler{
		logger:    logger,
		library:   library,
		uploadURL: uploadURL,
		maxBytes:  maxBytes,
	}
}

type photoResponse struct {
	ID             string     `json:"id"`
	Filename       string     `json:"filename"`
	OriginalName   string     `json:"originalName"`
	Tags           []string   `json:"tags"`
	URL            string     `json:"url"`
	ThumbnailURL   string     `json:"thumbnailUrl"`
	PreviewURL     string     `json:"previewUrl"`
	HasDerivatives bool       `json:"hasDerivatives"`
	TakenAt        *time.Time `json:"takenAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type galleryResponse struct {
	Photos   []photoResponse `json:"photos"`
	Tags     []string        `json:"tags"`
	Selected []string        `json:"selected,omitempty"`
}

// Upload ingests the multipart file in field "upl" with optional "tags".
func (h *PhotoHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	up := gallery.Upload{User: middleware.User(c)}

	header, err := c.FormFile("upl")
	switch {
	case err == nil:
		file, openErr := header.Open()
		if openErr != nil {
			h.logger.Error("failed to open uploaded file", "error", openErr)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read the uploaded file."})
			return
		}
		defer closeFile(file)
		up.File = file
		up.OriginalName = header.Filename
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "The uploaded file is too large."})
			return
		}
		h.logger.Warn("malformed upload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed upload."})
		return
	}

	up.Tags = c.PostForm("tags")

	receipt, err := h.library.Ingest(c.Request.Context(), up)
	if err != nil {
		body := gin.H{"error": gallery.Message(err)}
		if receipt.Photo.ID != "" {
			body["photo"] = h.toPhotoResponse(receipt.Photo)
		}
		h.fail(c, err, body)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": receipt.Message,
		"size":    receipt.HumanSize,
		"photo":   h.toPhotoResponse(receipt.Photo),
	})
}

// List renders the full gallery with its tag vocabulary.
func (h *PhotoHandler) List(c *gin.Context) {
	g, err := h.library.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, h.toGalleryResponse(g))
}

// Filter narrows the gallery to photos carrying any tag in "tagList".
func (h *PhotoHandler) Filter(c *gin.Context) {
	tags := gallery.ParseTags(c.PostForm("tagList"))
	if len(tags) == 0 {
		c.Redirect(http.StatusSeeOther, "/photos")
		return
	}

	g, err := h.library.FindByTags(c.Request.Context(), tags)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, h.toGalleryResponse(g))
}

func (h *PhotoHandler) Show(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	photo, err := h.library.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, h.toPhotoResponse(photo))
}

// DeleteList lists every photo for the deletion picker.
func (h *PhotoHandler) DeleteList(c *gin.Context) {
	g, err := h.library.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": h.toPhotoResponses(g.Photos)})
}

// Delete removes the photo named by "photoId" and "filename", then sends the
// client back to the deletion picker.
func (h *PhotoHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.PostForm("photoId"))
	filename := strings.TrimSpace(c.PostForm("filename"))

	report, err := h.library.Delete(c.Request.Context(), id, filename)
	if err != nil {
		body := gin.H{"error": gallery.Message(err)}
		if report.Outcome != 0 {
			body["outcome"] = report.Outcome.String()
			body["removed"] = report.Removed
			body["failed"] = report.Failed
		}
		h.fail(c, err, body)
		return
	}

	h.logger.Info("photo removed", "photoID", id, "user", middleware.User(c))
	c.Redirect(http.StatusSeeOther, "/delete")
}

func (h *PhotoHandler) fail(c *gin.Context, err error, body gin.H) {
	_ = c.Error(err)
	if body == nil {
		body = gin.H{"error": gallery.Message(err)}
	}
	c.JSON(gallery.StatusCode(err), body)
}

func (h *PhotoHandler) toGalleryResponse(g gallery.Gallery) galleryResponse {
	return galleryResponse{
		Photos:   h.toPhotoResponses(g.Photos),
		Tags:     g.Tags,
		Selected: g.Selected,
	}
}

func (h *PhotoHandler) toPhotoResponses(photos []storage.Photo) []photoResponse {
	items := make([]photoResponse, 0, len(photos))
	for _, p := range photos {
		items = append(items, h.toPhotoResponse(p))
	}
	return items
}

func (h *PhotoHandler) toPhotoResponse(p storage.Photo) photoResponse {
	return photoResponse{
		ID:             p.ID,
		Filename:       p.Filename,
		OriginalName:   p.OriginalName,
		Tags:           p.Tags,
		URL:            path.Join(h.uploadURL, p.Filename),
		ThumbnailURL:   path.Join(h.uploadURL, "thumbs", p.Filename),
		PreviewURL:     path.Join(h.uploadURL, "previews", p.Filename),
		HasDerivatives: p.HasDerivatives(),
		TakenAt:        p.TakenAt,
		CreatedAt:      p.CreatedAt,
	}
}

func closeFile(f multipart.File) {
	_ = f.Close()
}
