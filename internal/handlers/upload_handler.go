package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialchat/gateway/internal/blob"
	"github.com/socialchat/gateway/internal/middleware"
)

// uploadKinds whitelists the media namespaces clients may write to.
var uploadKinds = map[string]struct{}{
	"avatars": {},
	"posts":   {},
	"stories": {},
}

// UploadHandler streams multipart uploads into the media bucket.
type UploadHandler struct {
	store *blob.Store
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store *blob.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload stores one file under /uploads/:kind and returns its URL. The URL
// is then referenced from a post, story or profile update.
func (h *UploadHandler) Upload(c echo.Context) error {
	kind := c.Param("kind")
	if _, ok := uploadKinds[kind]; !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown upload kind")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file field is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	defer src.Close()

	url, err := h.store.Upload(c.Request().Context(), kind, middleware.UserID(c), fileHeader.Filename, src)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
