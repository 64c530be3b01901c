package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/platform/apierr"
)

var errMissingFile = apierr.BadRequest("missing_file", "No file uploaded. Send it in the \"file\" form field.")

// readUpload reads the multipart "file" part into memory.
func readUpload(c *gin.Context) (extraction.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return extraction.Upload{}, err
		}
		return extraction.Upload{}, errMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return extraction.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return extraction.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	return extraction.Upload{
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
		Data:        data,
	}, nil
}
