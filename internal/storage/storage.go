// Package storage keeps listing images in object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
)

type Storage interface {
	// UploadImage stores an image for a listing and returns its object name and public URL.
	UploadImage(ctx context.Context, listingID uuid.UUID, fileName, contentType string, file io.Reader, size int64) (objectName, url string, err error)
	DeleteImage(ctx context.Context, objectName string) error
}

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageExt validates contentType and returns the extension to store the object
// under. The original file extension wins when it is a known alias.
func ImageExt(fileName, contentType string) (string, error) {
	want, ok := imageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", domain.Invalid("unsupported image type: " + contentType)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".jpeg" && want == ".jpg" {
		return ext, nil
	}
	return want, nil
}

// ObjectName builds listings/<id>/<yyyy>/<mm>/<uuid><ext>.
func ObjectName(listingID uuid.UUID, ext string, now time.Time) string {
	return fmt.Sprintf("listings/%s/%d/%02d/%s%s",
		listingID,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		ext)
}

func publicURL(base, bucket, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), bucket, objectName)
}
