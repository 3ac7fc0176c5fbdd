// Package storage persists uploaded media (post videos/images, event
// posters, profile pictures) and hands back a publicly reachable URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

type Storage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (url string, err error)
}

// allowed media extensions, matching what the feed can render.
var allowedExts = map[string]struct{}{
	".jpeg": {}, ".jpg": {}, ".png": {}, ".gif": {},
	".mp4": {}, ".mov": {}, ".avi": {},
}

// AllowedFile reports whether the filename carries a renderable media
// extension.
func AllowedFile(filename string) bool {
	_, ok := allowedExts[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ObjectName builds a collision-safe stored name from the upload field and
// the original extension, e.g. "media-1717171717171.mp4".
func ObjectName(field, originalName string) string {
	return fmt.Sprintf("%s-%d%s", field, time.Now().UnixMilli(), strings.ToLower(filepath.Ext(originalName)))
}
