package uploads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrijs2005/goinglive/internal/course"
)

// DefaultMaxSize is the upload limit used when none is configured.
const DefaultMaxSize int64 = 16 << 20

// Policy decides whether a locally selected file may be queued for an
// element. Allowed maps media element types to accepted MIME types; an entry
// ending in "/*" accepts the whole family, an empty list accepts anything.
type Policy struct {
	MaxSize int64
	Allowed map[course.ElementType][]string
}

// DefaultPolicy accepts common web image formats for image elements and any
// type for attachments.
func DefaultPolicy() Policy {
	return Policy{
		MaxSize: DefaultMaxSize,
		Allowed: map[course.ElementType][]string{
			course.ElementImage: {"image/png", "image/jpeg", "image/gif", "image/webp", "image/svg+xml"},
		},
	}
}

// detectFile is a test seam for mimetype.DetectFile.
var detectFile = mimetype.DetectFile

// Inspect validates the file at path for an element of type t and returns a
// handle describing it. Failures are *UploadError values.
func (p Policy) Inspect(elementID string, t course.ElementType, path string) (FileHandle, error) {
	switch t {
	case course.ElementImage, course.ElementAttachment:
	case course.ElementText:
		return FileHandle{}, newUploadError(KindInvalidType, elementID, errors.New("text elements do not take files"))
	default:
		return FileHandle{}, newUploadError(KindInvalidType, elementID, fmt.Errorf("%w: %q", course.ErrUnknownElementType, t))
	}

	info, err := os.Stat(path)
	if err != nil {
		return FileHandle{}, newUploadError(KindFileUnreadable, elementID, err)
	}
	if info.IsDir() {
		return FileHandle{}, newUploadError(KindFileUnreadable, elementID, fmt.Errorf("%s is a directory", path))
	}

	limit := p.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	if info.Size() > limit {
		return FileHandle{}, newUploadError(KindFileTooLarge, elementID,
			fmt.Errorf("%d bytes exceeds limit of %d", info.Size(), limit))
	}

	mime, err := detectFile(path)
	if err != nil {
		return FileHandle{}, newUploadError(KindFileUnreadable, elementID, err)
	}
	if !p.accepts(t, mime) {
		return FileHandle{}, newUploadError(KindInvalidType, elementID,
			fmt.Errorf("%s not accepted for %s elements", mime.String(), t))
	}

	return FileHandle{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.String(),
	}, nil
}

func (p Policy) accepts(t course.ElementType, mime *mimetype.MIME) bool {
	allowed := p.Allowed[t]
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if family, ok := strings.CutSuffix(a, "/*"); ok {
			if strings.HasPrefix(mime.String(), family+"/") {
				return true
			}
			continue
		}
		if mime.Is(a) {
			return true
		}
	}
	return false
}
