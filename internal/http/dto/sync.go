package dto

import (
	"github.com/mkoelzer/songbase/internal/constants"
	"github.com/mkoelzer/songbase/internal/domain"
)

// RecordSyncRequest is a completed download reported by the downloader.
type RecordSyncRequest struct {
	SongID   int64  `json:"song_id"`
	Path     string `json:"path"`
	Mtime    int64  `json:"mtime"`
	MetaTags string `json:"meta_tags"`
	Pinned   bool   `json:"pinned"`
}

func (r *RecordSyncRequest) Validate() []ValidationError {
	var errs []ValidationError
	if r.SongID <= 0 {
		errs = append(errs, ValidationError{Field: "song_id", Message: "must be positive"})
	}
	errs = append(errs, validateRequired("path", r.Path)...)
	errs = append(errs, validateNonNegative("mtime", r.Mtime)...)
	return errs
}

// PinRequest toggles an attempt's pin flag.
type PinRequest struct {
	Pinned bool `json:"pinned"`
}

// RecordResourceRequest reports one downloaded resource file. The kind comes
// from the URL.
type RecordResourceRequest struct {
	Fname    string `json:"fname"`
	Mtime    int64  `json:"mtime"`
	Resource string `json:"resource"`
}

func (r *RecordResourceRequest) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRequired("fname", r.Fname)...)
	errs = append(errs, validateNonNegative("mtime", r.Mtime)...)
	if len(r.Resource) > constants.MaxResourceLength {
		errs = append(errs, ValidationError{Field: "resource", Message: "descriptor too long"})
	}
	return errs
}

// ValidateKind checks a resource kind taken from the URL.
func ValidateKind(kind string) (domain.ResourceKind, []ValidationError) {
	k := domain.ResourceKind(kind)
	if !k.Valid() {
		return "", []ValidationError{{Field: "kind", Message: "unknown resource kind"}}
	}
	return k, nil
}
