// Package filecheck decides locally whether a candidate file may be uploaded.
// It is pure: no network, no storage.
package filecheck

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/model"
)

const (
	// MaxPDFBytes and MaxCSVBytes are the per-kind size ceilings.
	MaxPDFBytes int64 = 4 << 20  // 4 MiB
	MaxCSVBytes int64 = 10 << 20 // 10 MiB
)

// Reason explains a rejection.
type Reason string

const (
	ReasonUnsupportedType Reason = "unsupported_type"
	ReasonTooLarge        Reason = "too_large"
)

// Verdict is either Accepted (Kind and Limit set) or Rejected (Reason set).
// Limit and Size are also kept on a TooLarge rejection for message formatting.
type Verdict struct {
	Accepted bool
	Kind     model.DocumentKind
	Limit    int64
	Size     int64
	Reason   Reason
}

// LimitFor returns the size ceiling of kind, or 0 for unsupported kinds.
func LimitFor(kind model.DocumentKind) int64 {
	switch kind {
	case model.KindPDF:
		return MaxPDFBytes
	case model.KindCSV:
		return MaxCSVBytes
	}
	return 0
}

// KindOf maps an extension (with or without the dot, any case) to a kind.
func KindOf(extension string) (model.DocumentKind, bool) {
	kind := model.DocumentKind(strings.ToLower(strings.TrimPrefix(extension, ".")))
	return kind, kind.Valid()
}

// Validate checks f against the local type and size rules.
func Validate(f model.PendingFile) Verdict {
	ext := f.DeclaredExtension
	if ext == "" {
		ext = model.ExtensionOf(f.Name)
	}
	kind, ok := KindOf(ext)
	if !ok {
		return Verdict{Size: f.SizeBytes, Reason: ReasonUnsupportedType}
	}
	limit := LimitFor(kind)
	if f.SizeBytes > limit {
		return Verdict{Kind: kind, Limit: limit, Size: f.SizeBytes, Reason: ReasonTooLarge}
	}
	return Verdict{Accepted: true, Kind: kind, Limit: limit, Size: f.SizeBytes}
}

// Err converts a rejection into a validation error with a user-facing detail.
// It returns nil for an accepted verdict.
func (v Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	switch v.Reason {
	case ReasonTooLarge:
		detail := fmt.Sprintf("%s Your file is %s.", tooLargeDetail(v.Kind), humanize.IBytes(uint64(v.Size)))
		return apperr.Validation(apperr.ErrTooLarge, detail)
	default:
		return apperr.Validation(apperr.ErrUnsupportedType, "Only PDF and CSV files are supported.")
	}
}

// ExceededErr reports a file of kind found to be over its ceiling while it
// was being read, after it had passed Validate.
func ExceededErr(kind model.DocumentKind) error {
	return apperr.Validation(apperr.ErrTooLarge, tooLargeDetail(kind))
}

func tooLargeDetail(kind model.DocumentKind) string {
	return fmt.Sprintf("File too large. Maximum size for %s files is %s.",
		strings.ToUpper(string(kind)), humanize.IBytes(uint64(LimitFor(kind))))
}
