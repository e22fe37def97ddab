package docstate

import (
	"fmt"
	"strings"
	"time"

	"github.com/dharsanguruparan/docchat/internal/model"
)

// Projection is the read-only view rendered by the UI.
type Projection struct {
	HasDocument bool
	Document    model.DocumentDescriptor
	Phase       Phase
	// Uploading is the filename of the in-flight upload, if any.
	Uploading   string
	// Notice is the message from the last failed upload.
	Notice      string
	UpdatedAt   time.Time
}

// Project returns a consistent snapshot of the store.
func (s *Store) Project() Projection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := Projection{
		Phase:     s.phase,
		Uploading: s.uploading,
		Notice:    s.notice,
		UpdatedAt: s.updatedAt,
	}
	if s.current != nil {
		p.HasDocument = true
		p.Document = s.current.Clone()
	}
	return p
}

// Summary renders the projection as short display lines.
func (p Projection) Summary() string {
	var b strings.Builder
	if p.HasDocument {
		fmt.Fprintf(&b, "Document: %s (%s, id %s)\n", p.Document.Filename, strings.ToUpper(string(p.Document.Kind)), p.Document.ID)
		if len(p.Document.ExtractedCaseNumbers) > 0 {
			fmt.Fprintf(&b, "Case numbers: %s\n", strings.Join(p.Document.ExtractedCaseNumbers, ", "))
		}
		if len(p.Document.ExtractedDates) > 0 {
			fmt.Fprintf(&b, "Dates: %s\n", strings.Join(p.Document.ExtractedDates, ", "))
		}
	} else {
		b.WriteString("No document uploaded\n")
	}
	switch p.Phase {
	case PhaseUploading:
		fmt.Fprintf(&b, "Uploading %s...\n", p.Uploading)
	case PhaseFailed:
		fmt.Fprintf(&b, "Last upload failed: %s\n", p.Notice)
	}
	return b.String()
}
