package model

// DocumentDescriptor summarizes the single document currently known to the
// client. It is created from a successful upload response and replaced, never
// mutated, by the next one.
type DocumentDescriptor struct {
	ID                   string       `json:"id"`
	Filename             string       `json:"filename"`
	Kind                 DocumentKind `json:"kind"`
	ExtractedCaseNumbers []string     `json:"extractedCaseNumbers"`
	ExtractedDates       []string     `json:"extractedDates"`
}

// Complete reports whether every required field is populated.
func (d DocumentDescriptor) Complete() bool {
	return d.ID != "" && d.Filename != "" && d.Kind.Valid()
}

// Clone returns a deep copy so callers cannot alias the metadata slices.
func (d DocumentDescriptor) Clone() DocumentDescriptor {
	out := d
	out.ExtractedCaseNumbers = append([]string{}, d.ExtractedCaseNumbers...)
	out.ExtractedDates = append([]string{}, d.ExtractedDates...)
	return out
}

// Credential is the opaque key supplied by the user. It lives only in memory
// and is attached to every upload and chat request.
type Credential string

// Present reports whether the credential is non-empty. The value is sent
// as typed; the backend decides whether it is valid.
func (c Credential) Present() bool {
	return c != ""
}

// String masks the value so credentials never end up in logs by accident.
func (c Credential) String() string {
	if c == "" {
		return ""
	}
	return "****"
}

// Value returns the raw credential for request construction.
func (c Credential) Value() string {
	return string(c)
}
