package client

import (
	"github.com/dharsanguruparan/docchat/internal/model"
)

// Analysis is the optional metadata the backend extracts from a document.
type Analysis struct {
	CaseNumbers []string `json:"case_numbers"`
	Dates       []string `json:"dates"`
}

// DocumentSummary is one entry of the document-status listing.
type DocumentSummary struct {
	DocumentID   string    `json:"document_id" validate:"required"`
	DocumentName string    `json:"document_name"`
	DocumentType string    `json:"document_type" validate:"required,oneof=pdf csv"`
	Analysis     *Analysis `json:"analysis,omitempty"`
}

// StatusResponse is the body of GET document-status.
type StatusResponse struct {
	HasDocuments  bool              `json:"hasDocuments"`
	Message       string            `json:"message"`
	DocumentCount int               `json:"documentCount" validate:"gte=0"`
	Documents     []DocumentSummary `json:"documents" validate:"dive"`
}

// UploadResponse is the success body of POST upload-document.
type UploadResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	DocumentID   string    `json:"document_id" validate:"required"`
	DocumentName string    `json:"document_name"`
	DocumentType string    `json:"document_type" validate:"required,oneof=pdf csv"`
	Analysis     *Analysis `json:"analysis,omitempty"`
}

// ChatRequest is the JSON body of POST rag-chat.
type ChatRequest struct {
	UserMessage string `json:"user_message"`
	APIKey      string `json:"api_key"`
	Model       string `json:"model,omitempty"`
}

// DirectChatRequest is the JSON body of POST chat.
type DirectChatRequest struct {
	DeveloperMessage string `json:"developer_message"`
	UserMessage      string `json:"user_message"`
	APIKey           string `json:"api_key"`
	Model            string `json:"model,omitempty"`
}

type errorBody struct {
	Detail any `json:"detail"`
}

// Descriptor converts a validated upload response. fallbackName is used when
// the server omits document_name.
func (r UploadResponse) Descriptor(fallbackName string) model.DocumentDescriptor {
	return describe(r.DocumentID, r.DocumentName, r.DocumentType, r.Analysis, fallbackName)
}

// Descriptor converts a validated status entry.
func (s DocumentSummary) Descriptor() model.DocumentDescriptor {
	return describe(s.DocumentID, s.DocumentName, s.DocumentType, s.Analysis, s.DocumentID)
}

func describe(id, name, kind string, analysis *Analysis, fallbackName string) model.DocumentDescriptor {
	if name == "" {
		name = fallbackName
	}
	d := model.DocumentDescriptor{
		ID:                   id,
		Filename:             name,
		Kind:                 model.DocumentKind(kind),
		ExtractedCaseNumbers: []string{},
		ExtractedDates:       []string{},
	}
	if analysis != nil {
		d.ExtractedCaseNumbers = append(d.ExtractedCaseNumbers, analysis.CaseNumbers...)
		d.ExtractedDates = append(d.ExtractedDates, analysis.Dates...)
	}
	return d
}
