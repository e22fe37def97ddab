package stubserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/client"
	"github.com/dharsanguruparan/docchat/internal/filecheck"
	"github.com/dharsanguruparan/docchat/internal/model"
)

// maxUploadBody bounds the whole multipart body: the largest per-kind
// ceiling plus room for headers and the api_key field.
const maxUploadBody = filecheck.MaxCSVBytes + 1<<20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	docs := s.index.List()
	resp := client.StatusResponse{
		HasDocuments:  len(docs) > 0,
		Message:       "No documents uploaded",
		DocumentCount: len(docs),
		Documents:     make([]client.DocumentSummary, 0, len(docs)),
	}
	if len(docs) > 0 {
		resp.Message = fmt.Sprintf("%d document(s) ready for chat. Latest: %s", len(docs), docs[len(docs)-1].Name)
	}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, summarize(d))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	mr, err := r.MultipartReader()
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Expecting a multipart form.")
		return
	}
	form, err := readUploadForm(mr)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondDetail(w, http.StatusRequestEntityTooLarge, "File too large.")
			return
		}
		respondDetail(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}
	if form.name == "" {
		respondDetail(w, http.StatusBadRequest, "Missing file part.")
		return
	}
	if strings.TrimSpace(form.apiKey) == "" {
		respondDetail(w, http.StatusBadRequest, "API key is required.")
		return
	}
	if len(form.data) == 0 {
		respondDetail(w, http.StatusBadRequest, "Uploaded file is empty.")
		return
	}
	verdict := filecheck.Validate(model.PendingFromBytes(form.name, form.data))
	if !verdict.Accepted {
		status := http.StatusBadRequest
		if verdict.Reason == filecheck.ReasonTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		respondDetail(w, status, apperr.Message(verdict.Err()))
		return
	}

	text, err := extractText(verdict.Kind, form.data)
	if err != nil {
		s.log.Warn("extract failed", zap.String("name", form.name), zap.Error(err))
		respondDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("Error processing %s: %v", strings.ToUpper(string(verdict.Kind)), err))
		return
	}
	caseNumbers, dates := analyze(text)
	doc := &Document{
		ID:          uuid.NewString(),
		Name:        form.name,
		Kind:        verdict.Kind,
		Size:        int64(len(form.data)),
		Chunks:      split(text, chunkSize, chunkOverlap),
		CaseNumbers: caseNumbers,
		Dates:       dates,
	}
	s.index.Save(doc)
	s.log.Info("document processed",
		zap.String("document_id", doc.ID),
		zap.String("name", doc.Name),
		zap.Int("chunks", len(doc.Chunks)),
	)
	respondJSON(w, http.StatusOK, client.UploadResponse{
		Success:      true,
		Message:      fmt.Sprintf("%s '%s' uploaded and processed successfully. %d chunks created.", strings.ToUpper(string(doc.Kind)), doc.Name, len(doc.Chunks)),
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		DocumentType: string(doc.Kind),
		Analysis:     &client.Analysis{CaseNumbers: doc.CaseNumbers, Dates: doc.Dates},
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req client.ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid chat request.")
		return
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		respondDetail(w, http.StatusBadRequest, "Message is required.")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		respondDetail(w, http.StatusBadRequest, "API key is required.")
		return
	}
	doc, err := s.index.Latest()
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "No document uploaded. Please upload a document first.")
		return
	}

	s.streamReply(w, r, compose(doc, req.UserMessage))
}

// handleDirectChat answers without any document. There is no language model
// behind the stub, so the reply restates the instructions and the question.
func (s *Server) handleDirectChat(w http.ResponseWriter, r *http.Request) {
	var req client.DirectChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid chat request.")
		return
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		respondDetail(w, http.StatusBadRequest, "Message is required.")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		respondDetail(w, http.StatusBadRequest, "API key is required.")
		return
	}

	var b strings.Builder
	if dev := strings.Join(strings.Fields(req.DeveloperMessage), " "); dev != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", dev)
	}
	fmt.Fprintf(&b, "You asked: %s\n", strings.Join(strings.Fields(req.UserMessage), " "))
	b.WriteString("This development backend has no language model, so no answer was generated.")
	s.streamReply(w, r, b.String())
}

// streamReply writes reply word by word, flushing after each one and pausing
// StreamDelay between words.
func (s *Server) streamReply(w http.ResponseWriter, r *http.Request, reply string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	ctx := r.Context()
	for _, word := range strings.SplitAfter(reply, " ") {
		if _, err := io.WriteString(w, word); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		if s.opts.StreamDelay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.opts.StreamDelay):
		}
	}
}

// compose builds the reply for question from the passages of doc that best
// match it.
func compose(doc *Document, question string) string {
	passages := retrieve(doc.Chunks, question, topK)
	if len(passages) == 0 {
		return fmt.Sprintf("I cannot find the answer to your question in %s: the document has no readable text.", doc.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From %s, the most relevant passages are:\n", doc.Name)
	for i, p := range passages {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, strings.Join(strings.Fields(p), " "))
	}
	if len(doc.CaseNumbers) > 0 {
		fmt.Fprintf(&b, "\nCase numbers found: %s.", strings.Join(doc.CaseNumbers, ", "))
	}
	if len(doc.Dates) > 0 {
		fmt.Fprintf(&b, "\nDates found: %s.", strings.Join(doc.Dates, ", "))
	}
	return b.String()
}

type uploadForm struct {
	name   string
	data   []byte
	apiKey string
}

func readUploadForm(mr *multipart.Reader) (*uploadForm, error) {
	form := &uploadForm{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return nil, err
		}
		switch part.FormName() {
		case "file":
			form.name = part.FileName()
			if form.name == "" {
				form.name = "upload"
			}
			form.data, err = readPart(part)
		case "api_key":
			var raw []byte
			raw, err = io.ReadAll(io.LimitReader(part, 4<<10))
			form.apiKey = string(raw)
		}
		part.Close()
		if err != nil {
			return nil, err
		}
	}
}

// readPart copies a file part into memory with a reused 32 KiB buffer.
func readPart(part *multipart.Part) ([]byte, error) {
	var data []byte
	buf := make([]byte, 32*1024)
	for {
		n, readErr := part.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return data, nil
			}
			return nil, readErr
		}
	}
}

func summarize(d *Document) client.DocumentSummary {
	return client.DocumentSummary{
		DocumentID:   d.ID,
		DocumentName: d.Name,
		DocumentType: string(d.Kind),
		Analysis:     &client.Analysis{CaseNumbers: d.CaseNumbers, Dates: d.Dates},
	}
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
