package stubserver

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dharsanguruparan/docchat/internal/model"
	pdfutil "github.com/dharsanguruparan/docchat/internal/pdf"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
	topK         = 3
)

var (
	caseNumberPattern = regexp.MustCompile(`\b\d{1,4}-(?:[A-Z]{2,4}-)?\d{3,6}\b`)
	datePattern       = regexp.MustCompile(`\b(?:\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.? \d{1,2}, \d{4})\b`)
)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true, "what": true,
	"who": true, "when": true, "where": true, "which": true, "this": true, "that": true,
	"with": true, "from": true, "does": true, "have": true, "has": true, "how": true,
	"is": true, "of": true, "a": true, "an": true, "in": true, "on": true, "to": true,
	"it": true, "be": true, "or": true, "as": true, "at": true, "by": true, "do": true,
}

// extractText turns an upload into plain text according to its kind.
func extractText(kind model.DocumentKind, data []byte) (string, error) {
	switch kind {
	case model.KindPDF:
		return pdfutil.ExtractText(data)
	case model.KindCSV:
		return csvText(data)
	}
	return "", fmt.Errorf("unsupported kind %q", kind)
}

// csvText renders every data row as "header: value" pairs, one row per line.
func csvText(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err == io.EOF {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read csv header: %w", err)
	}
	var b strings.Builder
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read csv row: %w", err)
		}
		pairs := make([]string, 0, len(record))
		for i, value := range record {
			name := fmt.Sprintf("column %d", i+1)
			if i < len(header) && header[i] != "" {
				name = header[i]
			}
			pairs = append(pairs, name+": "+value)
		}
		b.WriteString(strings.Join(pairs, ", "))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// analyze pulls case numbers and dates out of text, in order of first
// appearance and without duplicates.
func analyze(text string) (caseNumbers, dates []string) {
	dates = unique(datePattern.FindAllString(text, -1))
	caseNumbers = unique(caseNumberPattern.FindAllString(text, -1))
	return caseNumbers, dates
}

func unique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// split cuts text into windows of size runes that overlap by overlap runes.
func split(text string, size, overlap int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// retrieve ranks chunks by how often they mention the question's keywords
// and returns up to k of them. Ties keep document order.
func retrieve(chunks []string, question string, k int) []string {
	terms := keywords(question)
	type scored struct {
		index int
		score int
	}
	ranked := make([]scored, len(chunks))
	for i, chunk := range chunks {
		lower := strings.ToLower(chunk)
		score := 0
		for _, term := range terms {
			score += strings.Count(lower, term)
		}
		ranked[i] = scored{index: i, score: score}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, chunks[r.index])
	}
	return out
}

func keywords(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '/'
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		terms = append(terms, f)
	}
	return unique(terms)
}
