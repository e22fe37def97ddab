package pdfutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/docchat/internal/pdf/pdftest"
)

func TestInspectReadsPagesAndText(t *testing.T) {
	data := pdftest.Document("Case 12-345 was filed", "Hearing on 2024-01-15")
	info, err := Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
	assert.Contains(t, info.Text, "Case 12-345 was filed")
	assert.Contains(t, info.Text, "Hearing on 2024-01-15")
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText(pdftest.Document("hello contract"))
	require.NoError(t, err)
	assert.Contains(t, text, "hello contract")
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "short", text: "a  b\n c", limit: 10, want: "a b c"},
		{name: "cut", text: "alpha beta gamma", limit: 10, want: "alpha beta…"},
		{name: "no limit", text: "alpha\tbeta", limit: 0, want: "alpha beta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.text, tt.limit))
		})
	}
}
