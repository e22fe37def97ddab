package docstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/docchat/internal/model"
)

func descriptor(id, name string) model.DocumentDescriptor {
	return model.DocumentDescriptor{
		ID:                   id,
		Filename:             name,
		Kind:                 model.KindPDF,
		ExtractedCaseNumbers: []string{"12-345"},
		ExtractedDates:       []string{"2024-01-02"},
	}
}

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore()
	_, ok := s.Current()
	assert.False(t, ok)
	p := s.Project()
	assert.False(t, p.HasDocument)
	assert.Equal(t, PhaseIdle, p.Phase)
	assert.Contains(t, p.Summary(), "No document uploaded")
}

func TestSetReplacesWholesale(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(descriptor("a", "first.pdf")))
	second := model.DocumentDescriptor{ID: "b", Filename: "second.csv", Kind: model.KindCSV}
	require.NoError(t, s.Set(second))

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)
	assert.Empty(t, got.ExtractedCaseNumbers, "no merge with the previous descriptor")
	assert.Equal(t, PhaseReady, s.Project().Phase)
}

func TestSetRejectsIncomplete(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(descriptor("a", "first.pdf")))
	err := s.Set(model.DocumentDescriptor{ID: "b", Kind: model.KindPDF})
	assert.ErrorIs(t, err, ErrIncomplete)
	got, _ := s.Current()
	assert.Equal(t, "a", got.ID)
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(descriptor("a", "first.pdf")))
	got, _ := s.Current()
	got.ExtractedCaseNumbers[0] = "tampered"
	again, _ := s.Current()
	assert.Equal(t, "12-345", again.ExtractedCaseNumbers[0])
}

func TestUploadPhases(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(descriptor("a", "first.pdf")))

	s.BeginUpload("next.pdf")
	p := s.Project()
	assert.Equal(t, PhaseUploading, p.Phase)
	assert.Equal(t, "next.pdf", p.Uploading)
	assert.True(t, p.HasDocument)

	s.FailUpload("Network error")
	p = s.Project()
	assert.Equal(t, PhaseFailed, p.Phase)
	assert.Equal(t, "a", p.Document.ID, "failure keeps prior descriptor")
	assert.Contains(t, p.Summary(), "Last upload failed: Network error")

	s.Clear()
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, PhaseIdle, s.Project().Phase)
}
