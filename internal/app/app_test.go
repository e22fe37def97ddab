package app

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/config"
	"github.com/dharsanguruparan/docchat/internal/model"
	"github.com/dharsanguruparan/docchat/internal/selection"
	"github.com/dharsanguruparan/docchat/internal/stubserver"
)

func newContainer(t *testing.T) *Container {
	t.Helper()
	ts := httptest.NewServer(stubserver.New(stubserver.Options{}, nil).Handler())
	t.Cleanup(ts.Close)
	return NewContainer(&config.Config{BaseURL: ts.URL + "/api", APIKey: "sk-test"}, nil)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeedWithEmptyBackend(t *testing.T) {
	c := newContainer(t)
	loaded, err := c.Seed(t.Context())
	require.NoError(t, err)
	assert.False(t, loaded)
	_, ok := c.Documents.Current()
	assert.False(t, ok)
}

func TestSeedPicksLatestDocument(t *testing.T) {
	c := newContainer(t)
	_, err := c.UploadPath(t.Context(), writeFile(t, "first.csv", "case\n12-345\n"), c.Credential())
	require.NoError(t, err)
	_, err = c.UploadPath(t.Context(), writeFile(t, "second.csv", "case\n99-001\n"), c.Credential())
	require.NoError(t, err)

	fresh := NewContainer(c.Config, nil)
	loaded, err := fresh.Seed(t.Context())
	require.NoError(t, err)
	assert.True(t, loaded)
	doc, ok := fresh.Documents.Current()
	require.True(t, ok)
	assert.Equal(t, "second.csv", doc.Filename)
	assert.Equal(t, []string{"99-001"}, doc.ExtractedCaseNumbers)
}

func TestSeedBestEffortSurvivesUnreachableBackend(t *testing.T) {
	ts := httptest.NewServer(stubserver.New(stubserver.Options{}, nil).Handler())
	url := ts.URL + "/api"
	ts.Close()

	c := NewContainer(&config.Config{BaseURL: url}, nil)
	_, err := c.Seed(t.Context())
	assert.True(t, apperr.Is(err, apperr.KindNetwork))
	c.SeedBestEffort(t.Context())
	_, ok := c.Documents.Current()
	assert.False(t, ok)
}

func TestUploadPathDiscardsSelectionOnSuccess(t *testing.T) {
	c := newContainer(t)
	desc, err := c.UploadPath(t.Context(), writeFile(t, "cases.csv", "case,filed\n12-345,2024-01-15\n"), c.Credential())
	require.NoError(t, err)
	assert.Equal(t, model.KindCSV, desc.Kind)
	assert.Equal(t, selection.StateEmpty, c.Selection.Snapshot().State)
}

func TestUploadPathKeepsRejectedSelection(t *testing.T) {
	c := newContainer(t)
	_, err := c.UploadPath(t.Context(), writeFile(t, "notes.txt", "hello"), c.Credential())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	snap := c.Selection.Snapshot()
	assert.Equal(t, selection.StateRejected, snap.State)
	assert.Equal(t, "Only PDF and CSV files are supported.", snap.Notice)
}

func TestUploadPathMissingFile(t *testing.T) {
	c := newContainer(t)
	_, err := c.UploadPath(t.Context(), filepath.Join(t.TempDir(), "missing.pdf"), c.Credential())
	assert.Error(t, err)
	assert.Equal(t, selection.StateEmpty, c.Selection.Snapshot().State)
}
