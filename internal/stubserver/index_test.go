package stubserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/docchat/internal/model"
)

func TestIndexOrdersByUpload(t *testing.T) {
	ix := NewIndex(0)
	_, err := ix.Latest()
	assert.ErrorIs(t, err, ErrNotFound)

	ix.Save(&Document{ID: "b", Name: "first.pdf", Kind: model.KindPDF})
	ix.Save(&Document{ID: "a", Name: "second.csv", Kind: model.KindCSV})

	docs := ix.List()
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
	assert.False(t, docs[0].CreatedAt.IsZero())

	latest, err := ix.Latest()
	require.NoError(t, err)
	assert.Equal(t, "second.csv", latest.Name)
}

func TestIndexListReturnsCopies(t *testing.T) {
	ix := NewIndex(0)
	ix.Save(&Document{ID: "doc", Name: "contract.pdf", Chunks: []string{"a"}})
	got := ix.List()
	require.Len(t, got, 1)
	got[0].Name = "changed"

	latest, err := ix.Latest()
	require.NoError(t, err)
	assert.Equal(t, "contract.pdf", latest.Name)
}

func TestIndexExpiresDocuments(t *testing.T) {
	ix := NewIndex(20 * time.Millisecond)
	ix.Save(&Document{ID: "doc"})
	assert.Eventually(t, func() bool {
		_, err := ix.Latest()
		return err != nil
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, ix.List())
}
