package stubserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFindsCaseNumbersAndDates(t *testing.T) {
	text := "Case 12-345 was filed on 2024-01-15. Appeal 2023-CV-01234 heard March 3, 2024 and again on 4/5/2024. Case 12-345 remains open."
	caseNumbers, dates := analyze(text)
	assert.Equal(t, []string{"12-345", "2023-CV-01234"}, caseNumbers)
	assert.Equal(t, []string{"2024-01-15", "March 3, 2024", "4/5/2024"}, dates)
}

func TestAnalyzeEmpty(t *testing.T) {
	caseNumbers, dates := analyze("")
	assert.NotNil(t, caseNumbers)
	assert.Empty(t, caseNumbers)
	assert.NotNil(t, dates)
	assert.Empty(t, dates)
}

func TestSplitOverlapsWindows(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := split(text, 1000, 200)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 900)

	assert.Nil(t, split("   ", 1000, 200))
	assert.Equal(t, []string{"short"}, split("short", 1000, 200))
}

func TestCSVText(t *testing.T) {
	data := []byte("case,filed\n12-345,2024-01-15\n99-001\n")
	text, err := csvText(data)
	require.NoError(t, err)
	assert.Equal(t, "case: 12-345, filed: 2024-01-15\ncase: 99-001\n", text)

	text, err = csvText(nil)
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = csvText([]byte("a,\"b\n1,2\n"))
	assert.Error(t, err)
}

func TestRetrieveRanksByKeywordHits(t *testing.T) {
	chunks := []string{
		"general background on the parties",
		"the settlement amount was agreed",
		"settlement terms: the settlement is final",
		"unrelated appendix",
	}
	got := retrieve(chunks, "What is the settlement?", 3)
	assert.Equal(t, []string{chunks[2], chunks[1], chunks[0]}, got)

	assert.Len(t, retrieve(chunks[:2], "anything", 3), 2)
	assert.Empty(t, retrieve(nil, "anything", 3))
}

func TestKeywordsDropStopWords(t *testing.T) {
	assert.Equal(t, []string{"case", "number", "12-345"}, keywords("What is the case number? Is it 12-345? The case!"))
}
