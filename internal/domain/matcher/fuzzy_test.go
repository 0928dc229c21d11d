package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgermatch/ledgermatch/internal/domain/model"
)

func TestNewFuzzyStringMatcher_ValidatesThreshold(t *testing.T) {
	_, err := NewFuzzyStringMatcher(101)
	assert.Error(t, err)

	_, err = NewFuzzyStringMatcher(-1)
	assert.Error(t, err)

	m, err := NewFuzzyStringMatcher(85)
	require.NoError(t, err)
	assert.Equal(t, 85.0, m.MinSimilarity)
}

func TestFuzzyStringMatcher_IdenticalTextAfterNormalization(t *testing.T) {
	// Arrange
	m, err := NewFuzzyStringMatcher(85)
	require.NoError(t, err)
	tx := makeTransaction("100.00", 15, "ACME Corp: Invoice-12345")
	candidates := []*model.Payment{makePayment("p1", "100.00", 15, "acme corp invoice 12345")}

	// Act
	results, err := m.Match(tx, candidates)

	// Assert
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.95, results[0].Confidence.Float64())
	assert.Equal(t, MatchTypeFuzzy, results[0].Type)
	assert.Contains(t, results[0].MatchedFields, "description")
	assert.Contains(t, results[0].Reason, "description")
}

func TestFuzzyStringMatcher_NearMatch(t *testing.T) {
	// Three digit substitutions over 24 characters land in the 85-90 band.
	m, err := NewFuzzyStringMatcher(85)
	require.NoError(t, err)
	tx := makeTransaction("100.00", 15, "payment for invoice 9871")
	candidates := []*model.Payment{makePayment("p1", "100.00", 15, "payment for invoice 9999")}

	results, err := m.Match(tx, candidates)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.85, results[0].Confidence.Float64())
}

func TestFuzzyStringMatcher_BelowThreshold_Dropped(t *testing.T) {
	m, err := NewFuzzyStringMatcher(85)
	require.NoError(t, err)
	tx := makeTransaction("100.00", 15, "BONIFICO MARIO ROSSI")
	candidates := []*model.Payment{makePayment("p1", "100.00", 15, "utility bill december")}

	results, err := m.Match(tx, candidates)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFuzzyStringMatcher_AmountPreFilter(t *testing.T) {
	// Text is identical but the amount gap exceeds the 5% tolerance, so
	// the candidate never reaches text scoring.
	m, err := NewFuzzyStringMatcher(85)
	require.NoError(t, err)
	tx := makeTransaction("100.00", 15, "acme corp invoice 12345")
	candidates := []*model.Payment{makePayment("p1", "150.00", 15, "acme corp invoice 12345")}

	results, err := m.Match(tx, candidates)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFuzzyStringMatcher_DatePreFilter(t *testing.T) {
	m, err := NewFuzzyStringMatcher(85)
	require.NoError(t, err)
	tx := makeTransaction("100.00", 1, "acme corp invoice 12345")
	candidates := []*model.Payment{makePayment("p1", "100.00", 20, "acme corp invoice 12345")} // 19 days

	results, err := m.Match(tx, candidates)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFuzzyStringMatcher_BestFieldWins(t *testing.T) {
	m, err := NewFuzzyStringMatcher(85)
	require.NoError(t, err)
	tx := makeTransaction("100.00", 15, "unrelated bank wording")
	tx.Reference = "acme corp invoice 12345"
	candidates := []*model.Payment{makePayment("p1", "100.00", 15, "acme corp invoice 12345")}

	results, err := m.Match(tx, candidates)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Reason, "reference")
	assert.Equal(t, []string{"reference"}, results[0].MatchedFields)
}

func TestFuzzyStringMatcher_NoTextFields(t *testing.T) {
	m, err := NewFuzzyStringMatcher(85)
	require.NoError(t, err)
	tx := makeTransaction("100.00", 15, "")
	candidates := []*model.Payment{makePayment("p1", "100.00", 15, "acme corp invoice 12345")}

	results, err := m.Match(tx, candidates)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "bonifico mario rossi", normalizeText("BONIFICO: Mario-Rossi!!"))
	assert.Equal(t, "a b c", normalizeText("  a   b\t c  "))
	assert.Equal(t, "", normalizeText("...!!!"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, similarity("same text", "same text"))
	assert.Equal(t, 0.0, similarity("", "anything"))
	assert.Greater(t, similarity("invoice 12345", "invoice 12346"), 85.0)
}
