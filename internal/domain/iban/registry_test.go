package iban

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ExampleRoundTrip(t *testing.T) {
	// Every cataloged example must detect as its own country, pass length
	// validation, and match its own pattern.
	for _, code := range SupportedCountries() {
		t.Run(code, func(t *testing.T) {
			example := ExampleFor(code)
			require.NotEmpty(t, example)

			assert.Equal(t, code, DetectCountry(example))
			assert.True(t, ValidateLength(example))

			format, ok := FormatFor(code)
			require.True(t, ok)
			assert.Equal(t, format.Length, len(example))
			assert.Regexp(t, "^(?:"+format.Pattern+")$", example)
		})
	}
}

func TestRegistry_SupportedCountries(t *testing.T) {
	codes := SupportedCountries()

	assert.Len(t, codes, 30)
	assert.IsIncreasing(t, codes)
	assert.Contains(t, codes, "DE")
	assert.Contains(t, codes, "MT") // longest at 31
	assert.Contains(t, codes, "NO") // shortest at 15
}

func TestRegistry_LengthBounds(t *testing.T) {
	for _, code := range SupportedCountries() {
		format, _ := FormatFor(code)
		assert.GreaterOrEqual(t, format.Length, 15, "country %s", code)
		assert.LessOrEqual(t, format.Length, 31, "country %s", code)
	}
}

func TestDetectCountry_Unknown(t *testing.T) {
	assert.Empty(t, DetectCountry("XX00123456789012"))
	assert.Empty(t, DetectCountry(""))
	assert.Empty(t, DetectCountry("D"))
}

func TestValidateLength(t *testing.T) {
	assert.True(t, ValidateLength("DE89370400440532013000"))
	assert.True(t, ValidateLength("de89 3704 0044 0532 0130 00")) // paper format
	assert.False(t, ValidateLength("DE8937040044053201300"))      // one short
	assert.False(t, ValidateLength("XX89370400440532013000"))     // unknown country
}

func TestCountryName(t *testing.T) {
	assert.Equal(t, "Germany", CountryName("DE89370400440532013000"))
	assert.Equal(t, "Malta", CountryName(ExampleFor("MT")))
	assert.Empty(t, CountryName("ZZ123"))
}

func TestCombinedPattern_MatchesAllExamples(t *testing.T) {
	re, err := regexp.Compile(CombinedPattern())
	require.NoError(t, err)

	for _, code := range SupportedCountries() {
		assert.True(t, re.MatchString(ExampleFor(code)), "country %s", code)
	}
}

func TestExtract(t *testing.T) {
	t.Run("finds IBAN embedded in free text", func(t *testing.T) {
		found := Extract("WIRE TRANSFER REF DE89370400440532013000 INVOICE 4711")

		require.Len(t, found, 1)
		assert.Equal(t, "DE89370400440532013000", found[0])
	})

	t.Run("handles paper-formatted IBAN", func(t *testing.T) {
		found := Extract("Payment from NL91 ABNA 0417 1643 00")

		require.Len(t, found, 1)
		assert.Equal(t, "NL91ABNA0417164300", found[0])
	})

	t.Run("finds multiple IBANs", func(t *testing.T) {
		found := Extract("from BE68539007547034 to FR1420041010050500013M02606")

		assert.Len(t, found, 2)
	})

	t.Run("no match on plain text", func(t *testing.T) {
		assert.Empty(t, Extract("BONIFICO MARIO ROSSI"))
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "DE89370400440532013000", Normalize("de89 3704 0044 0532 0130 00"))
	assert.Equal(t, "", Normalize(""))
}
