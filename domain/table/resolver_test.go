package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveExactMatchWinsInOrder(t *testing.T) {
	headers := []string{"City ", "city_name"}

	actual, ok := Resolve(headers, "city")
	assert.True(t, ok)
	assert.Equal(t, "City ", actual, "first exact normalized match should win")
}

func TestResolveSubstringFallback(t *testing.T) {
	headers := []string{"brokered_by", "house_size_sqft"}

	actual, ok := Resolve(headers, "house_size")
	assert.True(t, ok)
	assert.Equal(t, "house_size_sqft", actual)
}

func TestResolveUnderscoreMismatchStaysNotFound(t *testing.T) {
	// "zip_code" is not a substring of "zipcode_full"; the resolver does
	// not bridge punctuation differences.
	_, ok := Resolve([]string{"zipcode_full"}, "zip_code")
	assert.False(t, ok)
}

func TestResolveNotFound(t *testing.T) {
	_, ok := Resolve([]string{"town"}, "city")
	assert.False(t, ok)
}

func TestResolveIsIdempotent(t *testing.T) {
	headers := []string{"  PRICE ", "price_per_sqft"}

	first, ok1 := Resolve(headers, "price")
	second, ok2 := Resolve(headers, "price")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, "  PRICE ", first)
}

func TestResolveCaseAndWhitespace(t *testing.T) {
	headers := []string{" ZIP Code ", "State"}

	actual, ok := Resolve(headers, "zip code")
	assert.True(t, ok)
	assert.Equal(t, " ZIP Code ", actual)

	actual, ok = Resolve(headers, "state")
	assert.True(t, ok)
	assert.Equal(t, "State", actual)
}

func TestNewMapping(t *testing.T) {
	headers := []string{"brokered_by", "Price", "acre_lot", "City", "house_size", "street", "zip_code", "state"}

	m := NewMapping(headers, LogicalColumns())

	assert.True(t, m.Has(ColPrice, ColCity, ColZipCode))
	actual, ok := m.Lookup(ColPrice)
	assert.True(t, ok)
	assert.Equal(t, "Price", actual)
}

func TestMappingRequireMissing(t *testing.T) {
	m := NewMapping([]string{"town"}, LogicalColumns())

	_, err := m.Require(ColPrice)
	assert.Error(t, err)
	assert.False(t, m.Has(ColPrice))
}
