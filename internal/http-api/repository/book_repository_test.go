package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		name string
		term string
		want string
	}{
		{"plain term", "Капитанская", "%Капитанская%"},
		{"author substring", "Макс", "%Макс%"},
		{"percent matches literally", "100%", `%100\%%`},
		{"underscore matches literally", "a_b", `%a\_b%`},
		{"backslash matches literally", `C:\books`, `%C:\\books%`},
		{"all metacharacters", `\%_`, `%\\\%\_%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchPattern(tt.term))
		})
	}
}

func TestSearchCondition(t *testing.T) {
	cond, args := SearchCondition("Макс")

	// Case-insensitive substring match against both display-name columns,
	// with a missing author name never matching.
	assert.Equal(t, `(books.name ILIKE ? ESCAPE '\' OR COALESCE(books.author_name,'') ILIKE ? ESCAPE '\')`, cond)
	assert.Equal(t, []interface{}{"%Макс%", "%Макс%"}, args)
}

func TestSearchConditionEscapesWildcards(t *testing.T) {
	_, args := SearchCondition("50%_off")

	require.Len(t, args, 2)
	assert.Equal(t, `%50\%\_off%`, args[0])
	assert.Equal(t, args[0], args[1])
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		ordering string
		want     string
	}{
		{"default is insertion order", "", "books.id ASC"},
		{"unknown field falls back", "owner__password", "books.id ASC"},
		{"price ties break by id", "price", "books.price ASC, books.id ASC"},
		{"descending price keeps id tiebreak ascending", "-price", "books.price DESC, books.id ASC"},
		{"name", "name", "books.name ASC, books.id ASC"},
		{"author descending", "-author_name", "books.author_name DESC, books.id ASC"},
		{"rating", "rating", "books.rating ASC, books.id ASC"},
		{"id has no duplicate tiebreak", "id", "books.id ASC"},
		{"reverse id", "-id", "books.id DESC"},
		{"aggregate alias annotate_likes", "annotate_likes", "annotate_likes ASC, books.id ASC"},
		{"aggregate alias rate", "-rate", "rate DESC, books.id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderClause(tt.ordering))
		})
	}
}
