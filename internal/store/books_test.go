package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Dune", "Dune"},
		{"$where;drop()", "wheredrop"},
		{"Crime e Castigo", "Crime e Castigo"},
		{"a$b;c(d)e", "abcde"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in))
	}
}

func TestSearchFilter(t *testing.T) {
	t.Parallel()

	// Empty term matches everything.
	assert.Equal(t, bson.M{}, searchFilter(""))

	filter := searchFilter("dune")
	or, ok := filter["$or"].(bson.A)
	assert.True(t, ok)
	assert.Len(t, or, 2)

	title := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, "dune", title.Pattern)
	assert.Equal(t, "i", title.Options)

	// Regex metacharacters in the term are matched literally.
	quoted := searchFilter("c++")
	or = quoted["$or"].(bson.A)
	author := or[1].(bson.M)["author"].(primitive.Regex)
	assert.Equal(t, `c\+\+`, author.Pattern)
}
