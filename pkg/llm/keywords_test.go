package llm

import (
	"context"
	"testing"

	"stash/config"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"calculus", "limits", "derivatives"},
		ParseTags("#Calculus #limits,#derivatives #calculus"))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ParseTags("#a #b #c #d #e #f"))
	assert.Empty(t, ParseTags("no tags here"))
}

func TestDisabledClient(t *testing.T) {
	c := NewClient(&config.LLMConfig{})
	assert.Nil(t, c.SuggestKeywords(context.Background(), "Linear Algebra", "eigenvalues"))
}
