package repository

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildNewsItemAnalysisPromptTruncatesOnRuneBoundary(t *testing.T) {
	content := strings.Repeat("市", 2100)
	prompt := BuildNewsItemAnalysisPrompt("title", content)

	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, strings.Repeat("市", 2000))
	assert.NotContains(t, prompt, strings.Repeat("市", 2001))
}

func TestBuildNewsItemAnalysisPromptKeepsShortContent(t *testing.T) {
	prompt := BuildNewsItemAnalysisPrompt("Apple beats estimates", "short body")

	assert.Contains(t, prompt, "Title: Apple beats estimates")
	assert.Contains(t, prompt, "Content: short body")
}
