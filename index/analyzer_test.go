package index

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	t.Run("strips diacritics", func(t *testing.T) {
		assert.Equal(t, "ky su phan mem", Fold("Kỹ sư phần mềm"))
	})

	t.Run("folds d-bar", func(t *testing.T) {
		assert.Equal(t, "da nang", Fold("Đà Nẵng"))
	})

	t.Run("lowercases ascii", func(t *testing.T) {
		assert.Equal(t, "backend developer", Fold("Backend Developer"))
	})

	t.Run("idempotent on folded input", func(t *testing.T) {
		assert.Equal(t, "lap trinh vien", Fold("lap trinh vien"))
	})
}

func TestAnalyzerTokens(t *testing.T) {
	a := NewAnalyzer(nil)

	t.Run("accented and unaccented queries tokenize identically", func(t *testing.T) {
		assert.Equal(t, a.Tokens("Kỹ sư phần mềm"), a.Tokens("ky su phan mem"))
	})

	t.Run("splits on punctuation", func(t *testing.T) {
		assert.Equal(t, []string{"golang", "postgresql", "docker"}, a.Tokens("Golang, PostgreSQL/Docker"))
	})

	t.Run("drops stop words", func(t *testing.T) {
		assert.Equal(t, []string{"tuyen", "lap", "trinh", "vien"}, a.Tokens("tuyển các lập trình viên"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, a.Tokens(""))
	})

	t.Run("keeps duplicates for term frequency", func(t *testing.T) {
		assert.Len(t, a.Tokens("go go go"), 3)
	})
}

func TestAnalyzerTerms(t *testing.T) {
	a := NewAnalyzer(map[string]float64{"title": 3.0, "description": 1.0})

	doc := &Document{
		Id: 1,
		Text: map[string]string{
			"title":       "Backend Developer",
			"description": "We need a backend developer with Go experience",
		},
	}

	terms := a.Terms(doc)

	// "backend" appears once in the title (weight 3) and once in the
	// description (weight 1).
	assert.InDelta(t, 4.0, terms["backend"], 1e-9)
	assert.InDelta(t, 1.0, terms["go"], 1e-9)
	assert.NotContains(t, terms, "a") // stop word
}

func TestAnalyzerTermsCapsPathologicalDocuments(t *testing.T) {
	a := NewAnalyzer(map[string]float64{"title": 3.0, "description": 1.0})

	var sb strings.Builder
	for i := 0; i < maxDocTerms+500; i++ {
		fmt.Fprintf(&sb, "tok%d ", i)
	}
	doc := &Document{
		Id: 1,
		Text: map[string]string{
			"title":       "Backend Developer",
			"description": sb.String(),
		},
	}

	terms := a.Terms(doc)
	assert.Len(t, terms, maxDocTerms)
	// Highest-weighted terms survive the cap.
	assert.InDelta(t, 3.0, terms["backend"], 1e-9)
	assert.InDelta(t, 3.0, terms["developer"], 1e-9)

	// The surviving set is the same on every run, so deleting a stored
	// document removes exactly the postings that were written.
	again := a.Terms(doc)
	assert.Equal(t, terms, again)
}

func TestAnalyzerWeight(t *testing.T) {
	a := NewAnalyzer(map[string]float64{"title": 2.5})

	assert.InDelta(t, 2.5, a.Weight("title"), 1e-9)
	assert.InDelta(t, 1.0, a.Weight("unknown"), 1e-9)
}
