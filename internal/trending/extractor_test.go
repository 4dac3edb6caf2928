package trending

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTrendingHTML = `
<html><body>
<article class="Box-row">
  <h2><a href="/torvalds/linux">torvalds/linux</a></h2>
  <p>Linux kernel source tree</p>
  <span itemprop="programmingLanguage">C</span>
  <a href="/torvalds/linux/stargazers">160,000</a>
</article>
<article class="Box-row">
  <h2><a href="/microsoft/vscode">microsoft/vscode</a></h2>
  <p>Visual Studio Code</p>
  <span itemprop="programmingLanguage">TypeScript</span>
  <a href="/microsoft/vscode/stargazers">120,000</a>
</article>
</body></html>
`

func TestExtractSampleFixture(t *testing.T) {
	entries, err := NewExtractor().Extract([]byte(sampleTrendingHTML))
	require.NoError(t, err)

	want := []Entry{
		{Name: "torvalds/linux", Description: "Linux kernel source tree", Language: "C", Stars: "160000"},
		{Name: "microsoft/vscode", Description: "Visual Studio Code", Language: "TypeScript", Stars: "120000"},
	}
	assert.Equal(t, want, entries)
}

func TestExtractPreservesDocumentOrder(t *testing.T) {
	const n = 25
	html := "<html><body>"
	for i := 0; i < n; i++ {
		html += fmt.Sprintf(`
<article class="Box-row">
  <h2><a href="/owner/repo-%d">owner/repo-%d</a></h2>
  <p>repo number %d</p>
</article>`, i, i, i)
	}
	html += "</body></html>"

	entries, err := NewExtractor().Extract([]byte(html))
	require.NoError(t, err)
	require.Len(t, entries, n)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("owner/repo-%d", i), entry.Name)
	}
}

func TestExtractToleratesMissingFields(t *testing.T) {
	html := `
<html><body>
<article class="Box-row">
  <h2><a href="/incomplete/repo">incomplete/repo</a></h2>
</article>
</body></html>`

	entries, err := NewExtractor().Extract([]byte(html))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{
		Name:        "incomplete/repo",
		Description: "",
		Language:    "",
		Stars:       "0",
	}, entries[0])
}

func TestExtractSkipsNamelessListing(t *testing.T) {
	html := `
<html><body>
<article class="Box-row">
  <p>listing with no heading link</p>
</article>
<article class="Box-row">
  <h2><a href="/real/repo">real/repo</a></h2>
</article>
</body></html>`

	entries, err := NewExtractor().Extract([]byte(html))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "real/repo", entries[0].Name)
}

func TestExtractZeroListingsIsStructureMismatch(t *testing.T) {
	for name, html := range map[string]string{
		"empty body":      "<html><body></body></html>",
		"changed layout":  `<html><body><div class="repo-card">torvalds/linux</div></body></html>`,
		"not html at all": "just some text",
	} {
		t.Run(name, func(t *testing.T) {
			entries, err := NewExtractor().Extract([]byte(html))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStructureMismatch), "got %v", err)
			assert.Nil(t, entries)
		})
	}
}

func TestExtractKeepsUnicodeDescriptions(t *testing.T) {
	html := `
<html><body>
<article class="Box-row">
  <h2><a href="/unicode/repo">unicode/repo</a></h2>
  <p>深度学习框架 — fást &amp; ライトウェイト 🚀</p>
  <span itemprop="programmingLanguage">Python</span>
  <a href="/unicode/repo/stargazers">1,234</a>
</article>
</body></html>`

	entries, err := NewExtractor().Extract([]byte(html))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "深度学习框架 — fást & ライトウェイト 🚀", entries[0].Description)
	assert.Equal(t, "1234", entries[0].Stars)
}
