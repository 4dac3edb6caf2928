package trending

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors matching the trending page structure. A listing lives in one
// article.Box-row; field lookups inside it are optional, the container list
// is not.
const (
	listingSelector     = "article.Box-row"
	nameSelector        = "h2 a"
	descriptionSelector = "p"
	languageSelector    = "span[itemprop='programmingLanguage']"
	starsSelector       = "a[href$='/stargazers']"
)

// Extractor turns the trending page HTML into an ordered entry list.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and returns one Entry per listing, in document order.
// A listing missing description, language or stars still produces an entry
// with the field empty; a listing without a repository name is skipped.
// Zero listing containers means the page layout no longer matches and yields
// ErrStructureMismatch, never an empty success.
func (e *Extractor) Extract(html []byte) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	listings := doc.Find(listingSelector)
	if listings.Length() == 0 {
		return nil, ErrStructureMismatch
	}

	entries := make([]Entry, 0, listings.Length())
	listings.Each(func(_ int, listing *goquery.Selection) {
		name := repoName(listing)
		if name == "" {
			return
		}
		entries = append(entries, Entry{
			Name:        name,
			Description: strings.TrimSpace(listing.Find(descriptionSelector).First().Text()),
			Language:    strings.TrimSpace(listing.Find(languageSelector).First().Text()),
			Stars:       starCount(listing),
		})
	})
	return entries, nil
}

// repoName reads the owner/repo path from the listing's heading link.
func repoName(listing *goquery.Selection) string {
	href, ok := listing.Find(nameSelector).First().Attr("href")
	if !ok {
		return ""
	}
	return strings.Trim(strings.TrimSpace(href), "/")
}

// starCount returns the displayed star total with comma separators stripped.
// Stripping commas is the only normalization applied; abbreviated counts
// pass through as displayed.
func starCount(listing *goquery.Selection) string {
	text := strings.TrimSpace(listing.Find(starsSelector).First().Text())
	if text == "" {
		return "0"
	}
	return strings.ReplaceAll(text, ",", "")
}
