package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultListingURL is the public HTML page listing installable models.
// There is no JSON API for it; parsing is best-effort by contract.
const DefaultListingURL = "https://ollama.com/search"

// capabilityVocab is the known vocabulary of inline capability chips.
var capabilityVocab = map[string]bool{
	"vision":    true,
	"tools":     true,
	"thinking":  true,
	"embedding": true,
	"cloud":     true,
}

var (
	// Size tags look like "7b", "0.5b", "540m", optionally with an
	// "NxM" multiplier as in "8x7b".
	sizeRe = regexp.MustCompile(`(?i)^(\d+x)?\d+(\.\d+)?[bm]$`)

	// Loose proximity matches for the metadata line, e.g.
	// "285.9K Pulls  94 Tags  Updated 10 days ago".
	pullsRe   = regexp.MustCompile(`(?i)([\d.,]+[kmb]?)\s*pulls?\b`)
	tagsRe    = regexp.MustCompile(`(?i)([\d.,]+)\s*tags?\b`)
	updatedRe = regexp.MustCompile(`(?i)updated\s+([\w ,]+?ago|yesterday|today)`)
)

// Fetch downloads and parses the catalog listing page.
func Fetch(ctx context.Context, listingURL string) ([]Entry, error) {
	if listingURL == "" {
		listingURL = DefaultListingURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko)")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog page returned HTTP %d", resp.StatusCode)
	}

	return Parse(resp.Body)
}

// Parse extracts catalog entries from the listing HTML, in document
// order, deduplicated by name with the first occurrence winning. A
// malformed card is skipped; it never aborts the whole parse.
func Parse(r io.Reader) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse catalog HTML: %w", err)
	}

	var entries []Entry
	seen := make(map[string]bool)

	doc.Find("li").Each(func(_ int, card *goquery.Selection) {
		entry, ok := parseCard(card)
		if !ok || seen[entry.Name] {
			return
		}
		seen[entry.Name] = true
		entries = append(entries, entry)
	})

	return entries, nil
}

func parseCard(card *goquery.Selection) (Entry, bool) {
	anchor := card.Find(`a[href*="/library/"]`).First()
	if anchor.Length() == 0 {
		return Entry{}, false
	}
	href, _ := anchor.Attr("href")
	name := nameFromHref(href)
	if name == "" {
		return Entry{}, false
	}

	entry := Entry{Name: name}
	entry.Description = strings.TrimSpace(card.Find("p").First().Text())

	// Capability and size chips are short inline spans; anything not in
	// the chip vocabulary or the size lexicon is ignored.
	capSeen := make(map[string]bool)
	sizeSeen := make(map[string]bool)
	card.Find("span").Each(func(_ int, chip *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(chip.Text()))
		switch {
		case capabilityVocab[text] && !capSeen[text]:
			capSeen[text] = true
			entry.Capabilities = append(entry.Capabilities, text)
		case sizeRe.MatchString(text) && !sizeSeen[text]:
			sizeSeen[text] = true
			entry.Sizes = append(entry.Sizes, text)
		}
	})

	// Metadata via loose text proximity; misses yield empty fields.
	cardText := card.Text()
	if m := pullsRe.FindStringSubmatch(cardText); m != nil {
		entry.Pulls = m[1]
	}
	if m := tagsRe.FindStringSubmatch(cardText); m != nil {
		entry.TagCount = m[1]
	}
	if m := updatedRe.FindStringSubmatch(cardText); m != nil {
		entry.UpdatedAt = strings.TrimSpace(m[1])
	}

	return entry, true
}

// nameFromHref extracts the model name from an anchor like
// "/library/llama3" or "https://ollama.com/library/llama3:8b".
func nameFromHref(href string) string {
	idx := strings.Index(href, "/library/")
	if idx < 0 {
		return ""
	}
	name := href[idx+len("/library/"):]
	if cut := strings.IndexAny(name, "/?#"); cut >= 0 {
		name = name[:cut]
	}
	return strings.TrimSpace(name)
}
