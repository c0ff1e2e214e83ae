package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dealhound/dealhound/pkg/deals"
	"github.com/dealhound/dealhound/pkg/feeds"
	"github.com/dealhound/dealhound/pkg/whttp"
)

// contentSelector matches the destination page's primary content region.
const contentSelector = "div.content-section"

// EntryFetchError means an entry's destination page could not be
// retrieved: a network failure or a non-success status.
type EntryFetchError struct {
	URL string
	Err error
}

func (e *EntryFetchError) Error() string {
	return "fetching page " + e.URL + ": " + e.Err.Error()
}

func (e *EntryFetchError) Unwrap() error { return e.Err }

// ContentNotFoundError means the destination page parsed fine but has no
// recognizable primary content region.
type ContentNotFoundError struct {
	URL string
}

func (e *ContentNotFoundError) Error() string {
	return "no content section found at " + e.URL
}

// Builder turns feed entries into fully populated deal records. Each
// Build issues exactly one page fetch and either succeeds completely or
// produces no record at all.
type Builder struct {
	client *whttp.Client
}

func NewBuilder(client *whttp.Client) *Builder {
	if client == nil {
		client = whttp.NewClient(whttp.DefaultTimeout)
	}
	return &Builder{client: client}
}

// Build fetches the entry's destination page, extracts the content
// section, and assembles the record. The category comes from the source
// feed's configuration, not from the entry itself.
func (b *Builder) Build(ctx context.Context, category string, entry feeds.Entry) (*deals.ScrapedDeal, error) {
	res, err := b.client.Get(ctx, entry.Link)
	if err != nil {
		return nil, &EntryFetchError{URL: entry.Link, Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &EntryFetchError{URL: entry.Link, Err: fmt.Errorf("unexpected status %d", res.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
	if err != nil {
		return nil, &EntryFetchError{URL: entry.Link, Err: err}
	}

	section := doc.Find(contentSelector).First()
	if section.Length() == 0 {
		return nil, &ContentNotFoundError{URL: entry.Link}
	}

	// The pages repeat a "\nmore" link artifact inside the content text.
	content := section.Text()
	content = strings.ReplaceAll(content, "\nmore", "")
	content = strings.ReplaceAll(content, "\n", " ")

	details, features := deals.SplitContent(content)

	return &deals.ScrapedDeal{
		Category: category,
		Title:    entry.Title,
		Summary:  deals.ExtractText(entry.Summary),
		URL:      entry.Link,
		Details:  strings.TrimSpace(details),
		Features: strings.TrimSpace(features),
	}, nil
}
