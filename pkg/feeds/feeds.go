package feeds

import (
	"context"

	"github.com/mmcdole/gofeed"

	"github.com/dealhound/dealhound/internal/utils"
)

// maxEntriesPerFeed bounds the work done per feed regardless of how many
// entries the remote side advertises.
const maxEntriesPerFeed = 10

// Entry is a typed view of one feed item, validated so downstream code
// never has to reach into loosely shaped feed structures.
type Entry struct {
	Title   string
	Summary string
	Link    string
}

// FeedFetchError means a feed URL could not be retrieved or parsed.
type FeedFetchError struct {
	FeedURL string
	Err     error
}

func (e *FeedFetchError) Error() string {
	return "fetching feed " + e.FeedURL + ": " + e.Err.Error()
}

func (e *FeedFetchError) Unwrap() error { return e.Err }

// MalformedEntryError means a single feed item is missing a required
// field. It is distinct from network and parse failures so broken items
// can be skipped without masking genuine fetch errors.
type MalformedEntryError struct {
	FeedURL string
	Index   int
	Reason  string
}

func (e *MalformedEntryError) Error() string {
	return "malformed entry in " + e.FeedURL + ": " + e.Reason
}

// Fetcher retrieves and parses RSS/Atom feeds.
type Fetcher struct {
	parser *gofeed.Parser
}

func NewFetcher() *Fetcher {
	return &Fetcher{parser: gofeed.NewParser()}
}

// Fetch returns at most the first 10 entries of the feed, in feed order.
// Malformed items are skipped with a warning; a feed that cannot be
// retrieved or parsed returns a FeedFetchError.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]Entry, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &FeedFetchError{FeedURL: feedURL, Err: err}
	}

	items := feed.Items
	if len(items) > maxEntriesPerFeed {
		items = items[:maxEntriesPerFeed]
	}

	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		entry, err := adaptItem(feedURL, i, item)
		if err != nil {
			utils.Log.Warnf("Skipping entry %d of %s: %v", i, feedURL, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// adaptItem validates the fields a deal record needs: a title and the
// first link's href. The summary may legitimately be empty.
func adaptItem(feedURL string, index int, item *gofeed.Item) (Entry, error) {
	if item.Title == "" {
		return Entry{}, &MalformedEntryError{FeedURL: feedURL, Index: index, Reason: "missing title"}
	}

	link := item.Link
	if len(item.Links) > 0 {
		link = item.Links[0]
	}
	if link == "" {
		return Entry{}, &MalformedEntryError{FeedURL: feedURL, Index: index, Reason: "missing link"}
	}

	return Entry{
		Title:   item.Title,
		Summary: item.Description,
		Link:    link,
	}, nil
}
