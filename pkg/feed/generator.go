// Package feed renders column posts as RSS 2.0.
package feed

import (
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/tweetboard/pkg/domain"
)

const maxTitleLen = 80

// Generator creates RSS feeds from column posts
type Generator struct {
	baseURL   string
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewGenerator creates a new feed generator, baseURL is the public address of the dashboard
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL:   strings.TrimRight(baseURL, "/"),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// GenerateRSS creates an RSS 2.0 feed of handle's posts shown in col, posts keep their order
func (g *Generator) GenerateRSS(col domain.Column, handle string, posts []domain.Post) (string, error) {
	selfLink := fmt.Sprintf("%s/rss/%d", g.baseURL, int(col))

	rssItems := make([]*RSSItem, 0, len(posts))
	for _, p := range posts {
		rssItems = append(rssItems, g.convertToRSSItem(p))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         fmt.Sprintf("Tweetboard - @%s", handle),
			Link:          domain.ProfileBaseURL + handle,
			Description:   fmt.Sprintf("Posts of @%s from the %s column", handle, col),
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: g.now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// convertToRSSItem converts a post to an RSS item, posts with bad timestamps get no pubDate
func (g *Generator) convertToRSSItem(p domain.Post) *RSSItem {
	text := html.UnescapeString(g.sanitizer.Sanitize(p.Text))
	res := &RSSItem{
		Title:       title(text),
		Link:        p.URL(),
		GUID:        RSSGUID{Value: p.ID},
		Description: text,
		Author:      "@" + p.User.Name,
	}
	if created, err := p.Created(); err == nil {
		res.PubDate = created.Format(time.RFC1123Z)
	}
	return res
}

// title is the first line of text, cut to maxTitleLen runes
func title(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}
	if utf8.RuneCountInString(text) <= maxTitleLen {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxTitleLen])) + "…"
}
