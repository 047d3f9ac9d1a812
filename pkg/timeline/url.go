// Package timeline talks to the timeline API: builds request URLs, performs requests and decodes posts.
package timeline

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/umputun/tweetboard/pkg/domain"
)

// DefaultBaseURL is the address of the local API proxy
const DefaultBaseURL = "http://localhost:7890/1.1"

// URLBuilder makes request URLs for column handles
type URLBuilder struct {
	base string
}

// NewURLBuilder makes a builder for the API at base, empty base means DefaultBaseURL
func NewURLBuilder(base string) *URLBuilder {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &URLBuilder{base: base}
}

// Build returns the search URL if both dates are set and the user timeline URL otherwise.
// A single date is ignored, there is no open-ended range.
func (b *URLBuilder) Build(handle string, volume int, startDate, endDate string) string {
	if startDate != "" && endDate != "" {
		return b.SearchURL(handle, startDate, endDate)
	}
	return b.TimelineURL(handle, volume)
}

// TimelineURL returns the URL of the most recent volume posts of handle
func (b *URLBuilder) TimelineURL(handle string, volume int) string {
	if volume <= 0 {
		volume = domain.DefaultVolume
	}
	return b.base + "/statuses/user_timeline.json?count=" + strconv.Itoa(volume) +
		"&screen_name=" + url.QueryEscape(handle)
}

// SearchURL returns the URL of posts mentioning handle between startDate and endDate
func (b *URLBuilder) SearchURL(handle, startDate, endDate string) string {
	return b.base + "/search/tweets.json?q=" + url.QueryEscape(handle) +
		"&since=" + url.QueryEscape(startDate) + "&until=" + url.QueryEscape(endDate)
}
