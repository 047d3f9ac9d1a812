package timeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/umputun/tweetboard/pkg/domain"
)

// searchResponse is the shape of the search endpoint, posts wrapped in statuses
type searchResponse struct {
	Statuses []domain.Post `json:"statuses"`
}

// DecodePosts parses either a bare list of posts or an object with a statuses list.
// Posts keep the order of the response.
func DecodePosts(body []byte) ([]domain.Post, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var posts []domain.Post
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return nil, fmt.Errorf("decode post list: %w", err)
		}
		return posts, nil
	case '{':
		var resp searchResponse
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("decode statuses: %w", err)
		}
		return resp.Statuses, nil
	default:
		return nil, fmt.Errorf("unexpected response body starting with %q", trimmed[0])
	}
}
