package videogen

import (
	"encoding/json"
	"fmt"
	"strings"
)

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// decodeResponse normalizes an upstream (status, content type, body) triple
// into a Result or a classified error. It performs no I/O so the full decision
// table can be exercised without a network call.
//
// Precedence: non-2xx status wins, then JSON envelope, then raw video bytes,
// then everything else is a format failure.
func decodeResponse(status int, contentType string, body []byte) (*Result, error) {
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, status, strings.TrimSpace(string(body)))
	}

	switch {
	case strings.Contains(contentType, "application/json"):
		var decoded chatResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrUpstreamFormat, err)
		}
		if len(decoded.Choices) == 0 {
			return nil, fmt.Errorf("%w: missing choices", ErrUpstreamFormat)
		}
		videoURL := strings.TrimSpace(decoded.Choices[0].Message.Content)
		if videoURL == "" {
			return nil, fmt.Errorf("%w: empty message content", ErrUpstreamFormat)
		}
		return &Result{VideoURL: videoURL}, nil

	case strings.HasPrefix(contentType, "video/"):
		return &Result{VideoData: body, ContentType: contentType}, nil

	default:
		return nil, fmt.Errorf("%w: content type %q: %s", ErrUpstreamFormat, contentType, strings.TrimSpace(string(body)))
	}
}
