// Package publisher pushes finished posts to LinkedIn.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultAPIBase = "https://api.linkedin.com/v2"

// LinkedIn publishes UGC posts for one author. In test mode Publish
// short-circuits before any network call and only logs a preview.
type LinkedIn struct {
	accessToken string
	authorURN   string
	testMode    bool
	baseURL     string
	http        *http.Client
}

type Option func(*LinkedIn)

func WithBaseURL(u string) Option {
	return func(l *LinkedIn) { l.baseURL = strings.TrimRight(u, "/") }
}

func NewLinkedIn(accessToken, authorURN string, testMode bool, opts ...Option) *LinkedIn {
	l := &LinkedIn{
		accessToken: accessToken,
		authorURN:   authorURN,
		testMode:    testMode,
		baseURL:     defaultAPIBase,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type ugcPostRequest struct {
	Author          string                 `json:"author"`
	LifecycleState  string                 `json:"lifecycleState"`
	SpecificContent map[string]interface{} `json:"specificContent"`
	Visibility      map[string]string      `json:"visibility"`
}

type ugcPostResponse struct {
	ID string `json:"id"`
}

// Publish posts content as the configured author and returns the post ID.
func (l *LinkedIn) Publish(ctx context.Context, content string) (string, error) {
	logger := logutil.GetLogger(ctx)
	if l.testMode {
		logger.Info("test mode: post not published",
			zap.Int("content_len", len(content)),
			zap.String("preview", preview(content, 120)))
		return "urn:li:share:test-mode", nil
	}
	if l.accessToken == "" {
		return "", fmt.Errorf("linkedin: credential access_token not set")
	}
	if l.authorURN == "" {
		return "", fmt.Errorf("linkedin: author_urn not set")
	}
	reqBody := ugcPostRequest{
		Author:         l.authorURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary":    map[string]string{"text": content},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/ugcPosts", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+l.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	resp, err := l.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("linkedin request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var out ugcPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	logger.Info("post published", zap.String("post_id", out.ID))
	return out.ID, nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
