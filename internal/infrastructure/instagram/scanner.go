package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Wavecrest/internal/config"
	"Wavecrest/internal/domain"
	"Wavecrest/internal/scanner"
)

const (
	// timelineQueryHash selects the owner timeline connection of the public
	// GraphQL endpoint.
	timelineQueryHash = "003056d32c2554def87228bc3fd9668a"
	timelinePageSize  = 12
	captionLimit      = 200
)

// errAuthWall marks responses that require a logged-in session.
var errAuthWall = errors.New("instagram requires login")

// Scanner reads public Instagram profiles through the web JSON endpoints,
// falling back to the profile page markup when those are walled off.
type Scanner struct {
	client    *http.Client
	baseURL   string
	appID     string
	userAgent string
	logger    *slog.Logger
}

var _ scanner.Scanner = (*Scanner)(nil)

// NewScanner wires an HTTP client; a nil client gets the configured timeout.
func NewScanner(cfg config.InstagramConfig, client *http.Client, logger *slog.Logger) *Scanner {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		client:    client,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		appID:     cfg.AppID,
		userAgent: cfg.UserAgent,
		logger:    logger.With("component", "instagram"),
	}
}

// Name identifies the strategy inside the registry.
func (s *Scanner) Name() string {
	return "instagram"
}

// Scan fetches profile metadata and up to req.MaxPosts recent posts. Private
// profiles yield metadata only. A failure while paging posts keeps what was
// read and sets ScrapeWarning.
func (s *Scanner) Scan(ctx context.Context, req scanner.Request) (domain.ScrapeResult, error) {
	handle := strings.TrimPrefix(strings.TrimSpace(req.Handle), "@")
	result := domain.ScrapeResult{Posts: []domain.ScrapedPost{}}

	user, err := s.profileInfo(ctx, handle)
	if errors.Is(err, errAuthWall) {
		s.logger.Warn("profile endpoint walled, reading page markup", "handle", handle)
		profile, perr := s.profilePage(ctx, handle)
		if perr != nil {
			return result, perr
		}
		result.Profile = profile
		result.ScrapeWarning = fmt.Sprintf("Partial data: %v; posts unavailable", err)
		result.ScrapedAt = time.Now()
		return result, nil
	}
	if err != nil {
		return result, err
	}

	result.Profile = user.profile(handle)
	if !user.IsPrivate && req.MaxPosts > 0 {
		posts, werr := s.collectPosts(ctx, user, req.MaxPosts)
		for _, node := range posts {
			result.Posts = append(result.Posts, node.post(result.FollowerCount()))
		}
		if werr != nil {
			result.ScrapeWarning = fmt.Sprintf("Partial data: %v", werr)
		}
	}
	result.ScrapedAt = time.Now()
	return result, nil
}

// collectPosts follows the timeline cursor until limit posts are read, the
// stream ends or a cursor comes back a second time.
func (s *Scanner) collectPosts(ctx context.Context, user *userNode, limit int) ([]mediaNode, error) {
	var posts []mediaNode
	media := user.Timeline
	cursors := map[string]bool{}
	for {
		for _, edge := range media.Edges {
			if len(posts) >= limit {
				return posts, nil
			}
			posts = append(posts, edge.Node)
		}
		cursor := media.PageInfo.EndCursor
		if len(posts) >= limit || !media.PageInfo.HasNextPage || cursor == "" || cursors[cursor] {
			return posts, nil
		}
		cursors[cursor] = true

		next, err := s.timelinePage(ctx, user.ID, cursor)
		if err != nil {
			return posts, err
		}
		media = next
	}
}

func (s *Scanner) profileInfo(ctx context.Context, handle string) (*userNode, error) {
	endpoint := s.baseURL + "/api/v1/users/web_profile_info/?username=" + url.QueryEscape(handle)

	var payload struct {
		Data struct {
			User *userNode `json:"user"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Data.User == nil {
		return nil, domain.ErrProfileNotFound
	}
	return payload.Data.User, nil
}

func (s *Scanner) timelinePage(ctx context.Context, userID, cursor string) (timeline, error) {
	variables, err := json.Marshal(map[string]any{"id": userID, "first": timelinePageSize, "after": cursor})
	if err != nil {
		return timeline{}, fmt.Errorf("marshal variables: %w", err)
	}
	q := url.Values{}
	q.Set("query_hash", timelineQueryHash)
	q.Set("variables", string(variables))

	var payload struct {
		Data struct {
			User struct {
				Timeline timeline `json:"edge_owner_to_timeline_media"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, s.baseURL+"/graphql/query/?"+q.Encode(), &payload); err != nil {
		return timeline{}, err
	}
	return payload.Data.User.Timeline, nil
}

func (s *Scanner) getJSON(ctx context.Context, endpoint string, v any) error {
	resp, err := s.do(ctx, endpoint, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", resp.Request.URL.Path, err)
	}
	return nil
}

func (s *Scanner) do(ctx context.Context, endpoint, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if s.appID != "" {
		req.Header.Set("X-IG-App-ID", s.appID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrProfileNotFound
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", errAuthWall, resp.Status)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("instagram returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
}

type count struct {
	Count int64 `json:"count"`
}

type userNode struct {
	ID            string   `json:"id"`
	FullName      string   `json:"full_name"`
	Biography     string   `json:"biography"`
	FollowedBy    count    `json:"edge_followed_by"`
	Follow        count    `json:"edge_follow"`
	IsPrivate     bool     `json:"is_private"`
	ProfilePicURL string   `json:"profile_pic_url"`
	ProfilePicHD  string   `json:"profile_pic_url_hd"`
	ExternalURL   string   `json:"external_url"`
	Timeline      timeline `json:"edge_owner_to_timeline_media"`
}

func (u *userNode) profile(handle string) domain.Profile {
	pic := u.ProfilePicHD
	if pic == "" {
		pic = u.ProfilePicURL
	}
	followers, following, total := u.FollowedBy.Count, u.Follow.Count, u.Timeline.Count
	return domain.Profile{
		Handle:        handle,
		UserID:        u.ID,
		FullName:      u.FullName,
		Bio:           u.Biography,
		Followers:     &followers,
		Following:     &following,
		TotalPosts:    &total,
		IsPrivate:     u.IsPrivate,
		ProfilePicURL: pic,
		ExternalURL:   u.ExternalURL,
	}
}

type timeline struct {
	Count    int64 `json:"count"`
	PageInfo struct {
		HasNextPage bool   `json:"has_next_page"`
		EndCursor   string `json:"end_cursor"`
	} `json:"page_info"`
	Edges []struct {
		Node mediaNode `json:"node"`
	} `json:"edges"`
}

type mediaNode struct {
	Typename       string `json:"__typename"`
	Shortcode      string `json:"shortcode"`
	IsVideo        bool   `json:"is_video"`
	TakenAt        int64  `json:"taken_at_timestamp"`
	VideoViewCount *int64 `json:"video_view_count"`
	Caption        struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	LikedBy      count `json:"edge_liked_by"`
	PreviewLikes count `json:"edge_media_preview_like"`
	Comments     count `json:"edge_media_to_comment"`
}

func (m mediaNode) post(followers int64) domain.ScrapedPost {
	contentType := domain.ContentImage
	switch {
	case m.Typename == "GraphSidecar":
		contentType = domain.ContentCarousel
	case m.IsVideo:
		contentType = domain.ContentVideo
	}

	var caption string
	if len(m.Caption.Edges) > 0 {
		caption = m.Caption.Edges[0].Node.Text
	}

	likes := m.LikedBy.Count
	if likes == 0 {
		likes = m.PreviewLikes.Count
	}

	post := domain.ScrapedPost{
		Shortcode:   m.Shortcode,
		PostURL:     PostURL(m.Shortcode),
		PostedAt:    time.Unix(m.TakenAt, 0).UTC(),
		ContentType: contentType,
		Caption:     caption,
		Likes:       likes,
		Comments:    m.Comments.Count,
	}
	if caption != "" {
		snippet := []rune(caption)
		if len(snippet) > captionLimit {
			snippet = snippet[:captionLimit]
		}
		s := string(snippet)
		post.CaptionSnippet = &s
	}
	if m.IsVideo {
		post.VideoViewCount = m.VideoViewCount
	}
	post.EngagementRate = EngagementRate(likes, m.Comments.Count, followers)
	return post
}

// PostURL is the canonical permalink of a post; stored posts are deduplicated
// on it.
func PostURL(shortcode string) string {
	return "https://www.instagram.com/p/" + shortcode + "/"
}

// EngagementRate is (likes+comments)/followers rounded to four places, or 0
// without followers.
func EngagementRate(likes, comments, followers int64) float64 {
	if followers <= 0 {
		return 0
	}
	return math.Round(float64(likes+comments)/float64(followers)*10000) / 10000
}
