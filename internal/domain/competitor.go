package domain

import "time"

// Platform is the social network a competitor is tracked on.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformBoth      Platform = "both"
)

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformFacebook, PlatformBoth:
		return true
	}
	return false
}

// ContentType classifies an observed competitor post.
type ContentType string

const (
	ContentImage    ContentType = "image"
	ContentCarousel ContentType = "carousel"
	ContentReel     ContentType = "reel"
	ContentVideo    ContentType = "video"
	ContentStory    ContentType = "story"
)

// ContentTypes lists every post content type in display order.
var ContentTypes = []ContentType{ContentImage, ContentCarousel, ContentReel, ContentVideo, ContentStory}

// Competitor is an account tracked for competitive intelligence.
type Competitor struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Handle     string   `json:"handle"`
	Platform   Platform `json:"platform"`
	ProfileURL *string  `json:"profile_url"`
	Notes      *string  `json:"notes"`
}

// CompetitorSnapshot is a point-in-time capture of account metrics.
// There is at most one per competitor and day.
type CompetitorSnapshot struct {
	ID           int64   `json:"id"`
	CompetitorID int64   `json:"competitor_id"`
	SnapshotDate string  `json:"snapshot_date"`
	Followers    *int64  `json:"followers"`
	Following    *int64  `json:"following"`
	TotalPosts   *int64  `json:"total_posts"`
	Bio          *string `json:"bio"`
}

// CompetitorPost is a post observed on a competitor account,
// unique per (competitor, post URL).
type CompetitorPost struct {
	ID                      int64       `json:"id"`
	CompetitorID            int64       `json:"competitor_id"`
	PostURL                 *string     `json:"post_url"`
	PostedAt                *string     `json:"posted_at"`
	ContentType             ContentType `json:"content_type"`
	CaptionSnippet          *string     `json:"caption_snippet"`
	Likes                   int64       `json:"likes"`
	Comments                int64       `json:"comments"`
	EstimatedEngagementRate *float64    `json:"estimated_engagement_rate"`
	ContentTheme            *string     `json:"content_theme"`
	Notes                   *string     `json:"notes"`
	IsNotable               bool        `json:"is_notable"`
}

// Profile is the public metadata of a scraped social profile. Counters the
// source did not expose are nil.
type Profile struct {
	Handle        string `json:"handle"`
	UserID        string `json:"-"`
	FullName      string `json:"full_name"`
	Bio           string `json:"bio"`
	Followers     *int64 `json:"followers"`
	Following     *int64 `json:"following"`
	TotalPosts    *int64 `json:"total_posts"`
	IsPrivate     bool   `json:"is_private"`
	ProfilePicURL string `json:"profile_pic_url"`
	ExternalURL   string `json:"external_url"`
}

// FollowerCount returns the follower count, or 0 when it is unknown.
func (p Profile) FollowerCount() int64 {
	if p.Followers == nil {
		return 0
	}
	return *p.Followers
}

// ScrapedPost is a single post read from a profile's post stream.
type ScrapedPost struct {
	Shortcode      string      `json:"shortcode"`
	PostURL        string      `json:"post_url"`
	PostedAt       time.Time   `json:"posted_at"`
	ContentType    ContentType `json:"content_type"`
	Caption        string      `json:"caption"`
	CaptionSnippet *string     `json:"caption_snippet"`
	Likes          int64       `json:"likes"`
	Comments       int64       `json:"comments"`
	VideoViewCount *int64      `json:"video_view_count"`
	EngagementRate float64     `json:"engagement_rate"`
}

// ScrapeResult is what a profile scrape returns. Failures are carried in
// Error instead of a Go error so batch scans can keep going.
type ScrapeResult struct {
	Profile
	Posts         []ScrapedPost `json:"posts"`
	ScrapedAt     time.Time     `json:"scraped_at"`
	ScrapeWarning string        `json:"scrape_warning,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// SaveResult summarizes persisting one scrape.
type SaveResult struct {
	Success                bool   `json:"success"`
	Handle                 string `json:"handle,omitempty"`
	Followers              *int64 `json:"followers"`
	PostsScraped           int    `json:"posts_scraped"`
	PostsAdded             int    `json:"posts_added"`
	PostsSkippedDuplicates int    `json:"posts_skipped_duplicates"`
	Error                  string `json:"error,omitempty"`
}

// ScanSummary aggregates a scan over every tracked competitor.
type ScanSummary struct {
	Success            bool         `json:"success"`
	CompetitorsScanned int          `json:"competitors_scanned"`
	Results            []SaveResult `json:"results"`
}

// TotalAdded sums newly stored posts across all results.
func (s ScanSummary) TotalAdded() int {
	total := 0
	for _, r := range s.Results {
		total += r.PostsAdded
	}
	return total
}
