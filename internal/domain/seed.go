package domain

// Seed is the portable competitor snapshot shipped to the deployed
// instance. Post competitor ids are 1-based positions in Competitors.
type Seed struct {
	Competitors []SeedCompetitor `json:"competitors"`
	Posts       []SeedPost       `json:"posts"`
}

// SeedCompetitor is a competitor without its local id.
type SeedCompetitor struct {
	Name       string   `json:"name"`
	Handle     string   `json:"handle"`
	Platform   Platform `json:"platform"`
	ProfileURL *string  `json:"profile_url"`
	Notes      *string  `json:"notes"`
}

// SeedPost is a stored competitor post. IsNotable stays 0 or 1 as stored.
type SeedPost struct {
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
	IsNotable               int         `json:"is_notable"`
}
