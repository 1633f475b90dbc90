package domain

import (
	"slices"
	"time"
)

// ScriptType is the production format a script is written for.
type ScriptType string

const (
	ScriptInfluencerReels  ScriptType = "influencer_reels"
	ScriptAdReels          ScriptType = "ad_reels"
	ScriptVoiceoverReels   ScriptType = "voiceover_reels"
	ScriptTherapistScripts ScriptType = "therapist_scripts"
	ScriptCarouselPosts    ScriptType = "carousel_posts"
)

// ScriptTypes lists every script format.
var ScriptTypes = []ScriptType{ScriptInfluencerReels, ScriptAdReels, ScriptVoiceoverReels,
	ScriptTherapistScripts, ScriptCarouselPosts}

// Valid reports whether t is a known script format.
func (t ScriptType) Valid() bool {
	return slices.Contains(ScriptTypes, t)
}

// ScriptStatus is the board column of a script.
type ScriptStatus string

const (
	ScriptBacklog   ScriptStatus = "backlog"
	ScriptTodo      ScriptStatus = "todo"
	ScriptCompleted ScriptStatus = "completed"
)

// ScriptStatuses lists the board columns in order.
var ScriptStatuses = []ScriptStatus{ScriptBacklog, ScriptTodo, ScriptCompleted}

// Valid reports whether s is a board column.
func (s ScriptStatus) Valid() bool {
	return slices.Contains(ScriptStatuses, s)
}

// Pillar is a content theme every script, idea and post can be filed under.
type Pillar struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ColorHex    *string `json:"color_hex"`
}

// Script is a piece of written copy waiting to be produced.
type Script struct {
	ID         int64        `json:"id"`
	Title      string       `json:"title"`
	Body       string       `json:"body"`
	ScriptType ScriptType   `json:"script_type"`
	PillarID   *int64       `json:"pillar_id"`
	PillarName *string      `json:"pillar_name"`
	Status     ScriptStatus `json:"status"`
	Notes      *string      `json:"notes"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Priority ranks ideas and suggestions.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return slices.Contains(Priorities, p)
}

// IdeaStatus tracks an idea from capture to use.
type IdeaStatus string

const (
	IdeaNew        IdeaStatus = "new"
	IdeaDeveloping IdeaStatus = "developing"
	IdeaUsed       IdeaStatus = "used"
	IdeaRejected   IdeaStatus = "rejected"
)

// IdeaStatuses lists idea states in lifecycle order.
var IdeaStatuses = []IdeaStatus{IdeaNew, IdeaDeveloping, IdeaUsed, IdeaRejected}

// Valid reports whether s is a known idea state.
func (s IdeaStatus) Valid() bool {
	return slices.Contains(IdeaStatuses, s)
}

// Idea is an entry of the idea bank.
type Idea struct {
	ID                int64      `json:"id"`
	Idea              string     `json:"idea"`
	PillarID          *int64     `json:"pillar_id"`
	PillarName        *string    `json:"pillar_name"`
	ContentType       *string    `json:"content_type"`
	InspirationSource *string    `json:"inspiration_source"`
	InspirationURL    *string    `json:"inspiration_url"`
	Priority          Priority   `json:"priority"`
	Status            IdeaStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// PostFormat is the kind of post a calendar slot is planned as.
type PostFormat string

const (
	FormatStillImage     PostFormat = "still_image"
	FormatUGCVideo       PostFormat = "ugc_video"
	FormatTherapistVideo PostFormat = "therapist_video"
	FormatCarousel       PostFormat = "carousel"
	FormatStory          PostFormat = "story"
	FormatReel           PostFormat = "reel"
)

// PostFormats lists every calendar post format.
var PostFormats = []PostFormat{FormatStillImage, FormatUGCVideo, FormatTherapistVideo,
	FormatCarousel, FormatStory, FormatReel}

// Valid reports whether f is a known post format.
func (f PostFormat) Valid() bool {
	return slices.Contains(PostFormats, f)
}

// CalendarStatus is the production state of a calendar slot.
type CalendarStatus string

const (
	CalendarPlanned   CalendarStatus = "planned"
	CalendarCreated   CalendarStatus = "created"
	CalendarReviewed  CalendarStatus = "reviewed"
	CalendarScheduled CalendarStatus = "scheduled"
	CalendarPublished CalendarStatus = "published"
)

// CalendarStatuses lists calendar states in production order.
var CalendarStatuses = []CalendarStatus{CalendarPlanned, CalendarCreated, CalendarReviewed,
	CalendarScheduled, CalendarPublished}

// Valid reports whether s is a known calendar state.
func (s CalendarStatus) Valid() bool {
	return slices.Contains(CalendarStatuses, s)
}

// CalendarEntry is one planned post.
type CalendarEntry struct {
	ID            int64          `json:"id"`
	ScheduledDate string         `json:"scheduled_date"`
	ScheduledTime *string        `json:"scheduled_time"`
	Platform      Platform       `json:"platform"`
	ContentType   PostFormat     `json:"content_type"`
	PillarID      *int64         `json:"pillar_id"`
	PillarName    *string        `json:"pillar_name"`
	PillarColor   *string        `json:"pillar_color"`
	ScriptID      *int64         `json:"script_id"`
	Caption       *string        `json:"caption"`
	Hashtags      *string        `json:"hashtags"`
	MediaPath     *string        `json:"media_path"`
	Status        CalendarStatus `json:"status"`
	MetaPostID    *string        `json:"meta_post_id"`
	Notes         *string        `json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CalendarTotals counts a month's posts per network. Posts planned for
// both networks count once on each side.
type CalendarTotals struct {
	TotalPosts     int64 `json:"total_posts"`
	InstagramPosts int64 `json:"instagram_posts"`
	FacebookPosts  int64 `json:"facebook_posts"`
}

// GroupCount is one bucket of a grouped count. An empty Name is the bucket
// of rows without a value.
type GroupCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// CalendarSummary is the content mix of one month.
type CalendarSummary struct {
	Month         string         `json:"month"`
	Totals        CalendarTotals `json:"totals"`
	ByContentType []GroupCount   `json:"by_content_type"`
	ByPillar      []GroupCount   `json:"by_pillar"`
	ByStatus      []GroupCount   `json:"by_status"`
}

// Channel is where a suggested piece of content would run.
type Channel string

const (
	ChannelOrganic Channel = "organic"
	ChannelPaid    Channel = "paid"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelOrganic || c == ChannelPaid
}

// Suggestion is a content idea submitted by a team member.
type Suggestion struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	SubmittedBy string            `json:"submitted_by"`
	Priority    Priority          `json:"priority"`
	Channel     Channel           `json:"channel"`
	LinkURL     *string           `json:"link_url"`
	CreatedAt   time.Time         `json:"created_at"`
	Images      []SuggestionImage `json:"images,omitempty"`
}

// SuggestionImage is a reference image uploaded with a suggestion.
type SuggestionImage struct {
	ID           int64     `json:"id"`
	SuggestionID int64     `json:"suggestion_id"`
	FileName     string    `json:"file_name"`
	FilePath     string    `json:"file_path"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
