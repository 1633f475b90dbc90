package ports

import (
	"context"
	"time"

	"Wavecrest/internal/domain"
)

// CompetitorRepository persists tracked competitors, their daily snapshots
// and observed posts.
type CompetitorRepository interface {
	ListCompetitors(ctx context.Context) ([]domain.Competitor, error)
	ListCompetitorsByID(ctx context.Context) ([]domain.Competitor, error)
	CompetitorByHandle(ctx context.Context, handle string) (domain.Competitor, error)
	AddCompetitor(ctx context.Context, c domain.Competitor) (domain.Competitor, error)
	RemoveCompetitor(ctx context.Context, id int64) (bool, error)

	UpsertSnapshot(ctx context.Context, snap domain.CompetitorSnapshot) (inserted bool, err error)
	InsertSnapshot(ctx context.Context, snap domain.CompetitorSnapshot) (int64, error)
	ListSnapshots(ctx context.Context, competitorID int64) ([]domain.CompetitorSnapshot, error)

	PostExists(ctx context.Context, competitorID int64, postURL string) (bool, error)
	InsertPost(ctx context.Context, post domain.CompetitorPost) (int64, error)
	ListPosts(ctx context.Context) ([]domain.CompetitorPost, error)
	CountPosts(ctx context.Context, since string) (int64, error)
}

// AdsRepository persists the campaign/ad set/ad hierarchy and daily metrics.
type AdsRepository interface {
	CampaignByMetaID(ctx context.Context, metaID string) (domain.AdCampaign, error)
	InsertCampaign(ctx context.Context, c domain.AdCampaign) (int64, error)
	UpdateCampaignByMetaID(ctx context.Context, c domain.AdCampaign) error
	ListSyncedCampaigns(ctx context.Context) ([]domain.AdCampaign, error)
	ListCampaigns(ctx context.Context) ([]domain.AdCampaign, error)

	AdSetByMetaID(ctx context.Context, metaID string) (domain.AdSet, error)
	InsertAdSet(ctx context.Context, s domain.AdSet) (int64, error)
	UpdateAdSetByMetaID(ctx context.Context, s domain.AdSet) error

	AdByMetaID(ctx context.Context, metaID string) (domain.Ad, error)
	InsertAd(ctx context.Context, a domain.Ad) (int64, error)
	UpdateAdByMetaID(ctx context.Context, a domain.Ad) error

	ReplaceCampaignMetric(ctx context.Context, m domain.AdMetric) error
	ListMetrics(ctx context.Context, campaignID int64) ([]domain.AdMetric, error)
}

// LeadFilter narrows lead listings.
type LeadFilter struct {
	Stage domain.LeadStage
}

// LeadRepository persists CRM leads and their activity trail.
type LeadRepository interface {
	FindImportedLead(ctx context.Context, name, email, phone, formName string) (bool, error)
	InsertLead(ctx context.Context, lead domain.Lead) (int64, error)
	LeadByID(ctx context.Context, id int64) (domain.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]domain.Lead, error)
	SetLeadStage(ctx context.Context, id int64, stage domain.LeadStage) error
	DeleteLead(ctx context.Context, id int64) (bool, error)
	AppendActivity(ctx context.Context, leadID int64, action, details string) error
	ListActivity(ctx context.Context, leadID int64) ([]domain.LeadActivity, error)
}

// ScriptFilter narrows script listings. Zero fields match everything;
// Pillar matches the pillar name case-insensitively.
type ScriptFilter struct {
	Type    domain.ScriptType
	Status  domain.ScriptStatus
	Pillar  string
	Keyword string
}

// ScriptPatch holds the script columns to change; nil fields stay as they are.
type ScriptPatch struct {
	Title      *string
	Body       *string
	ScriptType *domain.ScriptType
	PillarID   *int64
	Status     *domain.ScriptStatus
	Notes      *string
}

// IdeaFilter narrows idea bank listings. Source matches by substring.
type IdeaFilter struct {
	Status   domain.IdeaStatus
	Priority domain.Priority
	Pillar   string
	Source   string
}

// IdeaPatch holds the idea columns to change.
type IdeaPatch struct {
	Idea              *string
	PillarID          *int64
	ContentType       *string
	InspirationSource *string
	InspirationURL    *string
	Priority          *domain.Priority
	Status            *domain.IdeaStatus
}

// CalendarFilter narrows calendar listings. Month is YYYY-MM.
type CalendarFilter struct {
	Month       string
	Platform    domain.Platform
	ContentType domain.PostFormat
	Status      domain.CalendarStatus
}

// CalendarPatch holds the calendar columns to change.
type CalendarPatch struct {
	ScheduledDate *string
	ScheduledTime *string
	Platform      *domain.Platform
	ContentType   *domain.PostFormat
	PillarID      *int64
	ScriptID      *int64
	Caption       *string
	Hashtags      *string
	MediaPath     *string
	Status        *domain.CalendarStatus
	Notes         *string
}

// SuggestionFilter narrows suggestion listings. SubmittedBy matches by
// substring.
type SuggestionFilter struct {
	Priority    domain.Priority
	SubmittedBy string
}

// ContentRepository persists the content planning tables: pillars, scripts,
// the idea bank, the calendar and team suggestions. Lookups by id return
// domain.ErrNotFound; updates and deletes report whether the row existed.
type ContentRepository interface {
	PillarByName(ctx context.Context, name string) (domain.Pillar, error)

	InsertScript(ctx context.Context, s domain.Script) (int64, error)
	ScriptByID(ctx context.Context, id int64) (domain.Script, error)
	ListScripts(ctx context.Context, filter ScriptFilter) ([]domain.Script, error)
	UpdateScript(ctx context.Context, id int64, patch ScriptPatch) (bool, error)
	DeleteScript(ctx context.Context, id int64) (bool, error)
	// MoveStaleScripts moves scripts in status from created before cutoff
	// to status to and returns how many moved.
	MoveStaleScripts(ctx context.Context, from, to domain.ScriptStatus, cutoff time.Time) (int64, error)

	InsertIdea(ctx context.Context, idea domain.Idea) (int64, error)
	IdeaByID(ctx context.Context, id int64) (domain.Idea, error)
	ListIdeas(ctx context.Context, filter IdeaFilter) ([]domain.Idea, error)
	UpdateIdea(ctx context.Context, id int64, patch IdeaPatch) (bool, error)
	DeleteIdea(ctx context.Context, id int64) (bool, error)

	InsertCalendarEntry(ctx context.Context, e domain.CalendarEntry) (int64, error)
	CalendarEntryByID(ctx context.Context, id int64) (domain.CalendarEntry, error)
	ListCalendar(ctx context.Context, filter CalendarFilter) ([]domain.CalendarEntry, error)
	UpdateCalendarEntry(ctx context.Context, id int64, patch CalendarPatch) (bool, error)
	DeleteCalendarEntry(ctx context.Context, id int64) (bool, error)
	CalendarSummary(ctx context.Context, month string) (domain.CalendarSummary, error)

	InsertSuggestion(ctx context.Context, s domain.Suggestion) (int64, error)
	SuggestionByID(ctx context.Context, id int64) (domain.Suggestion, error)
	ListSuggestions(ctx context.Context, filter SuggestionFilter) ([]domain.Suggestion, error)
	// DeleteSuggestion removes the suggestion and its image rows and returns
	// the images that belonged to it.
	DeleteSuggestion(ctx context.Context, id int64) (bool, []domain.SuggestionImage, error)
}

// AdsPlatform reads the campaign tree, insights and lead forms of the
// external ads platform. Every list call follows pagination to the end.
type AdsPlatform interface {
	Campaigns(ctx context.Context, accountID string) ([]domain.RemoteCampaign, error)
	AdSets(ctx context.Context, campaignID string) ([]domain.RemoteAdSet, error)
	Ads(ctx context.Context, adSetID string) ([]domain.RemoteAd, error)
	Insights(ctx context.Context, campaignID string, since, until time.Time) ([]domain.RemoteInsight, error)
	LeadForms(ctx context.Context, pageID string) ([]domain.RemoteLeadForm, error)
	Leads(ctx context.Context, formID string) ([]domain.RemoteLead, error)
}

// Publisher ships the exported seed file to the deployment remote.
type Publisher interface {
	// Publish returns false when the file has no pending changes.
	Publish(ctx context.Context, path string) (bool, error)
}

// LiveSource reads the competitor list of the deployed instance.
type LiveSource interface {
	FetchCompetitors(ctx context.Context) ([]domain.Competitor, error)
}

// SyncRecorder observes sync runs and per-item outcomes.
type SyncRecorder interface {
	ObserveRun(job string)
	ObserveOutcome(o domain.Outcome)
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
