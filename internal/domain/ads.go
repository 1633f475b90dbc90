package domain

// AdStatus is the local lifecycle state of a campaign, ad set or ad.
type AdStatus string

const (
	AdStatusActive    AdStatus = "active"
	AdStatusPaused    AdStatus = "paused"
	AdStatusCompleted AdStatus = "completed"
)

// remoteStatuses collapses the Graph API effective status vocabulary.
var remoteStatuses = map[string]AdStatus{
	"ACTIVE":   AdStatusActive,
	"PAUSED":   AdStatusPaused,
	"ARCHIVED": AdStatusCompleted,
	"DELETED":  AdStatusCompleted,
}

// MapRemoteStatus converts a remote status string. Unrecognized values map to
// active and known is false so callers can surface vocabulary drift.
func MapRemoteStatus(remote string) (status AdStatus, known bool) {
	if s, ok := remoteStatuses[remote]; ok {
		return s, true
	}
	return AdStatusActive, false
}

// AdCampaign mirrors a campaign of the external ads platform. MetaCampaignID
// is nil for rows created by hand, which sync never touches.
type AdCampaign struct {
	ID             int64    `json:"id"`
	MetaCampaignID *string  `json:"meta_campaign_id"`
	Name           string   `json:"name"`
	Objective      *string  `json:"objective"`
	Status         AdStatus `json:"status"`
	DailyBudget    *float64 `json:"daily_budget"`
	LifetimeBudget *float64 `json:"lifetime_budget"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	Notes          *string  `json:"notes"`
}

// AdSet belongs to a campaign.
type AdSet struct {
	ID               int64    `json:"id"`
	CampaignID       int64    `json:"campaign_id"`
	MetaAdSetID      *string  `json:"meta_adset_id"`
	Name             string   `json:"name"`
	Status           AdStatus `json:"status"`
	TargetingSummary *string  `json:"targeting_summary"`
}

// Ad belongs to an ad set.
type Ad struct {
	ID              int64    `json:"id"`
	AdSetID         int64    `json:"ad_set_id"`
	MetaAdID        *string  `json:"meta_ad_id"`
	Name            string   `json:"name"`
	Status          AdStatus `json:"status"`
	CreativeSummary *string  `json:"creative_summary"`
}

// AdMetric is a daily fact row. A nil AdSetID and AdID is the campaign-level
// breakdown that metric sync replaces.
type AdMetric struct {
	ID          int64   `json:"id"`
	CampaignID  int64   `json:"campaign_id"`
	AdSetID     *int64  `json:"ad_set_id"`
	AdID        *int64  `json:"ad_id"`
	MetricDate  string  `json:"metric_date"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	CPM         float64 `json:"cpm"`
	ROAS        float64 `json:"roas"`
}
