package domain

import (
	"strings"
	"time"
)

// LeadStage is the CRM pipeline position of a lead.
type LeadStage string

const (
	StageNew       LeadStage = "new"
	StageContacted LeadStage = "contacted"
	StageQualified LeadStage = "qualified"
	StageEnrolled  LeadStage = "enrolled"
)

// Lead sources.
const (
	LeadSourceMetaAds = "meta_ads"
	LeadSourceManual  = "manual"
)

// LeadStages lists the pipeline in order.
var LeadStages = []LeadStage{StageNew, StageContacted, StageQualified, StageEnrolled}

// Valid reports whether s is a pipeline stage.
func (s LeadStage) Valid() bool {
	switch s {
	case StageNew, StageContacted, StageQualified, StageEnrolled:
		return true
	}
	return false
}

// Label is the display name of the stage.
func (s LeadStage) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Lead is a CRM record.
type Lead struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	Source       string    `json:"source"`
	CampaignName *string   `json:"campaign_name"`
	AdName       *string   `json:"ad_name"`
	FormName     *string   `json:"form_name"`
	Stage        LeadStage `json:"stage"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// LeadActivity is an append-only audit entry for a lead.
type LeadActivity struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	Action    string    `json:"action"`
	Details   *string   `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
