package domain

// Remote* types carry ads platform payloads as received. Numeric fields stay
// strings because the platform encodes most numbers that way; conversion
// happens during reconciliation.

// RemoteCampaign is a campaign as listed by the ads platform.
type RemoteCampaign struct {
	ID             string
	Name           string
	Objective      string
	Status         string
	DailyBudget    string
	LifetimeBudget string
	StartTime      string
	StopTime       string
}

// RemoteAdSet is an ad set; Targeting is the raw targeting spec.
type RemoteAdSet struct {
	ID        string
	Name      string
	Status    string
	Targeting string
}

// RemoteAd is an ad with its creative texts.
type RemoteAd struct {
	ID            string
	Name          string
	Status        string
	CreativeTitle string
	CreativeBody  string
}

// RemoteAction is one entry of an insight's actions breakdown.
type RemoteAction struct {
	ActionType string
	Value      string
}

// RemoteInsight is one daily bucket of campaign insights.
type RemoteInsight struct {
	DateStart   string
	Spend       string
	Impressions string
	Clicks      string
	CTR         string
	CPC         string
	CPM         string
	Actions     []RemoteAction
}

// RemoteLeadForm is a lead generation form of a page.
type RemoteLeadForm struct {
	ID     string
	Name   string
	Status string
}

// RemoteLeadField is one answer of a lead submission.
type RemoteLeadField struct {
	Name   string
	Values []string
}

// RemoteLead is a lead submission.
type RemoteLead struct {
	ID           string
	CreatedTime  string
	AdID         string
	AdName       string
	CampaignID   string
	CampaignName string
	FieldData    []RemoteLeadField
}
