package domain

// OutcomeResult is what happened to one item during an external sync.
type OutcomeResult string

const (
	ResultInserted OutcomeResult = "inserted"
	ResultUpdated  OutcomeResult = "updated"
	ResultSkipped  OutcomeResult = "skipped"
	ResultFailed   OutcomeResult = "failed"
)

// Outcome kinds.
const (
	KindCampaign = "campaign"
	KindAdSet    = "ad_set"
	KindAd       = "ad"
	KindMetric   = "metric"
	KindLeadForm = "lead_form"
	KindLead     = "lead"
)

// Outcome records the fate of a single remote item (campaign, ad set, ad,
// metric day, lead form or lead).
type Outcome struct {
	Kind          string        `json:"kind"`
	ExternalID    string        `json:"external_id"`
	Result        OutcomeResult `json:"result"`
	Reason        string        `json:"reason,omitempty"`
	UnknownStatus string        `json:"unknown_status,omitempty"`
}

// SyncReport is returned by every ads sync operation. Count keeps the
// aggregate the callers display; Outcomes distinguishes "nothing to do"
// from "everything failed".
type SyncReport struct {
	Count    int       `json:"count"`
	Outcomes []Outcome `json:"outcomes"`
}

// Add appends an outcome.
func (r *SyncReport) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failed returns the failed outcomes.
func (r SyncReport) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Result == ResultFailed {
			out = append(out, o)
		}
	}
	return out
}

// CountResult counts outcomes of one kind with the given result.
func (r SyncReport) CountResult(kind string, result OutcomeResult) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind && o.Result == result {
			n++
		}
	}
	return n
}
