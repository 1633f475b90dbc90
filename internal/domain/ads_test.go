package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapRemoteStatus(t *testing.T) {
	cases := []struct {
		remote string
		want   AdStatus
		known  bool
	}{
		{"ACTIVE", AdStatusActive, true},
		{"PAUSED", AdStatusPaused, true},
		{"ARCHIVED", AdStatusCompleted, true},
		{"DELETED", AdStatusCompleted, true},
		{"", AdStatusActive, false},
		{"active", AdStatusActive, false},
		{"IN_PROCESS", AdStatusActive, false},
		{"WITH_ISSUES", AdStatusActive, false},
		{"CAMPAIGN_PAUSED", AdStatusActive, false},
	}

	for _, tc := range cases {
		t.Run(tc.remote, func(t *testing.T) {
			got, known := MapRemoteStatus(tc.remote)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.known, known)
		})
	}

	assert.Len(t, remoteStatuses, 4, "new remote statuses need a case above")
}

func TestSyncReportCounts(t *testing.T) {
	var r SyncReport
	r.Add(Outcome{Kind: KindCampaign, ExternalID: "1", Result: ResultInserted})
	r.Add(Outcome{Kind: KindCampaign, ExternalID: "2", Result: ResultFailed, Reason: "boom"})
	r.Add(Outcome{Kind: KindAd, ExternalID: "3", Result: ResultInserted})

	assert.Equal(t, 1, r.CountResult(KindCampaign, ResultInserted))
	assert.Len(t, r.Failed(), 1)
	assert.Equal(t, "2", r.Failed()[0].ExternalID)
}
