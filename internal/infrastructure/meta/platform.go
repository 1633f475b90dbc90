package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

var _ ports.AdsPlatform = (*Client)(nil)

const pageLimit = "100"

// flexString accepts JSON strings and numbers; the Graph API is inconsistent
// about which it sends for counters and money.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flexString: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

type campaignWire struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Objective      string     `json:"objective"`
	Status         string     `json:"status"`
	DailyBudget    flexString `json:"daily_budget"`
	LifetimeBudget flexString `json:"lifetime_budget"`
	StartTime      string     `json:"start_time"`
	StopTime       string     `json:"stop_time"`
}

type adSetWire struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	Targeting json.RawMessage `json:"targeting"`
}

type adWire struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Creative struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	} `json:"creative"`
}

type insightWire struct {
	DateStart   string     `json:"date_start"`
	Spend       flexString `json:"spend"`
	Impressions flexString `json:"impressions"`
	Clicks      flexString `json:"clicks"`
	CTR         flexString `json:"ctr"`
	CPC         flexString `json:"cpc"`
	CPM         flexString `json:"cpm"`
	Actions     []struct {
		ActionType string     `json:"action_type"`
		Value      flexString `json:"value"`
	} `json:"actions"`
}

type leadFormWire struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type leadWire struct {
	ID           string `json:"id"`
	CreatedTime  string `json:"created_time"`
	AdID         string `json:"ad_id"`
	AdName       string `json:"ad_name"`
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	FieldData    []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"field_data"`
}

// Campaigns lists every campaign of an ad account.
func (c *Client) Campaigns(ctx context.Context, accountID string) ([]domain.RemoteCampaign, error) {
	items, err := fetch[campaignWire](ctx, c, accountID+"/campaigns", url.Values{
		"fields": {"name,objective,status,daily_budget,lifetime_budget,start_time,stop_time"},
		"limit":  {pageLimit},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RemoteCampaign, 0, len(items))
	for _, w := range items {
		out = append(out, domain.RemoteCampaign{
			ID:             w.ID,
			Name:           w.Name,
			Objective:      w.Objective,
			Status:         w.Status,
			DailyBudget:    string(w.DailyBudget),
			LifetimeBudget: string(w.LifetimeBudget),
			StartTime:      w.StartTime,
			StopTime:       w.StopTime,
		})
	}
	return out, nil
}

// AdSets lists the ad sets of a campaign.
func (c *Client) AdSets(ctx context.Context, campaignID string) ([]domain.RemoteAdSet, error) {
	items, err := fetch[adSetWire](ctx, c, campaignID+"/adsets", url.Values{
		"fields": {"name,status,targeting"},
		"limit":  {pageLimit},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RemoteAdSet, 0, len(items))
	for _, w := range items {
		var targeting string
		if len(w.Targeting) > 0 && string(w.Targeting) != "null" {
			targeting = string(w.Targeting)
		}
		out = append(out, domain.RemoteAdSet{ID: w.ID, Name: w.Name, Status: w.Status, Targeting: targeting})
	}
	return out, nil
}

// Ads lists the ads of an ad set.
func (c *Client) Ads(ctx context.Context, adSetID string) ([]domain.RemoteAd, error) {
	items, err := fetch[adWire](ctx, c, adSetID+"/ads", url.Values{
		"fields": {"name,status,creative{body,title}"},
		"limit":  {pageLimit},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RemoteAd, 0, len(items))
	for _, w := range items {
		out = append(out, domain.RemoteAd{
			ID:            w.ID,
			Name:          w.Name,
			Status:        w.Status,
			CreativeTitle: w.Creative.Title,
			CreativeBody:  w.Creative.Body,
		})
	}
	return out, nil
}

// Insights requests daily buckets between since and until inclusive.
func (c *Client) Insights(ctx context.Context, campaignID string, since, until time.Time) ([]domain.RemoteInsight, error) {
	timeRange, err := json.Marshal(map[string]string{
		"since": since.Format("2006-01-02"),
		"until": until.Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal time range: %w", err)
	}

	items, err := fetch[insightWire](ctx, c, campaignID+"/insights", url.Values{
		"fields":         {"spend,impressions,clicks,actions,ctr,cpc,cpm"},
		"time_range":     {string(timeRange)},
		"time_increment": {strconv.Itoa(1)},
		"limit":          {pageLimit},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RemoteInsight, 0, len(items))
	for _, w := range items {
		in := domain.RemoteInsight{
			DateStart:   w.DateStart,
			Spend:       string(w.Spend),
			Impressions: string(w.Impressions),
			Clicks:      string(w.Clicks),
			CTR:         string(w.CTR),
			CPC:         string(w.CPC),
			CPM:         string(w.CPM),
		}
		for _, a := range w.Actions {
			in.Actions = append(in.Actions, domain.RemoteAction{ActionType: a.ActionType, Value: string(a.Value)})
		}
		out = append(out, in)
	}
	return out, nil
}

// LeadForms lists the lead generation forms of a page.
func (c *Client) LeadForms(ctx context.Context, pageID string) ([]domain.RemoteLeadForm, error) {
	items, err := fetch[leadFormWire](ctx, c, pageID+"/leadgen_forms", url.Values{
		"fields": {"id,name,status"},
		"limit":  {pageLimit},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RemoteLeadForm, 0, len(items))
	for _, w := range items {
		out = append(out, domain.RemoteLeadForm(w))
	}
	return out, nil
}

// Leads lists every submission of a lead form.
func (c *Client) Leads(ctx context.Context, formID string) ([]domain.RemoteLead, error) {
	items, err := fetch[leadWire](ctx, c, formID+"/leads", url.Values{
		"fields": {"created_time,field_data,ad_id,ad_name,campaign_id,campaign_name"},
		"limit":  {pageLimit},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RemoteLead, 0, len(items))
	for _, w := range items {
		lead := domain.RemoteLead{
			ID:           w.ID,
			CreatedTime:  w.CreatedTime,
			AdID:         w.AdID,
			AdName:       w.AdName,
			CampaignID:   w.CampaignID,
			CampaignName: w.CampaignName,
		}
		for _, f := range w.FieldData {
			lead.FieldData = append(lead.FieldData, domain.RemoteLeadField{Name: f.Name, Values: f.Values})
		}
		out = append(out, lead)
	}
	return out, nil
}

func fetch[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	raw, err := c.GetAll(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("decode %s item %d: %w", endpoint, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
