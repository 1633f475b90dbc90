package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

// ErrInvalidLead reports a rejected lead or stage change.
var ErrInvalidLead = errors.New("invalid lead")

// LeadCRM manages leads created by hand and moves leads through the pipeline.
type LeadCRM struct {
	repo   ports.LeadRepository
	logger *slog.Logger
}

// NewLeadCRM constructs the CRM use case.
func NewLeadCRM(repo ports.LeadRepository, logger *slog.Logger) *LeadCRM {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadCRM{repo: repo, logger: logger.With("component", "leads")}
}

// CreateLead stores a manually entered lead in the new stage.
func (c *LeadCRM) CreateLead(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	lead.Name = strings.TrimSpace(lead.Name)
	if lead.Name == "" {
		return domain.Lead{}, fmt.Errorf("%w: name is required", ErrInvalidLead)
	}
	lead.Email = trimmed(lead.Email)
	lead.Phone = trimmed(lead.Phone)
	lead.CampaignName = trimmed(lead.CampaignName)
	lead.AdName = trimmed(lead.AdName)
	lead.Notes = trimmed(lead.Notes)
	lead.Stage = domain.StageNew
	if lead.Source == "" {
		lead.Source = domain.LeadSourceManual
	}

	id, err := c.repo.InsertLead(ctx, lead)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	if err := c.repo.AppendActivity(ctx, id, "Lead created", "Manually added"); err != nil {
		return domain.Lead{}, fmt.Errorf("lead %d activity: %w", id, err)
	}

	c.logger.Info("lead created", "id", id)
	return c.repo.LeadByID(ctx, id)
}

// UpdateStage moves a lead to stage and records the transition. Moving to
// the current stage is a no-op.
func (c *LeadCRM) UpdateStage(ctx context.Context, id int64, stage domain.LeadStage) (domain.Lead, error) {
	if !stage.Valid() {
		return domain.Lead{}, fmt.Errorf("%w: unknown stage %q", ErrInvalidLead, stage)
	}

	lead, err := c.repo.LeadByID(ctx, id)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("lead %d: %w", id, err)
	}
	if lead.Stage == stage {
		return lead, nil
	}

	if err := c.repo.SetLeadStage(ctx, id, stage); err != nil {
		return domain.Lead{}, fmt.Errorf("set stage of lead %d: %w", id, err)
	}
	details := lead.Stage.Label() + " -> " + stage.Label()
	if err := c.repo.AppendActivity(ctx, id, "Stage changed", details); err != nil {
		return domain.Lead{}, fmt.Errorf("lead %d activity: %w", id, err)
	}

	lead.Stage = stage
	return lead, nil
}

// List returns leads newest first, optionally restricted to one stage.
func (c *LeadCRM) List(ctx context.Context, stage domain.LeadStage) ([]domain.Lead, error) {
	if stage != "" && !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidLead, stage)
	}
	return c.repo.ListLeads(ctx, ports.LeadFilter{Stage: stage})
}

// Activity returns the audit trail of a lead.
func (c *LeadCRM) Activity(ctx context.Context, id int64) ([]domain.LeadActivity, error) {
	return c.repo.ListActivity(ctx, id)
}

// Delete removes a lead with its activity.
func (c *LeadCRM) Delete(ctx context.Context, id int64) error {
	ok, err := c.repo.DeleteLead(ctx, id)
	if err != nil {
		return fmt.Errorf("delete lead %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(strings.TrimSpace(*s))
}
