package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/logging"
	"Wavecrest/internal/usecase"
)

func ptr[T any](v T) *T { return &v }

func TestCreateLeadRecordsActivity(t *testing.T) {
	ctx := context.Background()
	crm := usecase.NewLeadCRM(openStore(t), logging.Discard())

	lead, err := crm.CreateLead(ctx, domain.Lead{Name: "  Maya Chen ", Email: ptr(" maya@example.com "), Phone: ptr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "Maya Chen", lead.Name)
	assert.Equal(t, "maya@example.com", *lead.Email)
	assert.Nil(t, lead.Phone)
	assert.Equal(t, domain.LeadSourceManual, lead.Source)
	assert.Equal(t, domain.StageNew, lead.Stage)

	activity, err := crm.Activity(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "Lead created", activity[0].Action)

	_, err = crm.CreateLead(ctx, domain.Lead{Name: " "})
	assert.ErrorIs(t, err, usecase.ErrInvalidLead)
}

func TestUpdateStage(t *testing.T) {
	ctx := context.Background()
	crm := usecase.NewLeadCRM(openStore(t), logging.Discard())

	lead, err := crm.CreateLead(ctx, domain.Lead{Name: "Sam"})
	require.NoError(t, err)

	updated, err := crm.UpdateStage(ctx, lead.ID, domain.StageQualified)
	require.NoError(t, err)
	assert.Equal(t, domain.StageQualified, updated.Stage)

	_, err = crm.UpdateStage(ctx, lead.ID, domain.StageQualified)
	require.NoError(t, err)

	activity, err := crm.Activity(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "Stage changed", activity[1].Action)
	assert.Equal(t, "New -> Qualified", *activity[1].Details)

	qualified, err := crm.List(ctx, domain.StageQualified)
	require.NoError(t, err)
	require.Len(t, qualified, 1)

	_, err = crm.UpdateStage(ctx, lead.ID, "won")
	assert.ErrorIs(t, err, usecase.ErrInvalidLead)

	_, err = crm.UpdateStage(ctx, 999, domain.StageContacted)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteLead(t *testing.T) {
	ctx := context.Background()
	crm := usecase.NewLeadCRM(openStore(t), logging.Discard())

	lead, err := crm.CreateLead(ctx, domain.Lead{Name: "Temp"})
	require.NoError(t, err)

	require.NoError(t, crm.Delete(ctx, lead.ID))
	assert.ErrorIs(t, crm.Delete(ctx, lead.ID), domain.ErrNotFound)

	activity, err := crm.Activity(ctx, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, activity)
}
