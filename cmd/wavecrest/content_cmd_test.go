package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/domain"
)

func TestScriptCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun(nil, "db", "init", "--seed")

	var script domain.Script
	h.mustRun(&script, "scripts", "add", "--title", "Evenings work", "--body", "IOP after 5pm.",
		"--type", "ad_reels", "--pillar", "Treatment Info")
	assert.Equal(t, domain.ScriptBacklog, script.Status)
	assert.Equal(t, "Treatment Info", *script.PillarName)
	id := jsonID(script.ID)

	out, err := h.run("scripts", "add", "--title", "x", "--body", "y", "--type", "ad_reels", "--pillar", "Nope")
	require.Error(t, err)
	assert.Contains(t, out, "unknown pillar")

	h.mustRun(&script, "scripts", "update", id, "--status", "todo")
	assert.Equal(t, domain.ScriptTodo, script.Status)
	assert.Equal(t, "Evenings work", script.Title)

	out, err = h.run("scripts", "update", id)
	require.Error(t, err)
	assert.Contains(t, out, "no fields to update")

	var list []domain.Script
	h.mustRun(&list, "scripts", "list", "--type", "ad_reels", "--status", "todo")
	require.Len(t, list, 1)

	h.mustRun(&list, "scripts", "search", "--keyword", "5pm")
	require.Len(t, list, 1)

	var archived struct {
		Count int64 `json:"archived_count"`
	}
	h.mustRun(&archived, "scripts", "archive", "--older-than", "30")
	assert.Zero(t, archived.Count)

	var deleted struct {
		Deleted bool  `json:"deleted"`
		ID      int64 `json:"id"`
	}
	h.mustRun(&deleted, "scripts", "delete", id)
	assert.True(t, deleted.Deleted)
	h.mustRun(&deleted, "scripts", "delete", id)
	assert.False(t, deleted.Deleted)
}

func TestIdeaCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun(nil, "db", "init", "--seed")

	var idea domain.Idea
	h.mustRun(&idea, "ideas", "add", "--idea", "Therapist day-in-the-life", "--priority", "high", "--source", "novara")
	assert.Equal(t, domain.IdeaNew, idea.Status)
	id := jsonID(idea.ID)

	var moved map[string]any
	h.mustRun(&moved, "ideas", "promote", id)
	assert.Equal(t, true, moved["promoted"])
	assert.Equal(t, "developing", moved["new_status"])

	h.mustRun(&moved, "ideas", "use", id)
	assert.Equal(t, "used", moved["new_status"])

	h.mustRun(&moved, "ideas", "reject", id)
	assert.Equal(t, true, moved["rejected"])

	var list []domain.Idea
	h.mustRun(&list, "ideas", "list", "--status", "rejected", "--source", "nova")
	require.Len(t, list, 1)

	h.mustRun(&idea, "ideas", "update", id, "--pillar", "community")
	assert.Equal(t, "Community", *idea.PillarName)

	_, err := h.run("ideas", "promote", "999")
	require.Error(t, err)

	h.mustRun(nil, "ideas", "delete", id)
	h.mustRun(&list, "ideas", "list")
	assert.Empty(t, list)
}

func TestCalendarCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun(nil, "db", "init", "--seed")

	var entry domain.CalendarEntry
	h.mustRun(&entry, "calendar", "add", "--date", "2026-03-05", "--platform", "both",
		"--type", "still_image", "--pillar", "Education", "--caption", "Your mental health matters.")
	assert.Equal(t, domain.CalendarPlanned, entry.Status)
	h.mustRun(nil, "calendar", "add", "--date", "2026-03-09", "--platform", "instagram", "--type", "reel")

	_, err := h.run("calendar", "add", "--date", "2026-03-09", "--platform", "tiktok", "--type", "reel")
	require.Error(t, err)

	h.mustRun(&entry, "calendar", "update", jsonID(entry.ID), "--status", "scheduled", "--time", "09:00")
	assert.Equal(t, domain.CalendarScheduled, entry.Status)
	assert.Equal(t, "09:00", *entry.ScheduledTime)

	var list []domain.CalendarEntry
	h.mustRun(&list, "calendar", "list", "--month", "2026-03", "--platform", "instagram")
	require.Len(t, list, 1)

	var sum domain.CalendarSummary
	h.mustRun(&sum, "calendar", "summary", "--month", "2026-03")
	assert.Equal(t, int64(2), sum.Totals.TotalPosts)
	assert.Equal(t, int64(2), sum.Totals.InstagramPosts)
	assert.Equal(t, int64(1), sum.Totals.FacebookPosts)

	out, err := h.run("calendar", "summary", "--month", "2026-03", "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "Instagram: 2 | Facebook: 1")
	assert.Contains(t, out, "Unassigned: 1")

	h.mustRun(nil, "calendar", "delete", jsonID(entry.ID))
	h.mustRun(&list, "calendar", "list")
	assert.Len(t, list, 1)
}

func TestSuggestionCommands(t *testing.T) {
	h := newHarness(t)

	var s domain.Suggestion
	h.mustRun(&s, "suggestions", "add", "--title", "Beach content series", "--submitted-by", "Sarah",
		"--priority", "high", "--link", "https://example.com")
	assert.Equal(t, domain.PriorityHigh, s.Priority)
	h.mustRun(nil, "suggestions", "add", "--title", "Paid retargeting", "--submitted-by", "Jordan", "--channel", "paid")

	var list []domain.Suggestion
	h.mustRun(&list, "suggestions", "list", "--submitted-by", "sar")
	require.Len(t, list, 1)

	h.mustRun(&s, "suggestions", "view", jsonID(s.ID))
	assert.Equal(t, "Beach content series", s.Title)

	var res struct {
		Deleted       bool `json:"deleted"`
		ImagesRemoved int  `json:"images_removed"`
	}
	h.mustRun(&res, "suggestions", "delete", jsonID(s.ID))
	assert.True(t, res.Deleted)
	assert.Zero(t, res.ImagesRemoved)

	_, err := h.run("suggestions", "view", jsonID(s.ID))
	require.Error(t, err)
}
