package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gearshare-backend/internal/domain"
)

func TestCompareInspections(t *testing.T) {
	t.Run("Degraded Tire Is Reported", func(t *testing.T) {
		pickup := &domain.Inspection{Checklist: []domain.ChecklistItem{
			{ItemName: "tires", Status: domain.ConditionGood},
			{ItemName: "chassis", Status: domain.ConditionGood},
		}}
		ret := &domain.Inspection{Checklist: []domain.ChecklistItem{
			{ItemName: "tires", Status: domain.ConditionDamaged},
			{ItemName: "chassis", Status: domain.ConditionGood},
		}}

		report := CompareInspections(pickup, ret)
		assert.True(t, report.Degraded)
		assert.Len(t, report.Items, 1)
		assert.Equal(t, "tires", report.Items[0].Name)
		assert.Equal(t, domain.ConditionGood, report.Items[0].From)
		assert.Equal(t, domain.ConditionDamaged, report.Items[0].To)
	})

	t.Run("Identical Checklists Are Clean", func(t *testing.T) {
		items := []domain.ChecklistItem{
			{ItemName: "tires", Status: domain.ConditionFair},
			{ItemName: "bucket", Status: domain.ConditionGood},
		}
		report := CompareInspections(&domain.Inspection{Checklist: items}, &domain.Inspection{Checklist: items})
		assert.False(t, report.Degraded)
		assert.Empty(t, report.Items)
	})

	t.Run("Improvement Is Not Degradation", func(t *testing.T) {
		pickup := &domain.Inspection{Checklist: []domain.ChecklistItem{
			{ItemName: "tires", Status: domain.ConditionFair},
		}}
		ret := &domain.Inspection{Checklist: []domain.ChecklistItem{
			{ItemName: "tires", Status: domain.ConditionGood},
		}}
		report := CompareInspections(pickup, ret)
		assert.False(t, report.Degraded)
	})

	t.Run("One Sided Items Are Ignored", func(t *testing.T) {
		pickup := &domain.Inspection{Checklist: []domain.ChecklistItem{
			{ItemName: "tires", Status: domain.ConditionGood},
		}}
		ret := &domain.Inspection{Checklist: []domain.ChecklistItem{
			{ItemName: "hydraulics", Status: domain.ConditionDamaged},
		}}
		report := CompareInspections(pickup, ret)
		assert.False(t, report.Degraded)
		assert.Empty(t, report.Items)
	})

	t.Run("Fair To Damaged Counts", func(t *testing.T) {
		pickup := &domain.Inspection{Checklist: []domain.ChecklistItem{
			{ItemName: "bucket", Status: domain.ConditionFair},
		}}
		ret := &domain.Inspection{Checklist: []domain.ChecklistItem{
			{ItemName: "bucket", Status: domain.ConditionDamaged},
		}}
		report := CompareInspections(pickup, ret)
		assert.True(t, report.Degraded)
		assert.Len(t, report.Items, 1)
	})
}
