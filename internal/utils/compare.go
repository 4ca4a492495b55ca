package utils

import "gearshare-backend/internal/domain"

// CompareInspections produces the condition-degradation report that gates the
// return path. Items are matched by name; an item present in only one of the
// two inspections cannot be compared and is ignored.
func CompareInspections(pickup, ret *domain.Inspection) domain.ComparisonReport {
	before := make(map[string]domain.ConditionStatus, len(pickup.Checklist))
	for _, item := range pickup.Checklist {
		before[item.ItemName] = item.Status
	}

	report := domain.ComparisonReport{}
	for _, item := range ret.Checklist {
		from, ok := before[item.ItemName]
		if !ok {
			continue
		}
		if item.Status.Rank() < from.Rank() {
			report.Items = append(report.Items, domain.DegradedItem{
				Name: item.ItemName,
				From: from,
				To:   item.Status,
			})
		}
	}
	report.Degraded = len(report.Items) > 0
	return report
}
