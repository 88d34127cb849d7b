package core

import (
	"context"
	"fmt"

	"guildcore/pkg/domain"
)

// NewZoneRangeRule returns the in-transaction rule enforcing hardiness zone
// sanity on imported records.
func NewZoneRangeRule() domain.Rule {
	return zoneRangeRule{}
}

type zoneRangeRule struct{}

func (zoneRangeRule) Name() string { return "zone_range" }

func (zoneRangeRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, plant := range changedPlants(changes) {
		if plant.MinZone < 1 || plant.MinZone > 10 {
			res.Violations = append(res.Violations, violationFor(plant,
				fmt.Sprintf("min zone %d outside 1..10", plant.MinZone)))
			continue
		}
		if plant.MaxZone != nil && *plant.MaxZone < plant.MinZone {
			res.Violations = append(res.Violations, violationFor(plant,
				fmt.Sprintf("max zone %d below min zone %d", *plant.MaxZone, plant.MinZone)))
		}
	}
	return res, nil
}

func violationFor(plant domain.PlantRecord, message string) domain.Violation {
	return domain.Violation{
		Rule:     "zone_range",
		Severity: domain.SeverityBlock,
		Message:  fmt.Sprintf("plant %s (%s): %s", plant.ID, plant.ScientificName(), message),
		Entity:   domain.EntityPlant,
		EntityID: plant.ID,
	}
}
