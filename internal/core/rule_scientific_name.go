package core

import (
	"context"
	"fmt"
	"strings"

	"guildcore/pkg/domain"
)

// NewScientificNameRule returns the in-transaction rule rejecting records
// without a usable binomial name. The reference URL derives from genus and
// species, so a record missing either is unusable downstream.
func NewScientificNameRule() domain.Rule {
	return scientificNameRule{}
}

type scientificNameRule struct{}

func (scientificNameRule) Name() string { return "scientific_name" }

func (scientificNameRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, plant := range changedPlants(changes) {
		if strings.TrimSpace(plant.Genus) == "" || strings.TrimSpace(plant.Species) == "" {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "scientific_name",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("plant %s missing genus or species", plant.ID),
				Entity:   domain.EntityPlant,
				EntityID: plant.ID,
			})
		}
	}
	return res, nil
}

// changedPlants extracts the post-mutation plant records from a change set,
// skipping deletes.
func changedPlants(changes []domain.Change) []domain.PlantRecord {
	var out []domain.PlantRecord
	for _, change := range changes {
		if change.Entity != domain.EntityPlant || change.Action == domain.ActionDelete {
			continue
		}
		if plant, ok := change.After.(domain.PlantRecord); ok {
			out = append(out, plant)
		}
	}
	return out
}
