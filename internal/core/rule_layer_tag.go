package core

import (
	"context"
	"fmt"

	"guildcore/pkg/domain"
)

// habitTraits lists the growth-habit tags that place a record in at least one
// guild layer. A record with none of these can never be sampled.
var habitTraits = []string{
	domain.TraitTree,
	domain.TraitShrub,
	domain.TraitHerbForb,
	domain.TraitFern,
	domain.TraitVine,
	domain.TraitRhizome,
	domain.TraitTuber,
	domain.TraitTaproot,
	domain.TraitGroundcover,
}

// NewLayerTagRule returns the in-transaction rule warning about records that
// carry no growth-habit trait. Such rows import fine but are dead weight in
// the collection.
func NewLayerTagRule() domain.Rule {
	return layerTagRule{}
}

type layerTagRule struct{}

func (layerTagRule) Name() string { return "layer_tag" }

func (layerTagRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, plant := range changedPlants(changes) {
		if plant.Traits.AnyTrue(habitTraits...) {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "layer_tag",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("plant %s (%s) has no growth-habit trait and will never be sampled", plant.ID, plant.ScientificName()),
			Entity:   domain.EntityPlant,
			EntityID: plant.ID,
		})
	}
	return res, nil
}

// DefaultRulesEngine constructs an engine with the standard import rules
// registered.
func DefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewScientificNameRule())
	engine.Register(NewZoneRangeRule())
	engine.Register(NewLayerTagRule())
	return engine
}
