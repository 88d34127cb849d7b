package core

import "guildcore/pkg/domain"

type (
	EntityType            = domain.EntityType
	Layer                 = domain.Layer
	PHBand                = domain.PHBand
	TraitBag              = domain.TraitBag
	Base                  = domain.Base
	PlantRecord           = domain.PlantRecord
	Guild                 = domain.Guild
	GuildEntry            = domain.GuildEntry
	Change                = domain.Change
	Action                = domain.Action
	Severity              = domain.Severity
	Violation             = domain.Violation
	Result                = domain.Result
	Rule                  = domain.Rule
	RulesEngine           = domain.RulesEngine
	RuleViolationError    = domain.RuleViolationError
	InvalidParameterError = domain.InvalidParameterError
	NoCandidateError      = domain.NoCandidateError
)

const (
	EntityPlant = domain.EntityPlant

	LayerCanopy      = domain.LayerCanopy
	LayerUnderstory  = domain.LayerUnderstory
	LayerShrub       = domain.LayerShrub
	LayerHerb        = domain.LayerHerb
	LayerVine        = domain.LayerVine
	LayerRhizome     = domain.LayerRhizome
	LayerGroundcover = domain.LayerGroundcover

	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog

	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)

// NewRulesEngine re-exports the domain constructor for callers wiring stores.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }
