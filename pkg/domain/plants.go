// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by guildcore.
package domain

import (
	"fmt"
	"net/url"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityPlant identifies a candidate plant record.
	EntityPlant EntityType = "plant"
)

// Layer represents a vertical stratum within a guild.
type Layer string

// Canonical guild layers, ordered from tallest to lowest.
const (
	LayerCanopy      Layer = "canopy"
	LayerUnderstory  Layer = "understory"
	LayerShrub       Layer = "shrub"
	LayerHerb        Layer = "herb"
	LayerVine        Layer = "vine"
	LayerRhizome     Layer = "rhizome"
	LayerGroundcover Layer = "groundcover"
)

// CanonicalLayerOrder lists every layer in guild output order.
var CanonicalLayerOrder = []Layer{
	LayerCanopy,
	LayerUnderstory,
	LayerShrub,
	LayerHerb,
	LayerVine,
	LayerRhizome,
	LayerGroundcover,
}

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TraitBag maps canonical trait names to boolean values with explicit
// presence semantics. A trait that is missing from the bag is unknown, which
// is distinct from present-and-false: unknown traits never satisfy a positive
// filter requirement, and never satisfy a negative one either.
type TraitBag map[string]bool

// Has reports the trait value and whether the trait is known at all.
func (t TraitBag) Has(name string) (value, known bool) {
	v, ok := t[name]
	return v, ok
}

// True reports whether the trait is present and set.
func (t TraitBag) True(name string) bool {
	return t[name]
}

// AnyTrue reports whether at least one of the named traits is present and set.
func (t TraitBag) AnyTrue(names ...string) bool {
	for _, name := range names {
		if t[name] {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the bag.
func (t TraitBag) Clone() TraitBag {
	if t == nil {
		return nil
	}
	cp := make(TraitBag, len(t))
	for k, v := range t {
		cp[k] = v
	}
	return cp
}

// PlantRecord is one row of the candidate plant collection, produced by the
// external data-acquisition pipeline. Genus and species form the scientific
// name but are not guaranteed unique across varieties.
type PlantRecord struct {
	Base
	Genus      string   `json:"genus"`
	Species    string   `json:"species"`
	CommonName string   `json:"common_name,omitempty"`
	Traits     TraitBag `json:"traits"`
	// Duration is the life-cycle label from the source dataset
	// ("Perennial", "Annual", "Biennial"); empty means unknown.
	Duration string `json:"duration,omitempty"`
	// MinZone is the minimum cold-hardiness zone. MaxZone nil means the
	// record is compatible with any zone at or above MinZone.
	MinZone int  `json:"min_zone"`
	MaxZone *int `json:"max_zone"`
	// Heights are in feet as published by the source dataset. Nil means
	// the source did not report the bound.
	MinHeight *float64 `json:"min_height"`
	MaxHeight *float64 `json:"max_height"`
}

// ScientificName returns the binomial name.
func (p PlantRecord) ScientificName() string {
	return fmt.Sprintf("%s %s", p.Genus, p.Species)
}

// ReferenceURL derives the external Plants For A Future lookup URL for the record.
func (p PlantRecord) ReferenceURL() string {
	return fmt.Sprintf("https://pfaf.org/user/Plant.aspx?LatinName=%s+%s",
		url.QueryEscape(p.Genus), url.QueryEscape(p.Species))
}

// InZone reports whether the record tolerates the given hardiness zone.
func (p PlantRecord) InZone(zone int) bool {
	if p.MinZone > zone {
		return false
	}
	return p.MaxZone == nil || *p.MaxZone >= zone
}

// Clone returns a deep copy of the record.
func (p PlantRecord) Clone() PlantRecord {
	cp := p
	cp.Traits = p.Traits.Clone()
	if p.MaxZone != nil {
		v := *p.MaxZone
		cp.MaxZone = &v
	}
	if p.MinHeight != nil {
		v := *p.MinHeight
		cp.MinHeight = &v
	}
	if p.MaxHeight != nil {
		v := *p.MaxHeight
		cp.MaxHeight = &v
	}
	return cp
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)
