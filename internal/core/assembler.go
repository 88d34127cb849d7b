package core

import (
	"math/rand"

	"guildcore/pkg/domain"
)

// canopyHeightThreshold separates canopy from understory trees, in feet.
const canopyHeightThreshold = 50

// treeLayerNames are the layers drawable when trees are included; groundcover
// is never drawn, it is always appended.
var treeLayerNames = []Layer{
	LayerCanopy, LayerUnderstory, LayerShrub, LayerHerb, LayerRhizome, LayerVine,
}

var nonTreeLayerNames = []Layer{
	LayerShrub, LayerHerb, LayerRhizome, LayerVine,
}

var lowerLayerTraits = map[Layer][]string{
	LayerShrub:       {domain.TraitShrub},
	LayerHerb:        {domain.TraitHerbForb, domain.TraitFern},
	LayerVine:        {domain.TraitVine},
	LayerRhizome:     {domain.TraitRhizome, domain.TraitTuber, domain.TraitTaproot},
	LayerGroundcover: {domain.TraitGroundcover},
}

// Assembler draws one guild from a candidate pool under cross-layer
// constraints. The pool and profile are read-only; each Assemble call draws
// its own random numbers and builds a fresh guild, so a single assembler is
// safe for concurrent use when the rand source is, and distinct assemblers
// over the same pool are always safe.
type Assembler struct {
	pool    CandidatePool
	profile SiteProfile
	rng     *rand.Rand
}

// NewAssembler constructs an assembler over an already-filtered pool. rng may
// be nil to use the shared package source.
func NewAssembler(pool CandidatePool, profile SiteProfile, rng *rand.Rand) *Assembler {
	return &Assembler{pool: pool, profile: profile, rng: rng}
}

// Assemble selects one plant per drawn layer plus a groundcover and returns
// them in canonical layer order. It returns a NoCandidateError when a selected
// layer has no compatible plants; no partial guild is ever returned.
func (a *Assembler) Assemble() (Guild, error) {
	drawn := a.drawLayers()

	var entries []GuildEntry
	var canopy *PlantRecord

	canopyPresent := drawn[LayerCanopy]
	understoryPresent := drawn[LayerUnderstory]

	if canopyPresent {
		plant, err := a.sampleCanopy()
		if err != nil {
			return Guild{}, err
		}
		canopy = &plant
		entries = append(entries, newEntry(plant, LayerCanopy))
	}
	if understoryPresent {
		plant, err := a.sampleUnderstory(canopy)
		if err != nil {
			return Guild{}, err
		}
		entries = append(entries, newEntry(plant, LayerUnderstory))
	}

	treeLayersAbove := 0
	if canopyPresent {
		treeLayersAbove++
	}
	if understoryPresent {
		treeLayersAbove++
	}

	for _, layer := range []Layer{LayerShrub, LayerHerb, LayerVine, LayerRhizome} {
		if !drawn[layer] {
			continue
		}
		plant, err := a.sampleLower(layer, treeLayersAbove, false)
		if err != nil {
			return Guild{}, err
		}
		entries = append(entries, newEntry(plant, layer))
	}

	// The guild always carries at least one nitrogen fixer: when none of the
	// selected members fix nitrogen, the groundcover slot must.
	needFixer := !domain.Guild{Entries: entries}.FixesNitrogen()
	groundcover, err := a.sampleLower(LayerGroundcover, treeLayersAbove, needFixer)
	if err != nil {
		return Guild{}, err
	}
	entries = append(entries, newEntry(groundcover, LayerGroundcover))

	return Guild{Entries: entries}, nil
}

func newEntry(plant PlantRecord, layer Layer) GuildEntry {
	return GuildEntry{Plant: plant, Layer: layer, ReferenceURL: plant.ReferenceURL()}
}

// drawLayers picks the guild's layer set: min(numLayers-1, available) distinct
// names uniformly without replacement. The draw clamps to the available layer
// set rather than failing when trees are excluded but a high layer count was
// requested.
func (a *Assembler) drawLayers() map[Layer]bool {
	candidates := nonTreeLayerNames
	if a.profile.IncludeTrees {
		candidates = treeLayerNames
	}
	count := a.profile.NumLayers - 1
	if count > len(candidates) {
		count = len(candidates)
	}
	drawn := make(map[Layer]bool, count)
	for _, idx := range a.perm(len(candidates))[:count] {
		drawn[candidates[idx]] = true
	}
	return drawn
}

func (a *Assembler) sampleCanopy() (PlantRecord, error) {
	top := a.profile.SunTolerances[0]
	set := a.pool.where(func(p PlantRecord) bool {
		return p.Traits.True(domain.TraitTree) &&
			p.Traits.True(top) &&
			p.MinHeight != nil && *p.MinHeight >= canopyHeightThreshold
	})
	return a.sampleOne(set, LayerCanopy)
}

func (a *Assembler) sampleUnderstory(canopy *PlantRecord) (PlantRecord, error) {
	heightCeiling := float64(canopyHeightThreshold)
	levels := a.profile.SunTolerances[:1]
	if canopy != nil {
		levels = a.shadedTolerances(1)
		if canopy.MinHeight != nil && *canopy.MinHeight < heightCeiling {
			heightCeiling = *canopy.MinHeight
		}
	}
	set := a.pool.where(func(p PlantRecord) bool {
		return p.Traits.True(domain.TraitTree) &&
			p.MaxHeight != nil && *p.MaxHeight < canopyHeightThreshold &&
			(canopy == nil || canopy.MinHeight == nil || *p.MaxHeight < heightCeiling) &&
			p.Traits.AnyTrue(levels...)
	})
	return a.sampleOne(set, LayerUnderstory)
}

func (a *Assembler) sampleLower(layer Layer, treeLayersAbove int, requireFixer bool) (PlantRecord, error) {
	traits := lowerLayerTraits[layer]
	levels := a.shadedTolerances(treeLayersAbove)
	set := a.pool.where(func(p PlantRecord) bool {
		if !p.Traits.AnyTrue(traits...) {
			return false
		}
		if requireFixer && !p.Traits.True(domain.TraitNitrogenFixer) {
			return false
		}
		return p.Traits.AnyTrue(levels...)
	})
	return a.sampleOne(set, layer)
}

// shadedTolerances returns the sun levels legal for a layer growing beneath
// the given number of tree layers. With no trees above only the profile's top
// level applies; each tree layer shifts the ladder one level shadier. When
// the shift would exhaust the ladder, it clamps to the shadiest level: the
// top level is never re-admitted beneath a tree layer.
func (a *Assembler) shadedTolerances(treeLayersAbove int) []string {
	s := a.profile.SunTolerances
	if treeLayersAbove == 0 {
		return s[:1]
	}
	if treeLayersAbove > len(s)-1 {
		treeLayersAbove = len(s) - 1
	}
	return s[treeLayersAbove:]
}

// sampleOne draws uniformly from the filtered set; a single-member set is
// deterministic.
func (a *Assembler) sampleOne(set []PlantRecord, layer Layer) (PlantRecord, error) {
	if len(set) == 0 {
		return PlantRecord{}, domain.NoCandidateError{Layer: layer}
	}
	return set[a.intn(len(set))], nil
}

func (a *Assembler) intn(n int) int {
	if a.rng != nil {
		return a.rng.Intn(n)
	}
	return rand.Intn(n)
}

func (a *Assembler) perm(n int) []int {
	if a.rng != nil {
		return a.rng.Perm(n)
	}
	return rand.Perm(n)
}
