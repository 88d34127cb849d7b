package core

import "guildcore/pkg/domain"

// CandidatePool is the subset of the plant collection compatible with a site
// profile. It is immutable for the duration of a guild assembly: layer
// sampling filters fresh views and never mutates the pool.
type CandidatePool struct {
	plants []PlantRecord
}

// NewCandidatePool wraps an already-filtered record slice. The pool takes
// ownership of the slice; callers must not mutate it afterwards.
func NewCandidatePool(plants []PlantRecord) CandidatePool {
	return CandidatePool{plants: plants}
}

// Len reports the number of candidate records.
func (p CandidatePool) Len() int { return len(p.plants) }

// Records returns a copy of the candidate slice.
func (p CandidatePool) Records() []PlantRecord {
	out := make([]PlantRecord, len(p.plants))
	copy(out, p.plants)
	return out
}

// where returns the candidates satisfying the predicate as a fresh slice.
func (p CandidatePool) where(keep func(PlantRecord) bool) []PlantRecord {
	var out []PlantRecord
	for _, plant := range p.plants {
		if keep(plant) {
			out = append(out, plant)
		}
	}
	return out
}

var ediblePartTraits = []string{
	domain.TraitEdibleInnerBark,
	domain.TraitEdibleStems,
	domain.TraitEdibleLeaves,
	domain.TraitEdibleRoots,
	domain.TraitEdibleSap,
	domain.TraitEdibleFruit,
	domain.TraitEdibleFlowers,
	domain.TraitEdibleSeeds,
	domain.TraitEdibleSeedpods,
	domain.TraitEdibleShoots,
}

// FilterCandidates intersects the plant collection with the profile's
// predicates. Unknown traits never satisfy a requirement; the tree exclusion
// only rejects records whose tree trait is present and true. An empty result
// is legal here and only becomes an error once a layer has no candidates.
func FilterCandidates(plants []PlantRecord, profile SiteProfile) CandidatePool {
	var kept []PlantRecord
	for _, plant := range plants {
		if !plant.InZone(profile.Zone) {
			continue
		}
		if !plant.Traits.AnyTrue(profile.SunTolerances...) {
			continue
		}
		if !plant.Traits.True(string(profile.PHBand)) {
			continue
		}
		if !plant.Traits.True(profile.WaterBand) {
			continue
		}
		if !plant.Traits.True(profile.SoilTexture) {
			continue
		}
		if profile.Region != "" && !plant.Traits.True(profile.Region) {
			continue
		}
		if profile.EdibleOnly && !plant.Traits.AnyTrue(ediblePartTraits...) {
			continue
		}
		if !profile.IncludeTrees && plant.Traits.True(domain.TraitTree) {
			continue
		}
		if profile.PerennialOnly && plant.Duration != domain.DurationPerennial {
			continue
		}
		kept = append(kept, plant)
	}
	return NewCandidatePool(kept)
}
