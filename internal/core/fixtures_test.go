package core

import (
	"guildcore/pkg/domain"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// fixturePlant builds a perennial record with every listed trait set true.
func fixturePlant(genus, species string, minHeight, maxHeight *float64, traits ...string) PlantRecord {
	bag := make(domain.TraitBag, len(traits))
	for _, t := range traits {
		bag[t] = true
	}
	return PlantRecord{
		Base:      domain.Base{ID: genus + "-" + species},
		Genus:     genus,
		Species:   species,
		Traits:    bag,
		Duration:  domain.DurationPerennial,
		MinZone:   3,
		MinHeight: minHeight,
		MaxHeight: maxHeight,
	}
}

// siteTraits are the predicates every member of the zone-7 fixture site
// satisfies: slightly acid soil at ph 6.5, mesic moisture, medium texture.
var siteTraits = []string{
	string(domain.PHSlightlyAcid),
	domain.WaterMesic,
	domain.TraitMediumSoil,
}

// sitePlant is fixturePlant plus the shared site traits.
func sitePlant(genus, species string, minHeight, maxHeight *float64, traits ...string) PlantRecord {
	return fixturePlant(genus, species, minHeight, maxHeight, append(traits, siteTraits...)...)
}

// fixturePool returns a pool covering every layer of a treed guild. All
// members tolerate the fixture site; sun tags vary per stratum.
func fixturePool() []PlantRecord {
	return []PlantRecord{
		sitePlant("Quercus", "alba", floatPtr(60), floatPtr(100),
			domain.TraitTree, domain.SunFull, domain.TraitEdibleSeeds),
		sitePlant("Pinus", "strobus", floatPtr(55), floatPtr(120),
			domain.TraitTree, domain.SunFull),
		sitePlant("Cornus", "florida", floatPtr(15), floatPtr(25),
			domain.TraitTree, domain.SunFullToPartial, domain.SunPartialOrDappled),
		sitePlant("Asimina", "triloba", floatPtr(11), floatPtr(35),
			domain.TraitTree, domain.SunFull, domain.SunFullToPartial,
			domain.SunPartialOrDappled, domain.TraitEdibleFruit),
		sitePlant("Corylus", "americana", nil, floatPtr(12),
			domain.TraitShrub, domain.SunFull, domain.SunPartialOrDappled,
			domain.TraitEdibleSeeds),
		sitePlant("Symphytum", "officinale", nil, floatPtr(3),
			domain.TraitHerbForb, domain.SunFull, domain.SunPartialOrDappled,
			domain.TraitEdibleLeaves),
		sitePlant("Vitis", "riparia", nil, nil,
			domain.TraitVine, domain.SunFull, domain.SunPartialOrDappled,
			domain.TraitEdibleFruit),
		sitePlant("Asarum", "canadense", nil, floatPtr(1),
			domain.TraitRhizome, domain.SunFull, domain.SunPartialOrDappled),
		sitePlant("Trifolium", "repens", nil, floatPtr(1),
			domain.TraitGroundcover, domain.TraitNitrogenFixer,
			domain.SunFull, domain.SunPartialOrDappled),
		sitePlant("Fragaria", "virginiana", nil, floatPtr(1),
			domain.TraitGroundcover, domain.SunFull, domain.SunPartialOrDappled,
			domain.TraitEdibleFruit),
	}
}

// fixtureParams are the raw site parameters matching the fixture pool.
func fixtureParams() SiteParams {
	return SiteParams{
		Zone:          7,
		PH:            6.5,
		Sun:           domain.SunFull,
		SoilTexture:   "loam",
		Water:         domain.WaterMesic,
		IncludeTrees:  true,
		PerennialOnly: true,
		NumLayers:     intPtr(4),
	}
}
