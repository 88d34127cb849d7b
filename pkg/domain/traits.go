package domain

// Canonical trait names follow the column labels of the scraped source
// dataset (lowercase, including the pH band range suffixes).
const (
	TraitTree        = "tree"
	TraitShrub       = "shrub"
	TraitHerbForb    = "herb/forb"
	TraitFern        = "fern"
	TraitVine        = "vine"
	TraitRhizome     = "rhizome"
	TraitTuber       = "tuber"
	TraitTaproot     = "taproot"
	TraitGroundcover = "groundcover"
	TraitCactus      = "cactus/succulent"
	TraitGrass       = "grass/grass-like"

	TraitCoarseSoil = "coarse soil"
	TraitMediumSoil = "medium soil"
	TraitFineSoil   = "fine soil"

	TraitNitrogenFixer = "nitrogen fixer"
)

// Sun tolerance tags, ordered from most sun-loving to most shade-tolerant.
const (
	SunFull               = "full sun"
	SunFullToPartial      = "full sun to partial shade"
	SunPartialOrDappled   = "partial or dappled shade"
	SunPartialToFullShade = "partial shade to full shade"
	SunFullShade          = "full shade"
)

// Moisture band tags, ordered from wettest to driest.
const (
	WaterInWater  = "in water"
	WaterWet      = "wet"
	WaterWetMesic = "wet mesic"
	WaterMesic    = "mesic"
	WaterDryMesic = "dry mesic"
	WaterDry      = "dry"
)

// PHBand names the eight soil acidity bands used as trait tags. The range
// suffixes match the source dataset's column labels exactly.
type PHBand string

// Acidity bands from most acid to most alkaline.
const (
	PHExtremelyAcid      PHBand = "extremely acid (3.5 - 4.4)"
	PHVeryStronglyAcid   PHBand = "very strongly acid (4.5 - 5.0)"
	PHStronglyAcid       PHBand = "strongly acid (5.1 - 5.5)"
	PHModeratelyAcid     PHBand = "moderately acid (5.6 - 6.0)"
	PHSlightlyAcid       PHBand = "slightly acid (6.1 - 6.5)"
	PHNeutral            PHBand = "neutral (6.6 - 7.3)"
	PHSlightlyAlkaline   PHBand = "slightly alkaline (7.4 - 7.8)"
	PHModeratelyAlkaline PHBand = "moderately alkaline (7.9 - 8.4)"
	PHStronglyAlkaline   PHBand = "strongly alkaline (8.5 - 9.0)"
)

// Edible-part tags recognised by the edible-only filter.
const (
	TraitEdibleInnerBark = "edible inner bark"
	TraitEdibleStems     = "edible stems"
	TraitEdibleLeaves    = "edible leaves"
	TraitEdibleRoots     = "edible roots"
	TraitEdibleSap       = "edible sap"
	TraitEdibleFruit     = "edible fruit"
	TraitEdibleFlowers   = "edible flowers"
	TraitEdibleSeeds     = "edible seeds"
	TraitEdibleSeedpods  = "edible seedpods"
	TraitEdibleShoots    = "edible shoots"
)

// Native-region tags carried over from the USDA cross-reference.
const (
	RegionNortheast = "northeast"
	RegionSoutheast = "southeast"
	RegionMidwest   = "midwest"
	RegionPlains    = "plains"
	RegionPacific   = "pacific"
)

// DurationPerennial is the life-cycle label selected by the perennial-only filter.
const DurationPerennial = "Perennial"

// TraitSchema is an immutable description of the known trait vocabulary,
// grouped by concern. It is computed once at package init and must never be
// mutated afterwards; the import pipeline consults it to flag unknown columns.
type TraitSchema struct {
	Habits      []string
	SoilClasses []string
	SunLevels   []string
	WaterBands  []string
	PHBands     []PHBand
	EdibleParts []string
	Regions     []string
	Singular    []string
}

// Names returns every trait name in the schema as a flat lookup set.
func (s TraitSchema) Names() map[string]struct{} {
	out := make(map[string]struct{})
	for _, n := range s.Habits {
		out[n] = struct{}{}
	}
	for _, n := range s.SoilClasses {
		out[n] = struct{}{}
	}
	for _, n := range s.SunLevels {
		out[n] = struct{}{}
	}
	for _, n := range s.WaterBands {
		out[n] = struct{}{}
	}
	for _, b := range s.PHBands {
		out[string(b)] = struct{}{}
	}
	for _, n := range s.EdibleParts {
		out[n] = struct{}{}
	}
	for _, n := range s.Regions {
		out[n] = struct{}{}
	}
	for _, n := range s.Singular {
		out[n] = struct{}{}
	}
	return out
}

// Schema returns the canonical trait schema. The returned value shares no
// state with callers of previous invocations.
func Schema() TraitSchema {
	return TraitSchema{
		Habits: []string{
			TraitTree, TraitShrub, TraitHerbForb, TraitFern, TraitVine,
			TraitRhizome, TraitTuber, TraitTaproot, TraitGroundcover,
			TraitCactus, TraitGrass,
		},
		SoilClasses: []string{TraitCoarseSoil, TraitMediumSoil, TraitFineSoil},
		SunLevels: []string{
			SunFull, SunFullToPartial, SunPartialOrDappled,
			SunPartialToFullShade, SunFullShade,
		},
		WaterBands: []string{
			WaterInWater, WaterWet, WaterWetMesic, WaterMesic,
			WaterDryMesic, WaterDry,
		},
		PHBands: []PHBand{
			PHExtremelyAcid, PHVeryStronglyAcid, PHStronglyAcid,
			PHModeratelyAcid, PHSlightlyAcid, PHNeutral,
			PHSlightlyAlkaline, PHModeratelyAlkaline, PHStronglyAlkaline,
		},
		EdibleParts: []string{
			TraitEdibleInnerBark, TraitEdibleStems, TraitEdibleLeaves,
			TraitEdibleRoots, TraitEdibleSap, TraitEdibleFruit,
			TraitEdibleFlowers, TraitEdibleSeeds, TraitEdibleSeedpods,
			TraitEdibleShoots,
		},
		Regions: []string{
			RegionNortheast, RegionSoutheast, RegionMidwest,
			RegionPlains, RegionPacific,
		},
		Singular: []string{TraitNitrogenFixer},
	}
}
