package core

import (
	"fmt"
	"math/rand"
	"strings"

	"guildcore/pkg/domain"
)

// SiteParams carries the raw site inputs supplied by the request layer. The
// core performs no HTTP or form parsing; values arrive here already typed.
type SiteParams struct {
	Zone          int      `json:"zone"`
	PH            float64  `json:"ph"`
	Sun           string   `json:"sun"`
	SoilTexture   string   `json:"soil_texture"`
	Water         string   `json:"water"`
	Region        string   `json:"region,omitempty"`
	IncludeTrees  bool     `json:"include_trees"`
	EdibleOnly    bool     `json:"edible_only"`
	PerennialOnly bool     `json:"perennial_only"`
	NumLayers     *int     `json:"num_layers,omitempty"`
}

// SiteProfile is the canonical, immutable form of a set of site parameters.
// It is constructed once per parameter set and reused across repeated
// assembly calls.
type SiteProfile struct {
	Zone          int
	PHBand        PHBand
	SunTolerances []string
	SoilTexture   string
	WaterBand     string
	Region        string
	IncludeTrees  bool
	EdibleOnly    bool
	PerennialOnly bool
	NumLayers     int
}

// sunLevels is the fixed tolerance ladder from most sun-loving to most
// shade-tolerant. Matching is positional: choosing a level yields the suffix
// of the ladder starting at that level.
var sunLevels = []string{
	domain.SunFull,
	domain.SunFullToPartial,
	domain.SunPartialOrDappled,
	domain.SunPartialToFullShade,
	domain.SunFullShade,
}

var waterBands = []string{
	domain.WaterInWater,
	domain.WaterWet,
	domain.WaterWetMesic,
	domain.WaterMesic,
	domain.WaterDryMesic,
	domain.WaterDry,
}

// Soil texture triangle categories mapped to the three coarse classes.
var soilTextureClasses = map[string]string{
	"coarse":               domain.TraitCoarseSoil,
	"sand":                 domain.TraitCoarseSoil,
	"coarse sand":          domain.TraitCoarseSoil,
	"fine sand":            domain.TraitCoarseSoil,
	"loamy coarse sand":    domain.TraitCoarseSoil,
	"loamy fine sand":      domain.TraitCoarseSoil,
	"loamy very fine sand": domain.TraitCoarseSoil,
	"very fine sand":       domain.TraitCoarseSoil,
	"loamy sand":           domain.TraitCoarseSoil,

	"medium":               domain.TraitMediumSoil,
	"silt":                 domain.TraitMediumSoil,
	"sandy clay loam":      domain.TraitMediumSoil,
	"very fine sandy loam": domain.TraitMediumSoil,
	"silty clay loam":      domain.TraitMediumSoil,
	"silt loam":            domain.TraitMediumSoil,
	"loam":                 domain.TraitMediumSoil,
	"fine sandy loam":      domain.TraitMediumSoil,
	"sandy loam":           domain.TraitMediumSoil,
	"coarse sandy loam":    domain.TraitMediumSoil,
	"clay loam":            domain.TraitMediumSoil,

	"fine":       domain.TraitFineSoil,
	"sandy clay": domain.TraitFineSoil,
	"silty clay": domain.TraitFineSoil,
	"clay":       domain.TraitFineSoil,
}

var regionStates = map[string][]string{
	domain.RegionNortheast: {"ME", "NH", "VT", "MA", "RI", "CT", "NY", "NJ", "PA", "DE", "MD", "WV", "VA"},
	domain.RegionSoutheast: {"NC", "TN", "AR", "SC", "GA", "AL", "MS", "LA", "FL"},
	domain.RegionMidwest:   {"MN", "WI", "MI", "IA", "IL", "IN", "OH", "MO", "KY"},
	domain.RegionPlains:    {"MT", "ND", "WY", "SD", "NE", "CO", "KS", "NM", "TX", "OK"},
	domain.RegionPacific:   {"WA", "OR", "ID", "CA", "NV", "UT", "AZ"},
}

const (
	minGuildLayers = 2
	maxGuildLayers = 7
)

// BandPH maps a continuous pH reading to its acidity band. Readings outside
// [3.5, 9.0] clamp to the terminal bands rather than failing, since real soil
// occasionally measures past the scale.
func BandPH(ph float64) PHBand {
	switch {
	case ph < 4.5:
		return domain.PHExtremelyAcid
	case ph < 5.1:
		return domain.PHVeryStronglyAcid
	case ph < 5.6:
		return domain.PHStronglyAcid
	case ph < 6.1:
		return domain.PHModeratelyAcid
	case ph < 6.6:
		return domain.PHSlightlyAcid
	case ph < 7.4:
		return domain.PHNeutral
	case ph < 7.9:
		return domain.PHSlightlyAlkaline
	case ph < 8.5:
		return domain.PHModeratelyAlkaline
	default:
		return domain.PHStronglyAlkaline
	}
}

// RegionStates returns the state abbreviations belonging to a native region,
// used when cross-referencing the USDA source during import.
func RegionStates(region string) ([]string, bool) {
	states, ok := regionStates[region]
	if !ok {
		return nil, false
	}
	return append([]string(nil), states...), true
}

func normalizeTexture(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// BuildSiteProfile normalizes raw site parameters into canonical filter
// predicates. When NumLayers is unset, a layer count is drawn uniformly from
// [2,7] once and fixed for the profile's lifetime. rng may be nil, in which
// case the shared package source is used.
func BuildSiteProfile(params SiteParams, rng *rand.Rand) (SiteProfile, error) {
	if params.Zone < 1 || params.Zone > 10 {
		return SiteProfile{}, domain.InvalidParameterError{
			Param: "zone", Value: fmt.Sprintf("%d", params.Zone),
			Reason: "hardiness zone must be in [1,10]",
		}
	}

	sun := strings.ToLower(strings.TrimSpace(params.Sun))
	sunIdx := -1
	for i, level := range sunLevels {
		if level == sun {
			sunIdx = i
			break
		}
	}
	if sunIdx < 0 {
		return SiteProfile{}, domain.InvalidParameterError{
			Param: "sun", Value: params.Sun, Reason: "unknown sun level",
		}
	}

	texture, ok := soilTextureClasses[normalizeTexture(params.SoilTexture)]
	if !ok {
		return SiteProfile{}, domain.InvalidParameterError{
			Param: "soil_texture", Value: params.SoilTexture,
			Reason: "not a soil texture triangle category",
		}
	}

	water := strings.ToLower(strings.TrimSpace(params.Water))
	waterOK := false
	for _, band := range waterBands {
		if band == water {
			waterOK = true
			break
		}
	}
	if !waterOK {
		return SiteProfile{}, domain.InvalidParameterError{
			Param: "water", Value: params.Water, Reason: "unknown moisture band",
		}
	}

	region := strings.ToLower(strings.TrimSpace(params.Region))
	if region == "all" {
		region = ""
	}
	if region != "" {
		if _, ok := regionStates[region]; !ok {
			return SiteProfile{}, domain.InvalidParameterError{
				Param: "region", Value: params.Region, Reason: "unknown native region",
			}
		}
	}

	numLayers := 0
	if params.NumLayers != nil {
		numLayers = *params.NumLayers
		if numLayers < minGuildLayers || numLayers > maxGuildLayers {
			return SiteProfile{}, domain.InvalidParameterError{
				Param: "num_layers", Value: fmt.Sprintf("%d", numLayers),
				Reason: fmt.Sprintf("layer count must be in [%d,%d]", minGuildLayers, maxGuildLayers),
			}
		}
	} else {
		numLayers = minGuildLayers + intn(rng, maxGuildLayers-minGuildLayers+1)
	}

	// Truncated copy so the profile never aliases the package-level ladder.
	tolerances := append([]string(nil), sunLevels[sunIdx:]...)

	return SiteProfile{
		Zone:          params.Zone,
		PHBand:        BandPH(params.PH),
		SunTolerances: tolerances,
		SoilTexture:   texture,
		WaterBand:     water,
		Region:        region,
		IncludeTrees:  params.IncludeTrees,
		EdibleOnly:    params.EdibleOnly,
		PerennialOnly: params.PerennialOnly,
		NumLayers:     numLayers,
	}, nil
}

// MinWinterTempF returns the minimum winter temperature floor for the
// profile's hardiness zone, used when cross-referencing temperature-based
// sources. Zone n maps to -70+10n degrees Fahrenheit.
func (p SiteProfile) MinWinterTempF() int {
	return -70 + 10*p.Zone
}

func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}
