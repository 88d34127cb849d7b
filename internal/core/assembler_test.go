package core

import (
	"errors"
	"math/rand"
	"testing"

	"guildcore/pkg/domain"
)

func assemblerFor(t *testing.T, params SiteParams, plants []PlantRecord, seed int64) *Assembler {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	profile, err := BuildSiteProfile(params, rng)
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	return NewAssembler(FilterCandidates(plants, profile), profile, rng)
}

func layerIndex(layer Layer) int {
	for i, l := range domain.CanonicalLayerOrder {
		if l == layer {
			return i
		}
	}
	return -1
}

func TestAssembleFullGuild(t *testing.T) {
	params := fixtureParams()
	params.NumLayers = intPtr(7)

	for seed := int64(0); seed < 10; seed++ {
		a := assemblerFor(t, params, fixturePool(), seed)
		guild, err := a.Assemble()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(guild.Entries) != 7 {
			t.Fatalf("seed %d: got %d entries, want 7", seed, len(guild.Entries))
		}
		for i := 1; i < len(guild.Entries); i++ {
			if layerIndex(guild.Entries[i-1].Layer) >= layerIndex(guild.Entries[i].Layer) {
				t.Fatalf("seed %d: entries out of canonical order: %v", seed, guild.Layers())
			}
		}
		if !guild.HasLayer(LayerGroundcover) {
			t.Fatalf("seed %d: guild missing groundcover", seed)
		}
		if !guild.FixesNitrogen() {
			t.Fatalf("seed %d: guild has no nitrogen fixer", seed)
		}
	}
}

func TestAssembleEntryCountMatchesLayerCount(t *testing.T) {
	for layers := 2; layers <= 6; layers++ {
		params := fixtureParams()
		params.NumLayers = intPtr(layers)
		a := assemblerFor(t, params, fixturePool(), int64(layers))
		guild, err := a.Assemble()
		if err != nil {
			t.Fatalf("layers %d: %v", layers, err)
		}
		if len(guild.Entries) != layers {
			t.Fatalf("layers %d: got %d entries", layers, len(guild.Entries))
		}
	}
}

func TestAssembleClampsWhenTreesExcluded(t *testing.T) {
	// Without trees only four layers are drawable; a seven-layer request
	// clamps to four drawn layers plus groundcover.
	params := fixtureParams()
	params.IncludeTrees = false
	params.NumLayers = intPtr(7)

	a := assemblerFor(t, params, fixturePool(), 3)
	guild, err := a.Assemble()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(guild.Entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(guild.Entries))
	}
	if guild.HasLayer(LayerCanopy) || guild.HasLayer(LayerUnderstory) {
		t.Fatalf("treeless guild contains a tree layer: %v", guild.Layers())
	}
}

func TestCanopySelection(t *testing.T) {
	params := fixtureParams()
	profile, err := BuildSiteProfile(params, nil)
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	a := NewAssembler(FilterCandidates(fixturePool(), profile), profile, rand.New(rand.NewSource(1)))

	for i := 0; i < 20; i++ {
		plant, err := a.sampleCanopy()
		if err != nil {
			t.Fatalf("sample canopy: %v", err)
		}
		if !plant.Traits.True(domain.TraitTree) {
			t.Fatalf("canopy %s is not a tree", plant.ID)
		}
		if plant.MinHeight == nil || *plant.MinHeight < canopyHeightThreshold {
			t.Fatalf("canopy %s below height threshold", plant.ID)
		}
		if !plant.Traits.True(profile.SunTolerances[0]) {
			t.Fatalf("canopy %s lacks the top sun level", plant.ID)
		}
	}
}

func TestUnderstoryFitsBelowCanopy(t *testing.T) {
	params := fixtureParams()
	profile, err := BuildSiteProfile(params, nil)
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	pool := FilterCandidates(fixturePool(), profile)
	a := NewAssembler(pool, profile, rand.New(rand.NewSource(1)))

	canopy := sitePlant("Quercus", "alba", floatPtr(60), floatPtr(100),
		domain.TraitTree, domain.SunFull)
	for i := 0; i < 20; i++ {
		plant, err := a.sampleUnderstory(&canopy)
		if err != nil {
			t.Fatalf("sample understory: %v", err)
		}
		if !plant.Traits.True(domain.TraitTree) {
			t.Fatalf("understory %s is not a tree", plant.ID)
		}
		if plant.MaxHeight == nil || *plant.MaxHeight >= canopyHeightThreshold {
			t.Fatalf("understory %s too tall", plant.ID)
		}
		if *plant.MaxHeight >= *canopy.MinHeight {
			t.Fatalf("understory %s does not fit under the canopy", plant.ID)
		}
	}
}

func TestUnderstoryWithoutCanopyUsesTopSun(t *testing.T) {
	params := fixtureParams()
	profile, err := BuildSiteProfile(params, nil)
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}

	// With no canopy above, the understory keeps the site's top sun level:
	// Cornus lacks the full-sun tag, so only Asimina qualifies.
	a := NewAssembler(FilterCandidates(fixturePool(), profile), profile, rand.New(rand.NewSource(1)))
	plant, err := a.sampleUnderstory(nil)
	if err != nil {
		t.Fatalf("sample understory: %v", err)
	}
	if plant.ID != "Asimina-triloba" {
		t.Fatalf("got understory %s, want Asimina-triloba", plant.ID)
	}

	var withoutAsimina []PlantRecord
	for _, p := range fixturePool() {
		if p.ID == "Asimina-triloba" {
			continue
		}
		withoutAsimina = append(withoutAsimina, p)
	}
	a = NewAssembler(FilterCandidates(withoutAsimina, profile), profile, rand.New(rand.NewSource(1)))
	_, err = a.sampleUnderstory(nil)
	var nce domain.NoCandidateError
	if !errors.As(err, &nce) {
		t.Fatalf("expected no-candidate error, got %v", err)
	}
	if nce.Layer != LayerUnderstory {
		t.Fatalf("error names layer %q, want understory", nce.Layer)
	}
}

func TestGroundcoverRequiresFixerWhenGuildHasNone(t *testing.T) {
	params := fixtureParams()
	params.IncludeTrees = false
	params.NumLayers = intPtr(2)

	// No lower-layer fixture fixes nitrogen, so the groundcover slot must.
	for seed := int64(0); seed < 30; seed++ {
		a := assemblerFor(t, params, fixturePool(), seed)
		guild, err := a.Assemble()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		last := guild.Entries[len(guild.Entries)-1]
		if last.Layer != LayerGroundcover {
			t.Fatalf("seed %d: last entry is %s", seed, last.Layer)
		}
		if last.Plant.ID != "Trifolium-repens" {
			t.Fatalf("seed %d: groundcover %s is not the fixer", seed, last.Plant.ID)
		}
	}
}

func TestGroundcoverUnrestrictedWhenFixerPresent(t *testing.T) {
	params := fixtureParams()
	params.IncludeTrees = false
	params.NumLayers = intPtr(5)

	// Whenever the shrub draw lands on the nitrogen fixer the groundcover
	// draw is unrestricted, so both groundcovers appear across seeds.
	fixerShrub := sitePlant("Elaeagnus", "umbellata", nil, floatPtr(15),
		domain.TraitShrub, domain.TraitNitrogenFixer,
		domain.SunFull, domain.SunPartialOrDappled)
	plants := append(fixturePool(), fixerShrub)

	seen := map[string]bool{}
	for seed := int64(0); seed < 60; seed++ {
		a := assemblerFor(t, params, plants, seed)
		guild, err := a.Assemble()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		last := guild.Entries[len(guild.Entries)-1]
		seen[last.Plant.ID] = true
	}
	if !seen["Trifolium-repens"] || !seen["Fragaria-virginiana"] {
		t.Fatalf("expected both groundcovers across seeds, saw %v", seen)
	}
}

func TestAssembleNoCandidateAborts(t *testing.T) {
	params := fixtureParams()
	params.NumLayers = intPtr(7)

	// Remove every groundcover: assembly must fail, never return a partial
	// guild.
	var plants []PlantRecord
	for _, p := range fixturePool() {
		if p.Traits.True(domain.TraitGroundcover) {
			continue
		}
		plants = append(plants, p)
	}
	a := assemblerFor(t, params, plants, 1)
	guild, err := a.Assemble()
	var nce domain.NoCandidateError
	if !errors.As(err, &nce) {
		t.Fatalf("expected no-candidate error, got %v", err)
	}
	if len(guild.Entries) != 0 {
		t.Fatalf("partial guild returned alongside error")
	}
}

func TestShadedTolerances(t *testing.T) {
	cases := []struct {
		ladder []string
		above  int
		want   []string
	}{
		{[]string{"a", "b", "c"}, 0, []string{"a"}},
		{[]string{"a", "b", "c"}, 1, []string{"b", "c"}},
		{[]string{"a", "b", "c"}, 2, []string{"c"}},
		// Overrunning the ladder clamps to the shadiest level; the top
		// level never becomes legal again beneath a tree layer.
		{[]string{"a", "b", "c"}, 3, []string{"c"}},
		{[]string{"a", "b", "c"}, 5, []string{"c"}},
		// Canopy plus understory over a two-level ladder: only the
		// shadiest level survives.
		{[]string{domain.SunPartialToFullShade, domain.SunFullShade}, 2, []string{domain.SunFullShade}},
		// A one-level ladder cannot shift at all.
		{[]string{"a"}, 1, []string{"a"}},
		{[]string{"a"}, 2, []string{"a"}},
	}
	for _, tc := range cases {
		a := NewAssembler(CandidatePool{}, SiteProfile{SunTolerances: tc.ladder}, nil)
		got := a.shadedTolerances(tc.above)
		if len(got) != len(tc.want) {
			t.Fatalf("above=%d: got %v, want %v", tc.above, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("above=%d: got %v, want %v", tc.above, got, tc.want)
			}
		}
	}
}

func TestSameSpeciesMayFillTwoLayers(t *testing.T) {
	// A record tagged both vine and groundcover may legally occupy both
	// slots in one guild.
	params := fixtureParams()
	params.IncludeTrees = false
	params.NumLayers = intPtr(2)

	dual := sitePlant("Apios", "americana", nil, nil,
		domain.TraitVine, domain.TraitGroundcover, domain.TraitNitrogenFixer,
		domain.SunFull, domain.SunPartialOrDappled)

	sawBoth := false
	for seed := int64(0); seed < 40 && !sawBoth; seed++ {
		a := assemblerFor(t, params, []PlantRecord{dual}, seed)
		guild, err := a.Assemble()
		if err != nil {
			// Only the vine draw can succeed with a single record.
			continue
		}
		if guild.HasLayer(LayerVine) && guild.HasLayer(LayerGroundcover) {
			sawBoth = true
		}
	}
	if !sawBoth {
		t.Fatalf("never saw one species in two layers")
	}
}
