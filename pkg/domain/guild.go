package domain

// GuildEntry assigns one selected plant to one guild layer.
type GuildEntry struct {
	Plant        PlantRecord `json:"plant"`
	Layer        Layer       `json:"layer"`
	ReferenceURL string      `json:"reference_url"`
}

// Guild is an ordered set of companion plants, one entry per selected layer,
// in canonical layer order. A guild is a fresh value per assembly call and
// shares no mutable state with the candidate pool it was drawn from.
type Guild struct {
	Entries []GuildEntry `json:"entries"`
}

// Layers returns the layer names present in the guild, in output order.
func (g Guild) Layers() []Layer {
	out := make([]Layer, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = e.Layer
	}
	return out
}

// HasLayer reports whether the guild contains an entry for the given layer.
func (g Guild) HasLayer(layer Layer) bool {
	for _, e := range g.Entries {
		if e.Layer == layer {
			return true
		}
	}
	return false
}

// FixesNitrogen reports whether any guild member carries the nitrogen fixer trait.
func (g Guild) FixesNitrogen() bool {
	for _, e := range g.Entries {
		if e.Plant.Traits.True(TraitNitrogenFixer) {
			return true
		}
	}
	return false
}
