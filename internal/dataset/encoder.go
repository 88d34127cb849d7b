package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"guildcore/pkg/domain"
)

// EncodeCSV writes the plant collection in the scraped dataset's column
// layout: the typed columns first, then every schema trait in schema order.
// DecodeCSV accepts the output unchanged.
func EncodeCSV(w io.Writer, plants []domain.PlantRecord) error {
	writer := csv.NewWriter(w)
	traits := traitColumns()
	header := []string{
		columnGenus, columnSpecies, columnCommonName, columnDuration,
		columnMinZone, columnMaxZone, columnMinHeight, columnMaxHeight,
	}
	header = append(header, traits...)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, plant := range plants {
		row := []string{
			plant.Genus,
			plant.Species,
			plant.CommonName,
			plant.Duration,
			strconv.Itoa(plant.MinZone),
			formatIntPtr(plant.MaxZone),
			formatFloatPtr(plant.MinHeight),
			formatFloatPtr(plant.MaxHeight),
		}
		for _, trait := range traits {
			row = append(row, formatTrait(plant.Traits, trait))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// traitColumns returns the schema trait names in a stable export order.
func traitColumns() []string {
	schema := domain.Schema()
	out := make([]string, 0, 48)
	out = append(out, schema.Habits...)
	out = append(out, schema.SoilClasses...)
	out = append(out, schema.SunLevels...)
	out = append(out, schema.WaterBands...)
	for _, band := range schema.PHBands {
		out = append(out, string(band))
	}
	out = append(out, schema.EdibleParts...)
	out = append(out, schema.Regions...)
	out = append(out, schema.Singular...)
	return out
}

func formatTrait(traits domain.TraitBag, name string) string {
	value, ok := traits[name]
	if !ok {
		return ""
	}
	if value {
		return "True"
	}
	return "False"
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}
