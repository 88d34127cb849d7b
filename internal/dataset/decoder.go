// Package dataset decodes scraped plant dataset artifacts and feeds them into
// the service layer. The upstream pipeline writes one CSV per scrape with
// lowercase column labels; trait columns carry True/False cells and empty
// cells mean the trait was never observed.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"guildcore/pkg/domain"
)

// Reserved column labels mapped onto typed PlantRecord fields instead of the
// trait bag.
const (
	columnGenus      = "genus"
	columnSpecies    = "species"
	columnCommonName = "common name"
	columnDuration   = "duration"
	columnMinZone    = "minimum cold hardiness"
	columnMaxZone    = "maximum recommended zone"
	columnMinHeight  = "min height"
	columnMaxHeight  = "max height"
	columnVarieties  = "varieties"
)

// DecodeResult carries the decoded records plus decode diagnostics.
type DecodeResult struct {
	Records []domain.PlantRecord
	// UnknownColumns lists trait columns absent from the canonical schema,
	// sorted. They are still decoded; the list exists for operator review.
	UnknownColumns []string
	// SkippedRows counts rows dropped for missing a scientific name.
	SkippedRows int
}

var firstNumber = regexp.MustCompile(`-?\d+(\.\d+)?`)

// DecodeCSV parses a scraped plant dataset into PlantRecords. The first row
// must be the header. Rows without both genus and species are skipped rather
// than failing the whole artifact.
func DecodeCSV(r io.Reader) (DecodeResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return DecodeResult{}, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return DecodeResult{}, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}
	known := domain.Schema().Names()
	unknown := map[string]struct{}{}

	var result DecodeResult
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return DecodeResult{}, fmt.Errorf("read row %d: %w", line, err)
		}
		record := domain.PlantRecord{Traits: domain.TraitBag{}}
		for i, cell := range row {
			if i >= len(columns) {
				break
			}
			cell = strings.TrimSpace(cell)
			if isAbsent(cell) {
				continue
			}
			switch col := columns[i]; col {
			case columnGenus:
				record.Genus = cell
			case columnSpecies:
				record.Species = cell
			case columnCommonName:
				record.CommonName = cell
			case columnDuration:
				record.Duration = cell
			case columnMinZone:
				if n, ok := parseLeadingInt(cell); ok {
					record.MinZone = n
				}
			case columnMaxZone:
				if n, ok := parseLeadingInt(cell); ok {
					record.MaxZone = &n
				}
			case columnMinHeight:
				if f, ok := parseLeadingFloat(cell); ok {
					record.MinHeight = &f
				}
			case columnMaxHeight:
				if f, ok := parseLeadingFloat(cell); ok {
					record.MaxHeight = &f
				}
			case columnVarieties, "":
				// Variety links are not modelled; header gaps ignored.
			default:
				if _, ok := known[col]; !ok {
					unknown[col] = struct{}{}
				}
				record.Traits[col] = parseBool(cell)
			}
		}
		if strings.TrimSpace(record.Genus) == "" || strings.TrimSpace(record.Species) == "" {
			result.SkippedRows++
			continue
		}
		result.Records = append(result.Records, record)
	}

	for col := range unknown {
		result.UnknownColumns = append(result.UnknownColumns, col)
	}
	sort.Strings(result.UnknownColumns)
	return result, nil
}

// isAbsent reports whether a cell encodes a missing observation. Pandas
// writes empty strings or "nan" for absent values.
func isAbsent(cell string) bool {
	switch strings.ToLower(cell) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

func parseBool(cell string) bool {
	switch strings.ToLower(cell) {
	case "true", "yes", "1", "1.0":
		return true
	}
	return false
}

// parseLeadingInt extracts the first integer in a cell. Zone cells arrive
// either bare ("3") or embedded ("Zone 3 -40 °F").
func parseLeadingInt(cell string) (int, bool) {
	m := firstNumber.FindString(cell)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

func parseLeadingFloat(cell string) (float64, bool) {
	m := firstNumber.FindString(cell)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
