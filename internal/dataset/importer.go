package dataset

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"guildcore/internal/blob"
	"guildcore/internal/core"
)

// archivePrefix is where raw scraped artifacts land in the blob store.
const archivePrefix = "datasets/"

// Importer runs the ingest pipeline: archive the raw artifact, decode it,
// and load the records through the service so import rules apply.
type Importer struct {
	service *core.Service
	blobs   blob.Store
	nowFn   func() time.Time
}

// ImporterOption adjusts importer construction.
type ImporterOption func(*Importer)

// WithImporterClock overrides the archive timestamp source.
func WithImporterClock(now func() time.Time) ImporterOption {
	return func(i *Importer) { i.nowFn = now }
}

// NewImporter wires an importer. A nil blob store disables archiving.
func NewImporter(service *core.Service, blobs blob.Store, opts ...ImporterOption) *Importer {
	imp := &Importer{
		service: service,
		blobs:   blobs,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Summary reports the outcome of one import run.
type Summary struct {
	Records        int      `json:"records"`
	SkippedRows    int      `json:"skipped_rows"`
	UnknownColumns []string `json:"unknown_columns,omitempty"`
	RuleWarnings   []string `json:"rule_warnings,omitempty"`
	ArchiveKey     string   `json:"archive_key,omitempty"`
}

// ImportCSV decodes and loads one scraped CSV artifact. The raw bytes are
// archived before decoding so a malformed artifact is still preserved for
// inspection. A blocking rule violation aborts the whole batch.
func (i *Importer) ImportCSV(ctx context.Context, name string, raw []byte) (Summary, error) {
	var summary Summary
	if i.blobs != nil {
		key, err := i.archive(ctx, name, raw)
		if err != nil {
			return summary, fmt.Errorf("archive dataset: %w", err)
		}
		summary.ArchiveKey = key
	}

	decoded, err := DecodeCSV(bytes.NewReader(raw))
	if err != nil {
		return summary, fmt.Errorf("decode dataset: %w", err)
	}
	summary.SkippedRows = decoded.SkippedRows
	summary.UnknownColumns = decoded.UnknownColumns

	count, result, err := i.service.ImportPlants(ctx, decoded.Records)
	if err != nil {
		return summary, err
	}
	summary.Records = count
	for _, warning := range result.Warnings() {
		summary.RuleWarnings = append(summary.RuleWarnings, fmt.Sprintf("%s: %s", warning.Rule, warning.Message))
	}
	return summary, nil
}

// archive writes the raw artifact under a timestamped key. Put is
// create-only, so two runs in the same instant with the same name collide
// instead of silently overwriting.
func (i *Importer) archive(ctx context.Context, name string, raw []byte) (string, error) {
	base := path.Base(name)
	if base == "." || base == "/" || base == "" {
		base = "dataset.csv"
	}
	key := fmt.Sprintf("%s%s-%s", archivePrefix, i.nowFn().Format("20060102T150405Z"), base)
	info, err := i.blobs.Put(ctx, key, bytes.NewReader(raw), blob.PutOptions{
		ContentType: "text/csv",
		Metadata:    map[string]string{"source_name": base},
	})
	if err != nil {
		return "", err
	}
	return info.Key, nil
}

// ListArchives returns the archived raw artifacts, oldest key first.
func (i *Importer) ListArchives(ctx context.Context) ([]blob.Info, error) {
	if i.blobs == nil {
		return nil, nil
	}
	return i.blobs.List(ctx, archivePrefix)
}
