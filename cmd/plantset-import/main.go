// Command plantset-import loads a scraped plant dataset CSV into the
// configured persistent store, optionally archiving the raw artifact in the
// blob store first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"guildcore/internal/blob"
	"guildcore/internal/core"
	"guildcore/internal/dataset"
)

var exitFunc = os.Exit

func main() {
	file := flag.String("file", "", "path to the scraped CSV dataset (required)")
	archive := flag.Bool("archive", true, "archive the raw artifact in the blob store")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "plantset-import: -file is required")
		flag.Usage()
		exitFunc(2)
		return
	}
	if err := run(*file, *archive); err != nil {
		fmt.Fprintf(os.Stderr, "plantset-import: %v\n", err)
		exitFunc(1)
	}
}

func run(file string, archive bool) error {
	ctx := context.Background()

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	store, err := core.OpenPersistentStore(core.DefaultRulesEngine())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closer, ok := store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}()

	var blobs blob.Store
	if archive {
		blobs, err = blob.Open(ctx)
		if err != nil {
			return fmt.Errorf("open blob store: %w", err)
		}
	}

	service := core.NewService(store)
	importer := dataset.NewImporter(service, blobs)

	summary, err := importer.ImportCSV(ctx, file, raw)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d plant records (%d rows skipped)\n", summary.Records, summary.SkippedRows)
	if summary.ArchiveKey != "" {
		fmt.Printf("archived raw artifact as %s\n", summary.ArchiveKey)
	}
	for _, col := range summary.UnknownColumns {
		fmt.Printf("unknown column: %s\n", col)
	}
	for _, warning := range summary.RuleWarnings {
		fmt.Printf("warning: %s\n", warning)
	}
	return nil
}
