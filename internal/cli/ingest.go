package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	checkmango "github.com/checkmango/checkmango-go"
)

const defaultIngestConcurrency = 4

// ingestResult is the outcome of one line of a batch file.
type ingestResult struct {
	Line  int    `json:"line"`
	Error string `json:"error,omitempty"`
}

// ingestSummary is the output of a batch ingest.
type ingestSummary struct {
	Total    int            `json:"total"`
	Ingested int            `json:"ingested"`
	Failed   []ingestResult `json:"failed,omitempty"`
}

func (a *app) ingestCommand() *cobra.Command {
	var opts checkmango.IngestOptions
	var file string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Record exposures and conversions",
		Long: `Record that a participant saw a variant of an experiment and, with --event,
that it converted.

With --file, each line of the file (or stdin for "-") is a JSON object with
experiment, participant, variant and optional event keys. Lines are sent
concurrently; blank lines are skipped.`,
		Example: `  checkmango ingest --experiment pricing --participant user-1 --variant annual
  checkmango ingest --file exposures.jsonl --concurrency 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}

			if file == "" {
				if opts.Experiment == "" || opts.Participant == "" || opts.Variant == "" {
					return errors.New("--experiment, --participant and --variant are required without --file")
				}
				if err := client.Ingest(cmd.Context(), opts); err != nil {
					return err
				}
				return a.printer.message(map[string]any{"ingested": 1}, "Ingested 1 record")
			}

			r, closeFn, err := openInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := readIngestRecords(r)
			if err != nil {
				return err
			}

			summary := ingestBatch(cmd.Context(), client, records, concurrency)
			if err := a.printIngestSummary(summary); err != nil {
				return err
			}
			if len(summary.Failed) > 0 {
				return fmt.Errorf("%d of %d records failed", len(summary.Failed), summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Experiment, "experiment", "", "Experiment key")
	cmd.Flags().StringVar(&opts.Participant, "participant", "", "Participant key")
	cmd.Flags().StringVar(&opts.Variant, "variant", "", "Variant key")
	cmd.Flags().StringVar(&opts.Event, "event", "", "Event key, for conversions")
	cmd.Flags().StringVarP(&file, "file", "f", "", `JSON-lines file to ingest ("-" for stdin)`)
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultIngestConcurrency, "Requests in flight during a batch")
	return cmd
}

// ingestRecord is one parsed line of a batch file.
type ingestRecord struct {
	line int
	opts checkmango.IngestOptions
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// readIngestRecords parses JSON lines, rejecting the whole file on the first
// malformed or incomplete line.
func readIngestRecords(r io.Reader) ([]ingestRecord, error) {
	var records []ingestRecord

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var opts checkmango.IngestOptions
		if err := json.Unmarshal([]byte(text), &opts); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if opts.Experiment == "" || opts.Participant == "" || opts.Variant == "" {
			return nil, fmt.Errorf("line %d: experiment, participant and variant are required", line)
		}
		records = append(records, ingestRecord{line: line, opts: opts})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return records, nil
}

// ingestBatch sends records with at most concurrency requests in flight.
// A failed record does not stop the others.
func ingestBatch(ctx context.Context, client *checkmango.Client, records []ingestRecord, concurrency int) ingestSummary {
	if concurrency < 1 {
		concurrency = 1
	}

	errs := make([]error, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			errs[i] = client.Ingest(gctx, record.opts)
			return nil
		})
	}
	_ = g.Wait()

	summary := ingestSummary{Total: len(records)}
	for i, err := range errs {
		if err != nil {
			summary.Failed = append(summary.Failed, ingestResult{Line: records[i].line, Error: err.Error()})
			continue
		}
		summary.Ingested++
	}
	return summary
}

func (a *app) printIngestSummary(summary ingestSummary) error {
	if a.printer.format == formatJSON {
		return a.printer.json(summary)
	}

	if _, err := fmt.Fprintf(a.out, "Ingested %d of %d records\n", summary.Ingested, summary.Total); err != nil {
		return err
	}
	if len(summary.Failed) == 0 {
		return nil
	}

	t := table{headers: []string{"LINE", "ERROR"}}
	for _, failure := range summary.Failed {
		t.rows = append(t.rows, []string{fmt.Sprint(failure.Line), failure.Error})
	}
	return a.printer.print(nil, t)
}
