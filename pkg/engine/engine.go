// Package engine drives the validation pipeline: load, classify and
// validate documents concurrently, resolve cross-references over the
// whole batch, and aggregate the findings into a report.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rzbill/sigil/pkg/catalog"
	"github.com/rzbill/sigil/pkg/loader"
	"github.com/rzbill/sigil/pkg/log"
	"github.com/rzbill/sigil/pkg/report"
	"github.com/rzbill/sigil/pkg/types"
	"github.com/rzbill/sigil/pkg/validate"
	"github.com/rzbill/sigil/pkg/xref"
)

// DefaultWorkers bounds per-document concurrency when Options.Workers
// is unset.
const DefaultWorkers = 4

// Options configure one validation run.
type Options struct {
	// Catalog to validate against. Defaults to catalog.Builtin().
	Catalog *catalog.Catalog

	// Strict promotes unknown-field findings to errors.
	Strict bool

	// Workers bounds how many documents are classified and validated
	// concurrently. Cross-reference resolution always waits for the
	// whole batch.
	Workers int

	Logger log.Logger
}

func (o Options) withDefaults() Options {
	if o.Catalog == nil {
		o.Catalog = catalog.Builtin()
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.GetDefaultLogger().WithComponent("engine")
	}
	return o
}

// Run validates a batch of documents and returns the report. The run is
// pure over its inputs apart from the generated run ID. Cancellation
// discards partial work: a report is only returned for a completed run.
func Run(ctx context.Context, docs []*types.Document, opts Options) (*report.Report, error) {
	opts = opts.withDefaults()
	start := time.Now()

	entries := make([]xref.Entry, len(docs))
	perDoc := make([][]types.Finding, len(docs))

	// Per-document classification and validation is pure and shares only
	// the read-only catalog, so documents fan out across workers.
	jobs := make(chan *types.Document)
	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				schema, findings := validate.Classify(doc, opts.Catalog)
				findings = append(findings, validate.Document(doc, schema, validate.Options{Strict: opts.Strict})...)
				entries[doc.Index] = xref.Entry{Doc: doc, Schema: schema}
				perDoc[doc.Index] = findings
			}
		}()
	}

feed:
	for _, doc := range docs {
		select {
		case jobs <- doc:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		opts.Logger.Debug("run cancelled", log.Err(err))
		return nil, err
	}

	// Barrier: cross-reference rules need the whole classified batch.
	var findings []types.Finding
	for _, fs := range perDoc {
		findings = append(findings, fs...)
	}
	findings = append(findings, xref.Resolve(entries)...)

	rep := report.Aggregate(uuid.NewString(), len(docs), findings)
	opts.Logger.Debug("run complete",
		log.Int("documents", rep.Summary.Documents),
		log.Int("errors", rep.Summary.Errors),
		log.Int("warnings", rep.Summary.Warnings),
		log.Duration("elapsed", time.Since(start)))
	return rep, nil
}

// RunBytes parses raw input and validates the resulting batch.
func RunBytes(ctx context.Context, data []byte, source string, opts Options) (*report.Report, error) {
	return Run(ctx, loader.Parse(data, source), opts)
}
