package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nutritrack/food-catalog/internal/catalog"
	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/internal/transform"
	"github.com/nutritrack/food-catalog/pkg/enums"
	"github.com/nutritrack/food-catalog/pkg/logger"
	"github.com/nutritrack/food-catalog/pkg/metrics"
)

var (
	// ErrAborted means no record survived mapping; the store was left untouched.
	ErrAborted = errors.New("import aborted: no valid records")
	// ErrLocked means another run for the same source holds the lock.
	ErrLocked = errors.New("import already running for source")
)

// Mapper gates and converts raw products of one source.
type Mapper interface {
	Check(raw transform.RawRecord) error
	Transform(raw transform.RawRecord) (*foods.Record, error)
}

// Params configure a Pipeline. Lock and Metrics are optional.
type Params struct {
	Source  enums.Source
	Mode    Mode
	Target  int
	Fetcher Fetcher
	Mapper  Mapper
	Store   catalog.Store
	Lock    Lock
	Logger  *logger.Logger
	Metrics *metrics.ImportMetrics
	Now     func() time.Time
}

// Pipeline replaces every record of one source with a fresh import.
type Pipeline struct {
	source  enums.Source
	mode    Mode
	target  int
	fetcher Fetcher
	mapper  Mapper
	store   catalog.Store
	lock    Lock
	logg    *logger.Logger
	metrics *metrics.ImportMetrics
	now     func() time.Time
}

// New validates params. The mode has to be chosen up front.
func New(params Params) (*Pipeline, error) {
	if !params.Mode.IsValid() {
		return nil, fmt.Errorf("import mode must be %q or %q, got %q", ModeForce, ModeSkipIfExists, params.Mode)
	}
	if !params.Source.IsValid() {
		return nil, fmt.Errorf("invalid import source %q", params.Source)
	}
	if params.Target < 0 {
		return nil, fmt.Errorf("import target must not be negative")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("fetcher required")
	}
	if params.Mapper == nil {
		return nil, fmt.Errorf("mapper required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:  params.Source,
		mode:    params.Mode,
		target:  params.Target,
		fetcher: params.Fetcher,
		mapper:  params.Mapper,
		store:   params.Store,
		lock:    params.Lock,
		logg:    logg,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// Run executes one import. The returned report is never nil and carries the
// final state; err is non-nil whenever that state is Aborted.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	ctx = p.logg.WithImportRun(ctx, runID, p.source.String())
	report := newReport(runID, p.source, p.mode, p.now())
	st := &tracker{current: StateIdle, onEnter: func(s State) {
		report.State = s
		p.logg.Debug(p.logg.WithField(ctx, "state", string(s)), "import state changed")
	}}

	p.logg.Info(p.logg.WithField(ctx, "mode", string(p.mode)), "import starting")
	err := p.run(ctx, st, report)
	if err != nil && !st.current.Terminal() {
		_ = st.advance(StateAborted)
	}
	p.finish(ctx, report, err)
	return report, err
}

func (p *Pipeline) run(ctx context.Context, st *tracker, report *Report) error {
	if p.lock != nil {
		locked, err := p.lock.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("lock acquire: %w", err)
		}
		if !locked {
			return ErrLocked
		}
		defer func() {
			if relErr := p.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
				p.logg.Error(ctx, "failed to release import lock", relErr)
			}
		}()
	}

	existing, err := p.store.CountBySource(ctx, p.source)
	if err != nil {
		return fmt.Errorf("count existing records: %w", err)
	}
	report.Existing = existing
	if p.mode == ModeSkipIfExists && existing > 0 {
		if err := st.advance(StateSkipped); err != nil {
			return err
		}
		p.collectTotals(ctx, report)
		return nil
	}

	if err := st.advance(StateFetching); err != nil {
		return err
	}
	gate := func(raw transform.RawRecord) error {
		err := p.mapper.Check(raw)
		if err != nil {
			report.reject(err)
		}
		return err
	}
	fetched, err := p.fetcher.Fetch(ctx, gate, p.target)
	if fetched != nil {
		report.Fetched = fetched.Fetched
		report.Pages = fetched.Pages
		report.FailedPages = fetched.FailedPages
		report.FetchErr = fetched.Err
	}
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if fetched == nil {
		fetched = &FetchResult{}
	}

	if err := st.advance(StateTransforming); err != nil {
		return err
	}
	records := make([]foods.Record, 0, len(fetched.Raw))
	counts := map[string]int{}
	for _, raw := range fetched.Raw {
		rec, err := p.mapper.Transform(raw)
		if err != nil {
			report.reject(err)
			continue
		}
		records = append(records, *rec)
		counts[rec.Category]++
	}
	if len(records) == 0 {
		p.logg.Warn(ctx, "import produced no valid records; existing records kept")
		return ErrAborted
	}

	if err := st.advance(StateReplacing); err != nil {
		return err
	}
	deleted, err := p.store.DeleteBySource(ctx, p.source)
	if err != nil {
		return fmt.Errorf("delete existing records: %w", err)
	}
	report.Deleted = deleted

	if err := st.advance(StateInserting); err != nil {
		return err
	}
	ids, err := p.store.InsertMany(ctx, records)
	if err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	report.Inserted = len(ids)
	report.Categories = categoryBreakdown(counts)

	if err := st.advance(StateReporting); err != nil {
		return err
	}
	p.collectTotals(ctx, report)
	return st.advance(StateDone)
}

// collectTotals fills per-source store counts. Failures only cost the report its totals.
func (p *Pipeline) collectTotals(ctx context.Context, report *Report) {
	totals := make(map[enums.Source]int64, len(enums.Sources()))
	var total int64
	for _, source := range enums.Sources() {
		n, err := p.store.CountBySource(ctx, source)
		if err != nil {
			p.logg.Error(ctx, "failed to count records for report", err)
			return
		}
		totals[source] = n
		total += n
	}
	report.Totals = totals
	report.Total = total
}

func (p *Pipeline) finish(ctx context.Context, report *Report, err error) {
	report.Duration = p.now().Sub(report.StartedAt)

	source := p.source.String()
	p.metrics.ObserveRun(source, string(report.State), report.Duration)
	p.metrics.AddRecords(source, "fetched", report.Fetched)
	p.metrics.AddRecords(source, "rejected", report.Rejected)
	p.metrics.AddRecords(source, "deleted", int(report.Deleted))
	p.metrics.AddRecords(source, "inserted", report.Inserted)
	p.metrics.AddFailedPages(source, report.FailedPages)

	ctx = p.logg.WithFields(ctx, map[string]any{
		"state":        string(report.State),
		"fetched":      report.Fetched,
		"rejected":     report.Rejected,
		"failed_pages": report.FailedPages,
		"deleted":      report.Deleted,
		"inserted":     report.Inserted,
		"duration_ms":  report.Duration.Milliseconds(),
	})
	if report.FetchErr != nil {
		p.logg.Warn(p.logg.WithField(ctx, "fetch_errors", report.FetchErr.Error()), "some feed pages failed")
	}
	if err != nil {
		p.logg.Error(ctx, "import failed", err)
		return
	}
	p.logg.Info(ctx, "import finished")
}
