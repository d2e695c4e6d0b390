package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/nutritrack/food-catalog/internal/transform"
	"github.com/nutritrack/food-catalog/pkg/enums"
)

// CategoryCount is one row of the per-category breakdown.
type CategoryCount struct {
	Category string
	Count    int
}

// Report summarizes one import run.
type Report struct {
	RunID    string
	Source   enums.Source
	Mode     Mode
	State    State
	Existing int64

	Fetched       int
	Rejected      int
	RejectReasons map[transform.Reason]int
	Pages         int
	FailedPages   int
	FetchErr      error

	Deleted    int64
	Inserted   int
	Categories []CategoryCount

	// Totals holds store counts per source after the run; Total is their sum.
	Totals map[enums.Source]int64
	Total  int64

	StartedAt time.Time
	Duration  time.Duration
}

func newReport(runID string, source enums.Source, mode Mode, started time.Time) *Report {
	return &Report{
		RunID:         runID,
		Source:        source,
		Mode:          mode,
		State:         StateIdle,
		RejectReasons: map[transform.Reason]int{},
		StartedAt:     started,
	}
}

func (r *Report) reject(err error) {
	r.Rejected++
	reason := transform.ReasonOf(err)
	if reason == "" {
		reason = transform.ReasonInvalid
	}
	r.RejectReasons[reason]++
}

// categoryBreakdown counts categories, largest first, ties by name.
func categoryBreakdown(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, CategoryCount{Category: category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Write renders a human-readable summary.
func (r *Report) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import %s (%s): %s in %s\n", r.Source, r.Mode, r.State, r.Duration.Round(time.Millisecond))

	switch r.State {
	case StateSkipped:
		fmt.Fprintf(&b, "  %d existing %s records kept\n", r.Existing, r.Source)
	default:
		fmt.Fprintf(&b, "  fetched %d, rejected %d, pages %d, failed pages %d\n", r.Fetched, r.Rejected, r.Pages, r.FailedPages)
		if len(r.RejectReasons) > 0 {
			reasons := make([]string, 0, len(r.RejectReasons))
			for reason, n := range r.RejectReasons {
				reasons = append(reasons, fmt.Sprintf("%s=%d", reason, n))
			}
			sort.Strings(reasons)
			fmt.Fprintf(&b, "  reject reasons: %s\n", strings.Join(reasons, ", "))
		}
		fmt.Fprintf(&b, "  deleted %d, inserted %d\n", r.Deleted, r.Inserted)
	}

	if len(r.Categories) > 0 {
		fmt.Fprintf(&b, "  categories (%d):\n", len(r.Categories))
		for _, c := range r.Categories {
			fmt.Fprintf(&b, "    %s: %d\n", c.Category, c.Count)
		}
	}

	if r.Totals != nil {
		b.WriteString("  store totals:\n")
		for _, source := range enums.Sources() {
			fmt.Fprintf(&b, "    %s: %d\n", source, r.Totals[source])
		}
		fmt.Fprintf(&b, "    total: %d\n", r.Total)
	}

	if r.FetchErr != nil {
		fmt.Fprintf(&b, "  fetch errors: %v\n", r.FetchErr)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
