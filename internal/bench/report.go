package bench

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"strata/internal/observ"
)

// WriteReport prints one line per result plus a total, with numbers
// grouped for tag.
func WriteReport(w io.Writer, results []Result, tag language.Tag) error {
	p := message.NewPrinter(tag)
	if _, err := p.Fprintf(w, "%-16s %-10s %10s %12s %8s %8s %8s %10s\n",
		"workload", "rep", "length", "copies", "allocs", "reallocs", "transit", "ms"); err != nil {
		return err
	}
	var total observ.Counters
	for _, r := range results {
		c := r.Counters
		total.Add(c)
		if _, err := p.Fprintf(w, "%-16s %-10s %10d %12d %8d %8d %8d %10.3f\n",
			r.Workload, r.Rep, r.Length, c.ElementCopies, c.Allocations, c.Reallocations,
			c.Commits+c.Generalizations, float64(r.Elapsed.Microseconds())/1000); err != nil {
			return err
		}
	}
	_, err := p.Fprintf(w, "%-16s %-10s %10s %12d %8d %8d %8d\n",
		"total", "", "", total.ElementCopies, total.Allocations, total.Reallocations,
		total.Commits+total.Generalizations)
	return err
}
