package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printComparison(result *domain.ComparisonResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Query:\t%s\n", result.SearchQuery)
	tw.writef("Run at:\t%s\n", result.Timestamp.Format("2006-01-02 15:04:05"))
	tw.writef("Products:\t%d (%d matched across platforms)\n",
		result.TotalProducts, result.MatchedProducts)
	if result.Location.City != "" {
		tw.writef("Location:\t%s\n", result.Location.City)
	}
	tw.writef("\n")

	tw.writef("PRODUCT\tPLATFORM\tPRICE\tQTY\tDELIVERY\n")
	for i := range result.Products {
		g := &result.Products[i]
		for _, p := range sortedPlatforms(g.Platforms) {
			entry := g.Platforms[p]
			qty := "-"
			if entry.Quantity != nil {
				qty = entry.Quantity.Display()
			}
			delivery := entry.DeliveryTime
			if delivery == "" {
				delivery = "-"
			}
			tw.writef("%s\t%s\t₹%.2f\t%s\t%s\n",
				truncate(g.Name, 40), p, entry.Price, qty, delivery)
		}
	}
	return tw.finish()
}

func sortedPlatforms(entries map[domain.Platform]domain.PlatformEntry) []domain.Platform {
	platforms := make([]domain.Platform, 0, len(entries))
	for p := range entries {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}

func printComparisonListTable(comparisons []domain.ComparisonResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tQUERY\tRUN AT\tPRODUCTS\tMATCHED\n")
	for i := range comparisons {
		c := &comparisons[i]
		tw.writef("%s\t%s\t%s\t%d\t%d\n",
			c.ID,
			truncate(c.SearchQuery, 30),
			c.Timestamp.Format("2006-01-02 15:04:05"),
			c.TotalProducts,
			c.MatchedProducts,
		)
	}
	return tw.finish()
}

func printWatchTable(watches []domain.Watch) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tQUERY\tPLATFORMS\tMAX PRICE\tENABLED\n")
	for i := range watches {
		w := &watches[i]
		maxPrice := "-"
		if w.MaxPrice != nil {
			maxPrice = fmt.Sprintf("₹%.2f", *w.MaxPrice)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%v\n",
			w.ID,
			w.Name,
			truncate(w.SearchQuery, 30),
			platformList(w.Platforms),
			maxPrice,
			w.Enabled,
		)
	}
	return tw.finish()
}

func printWatchDetail(w *domain.Watch) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", w.ID)
	tw.writef("Name:\t%s\n", w.Name)
	tw.writef("Query:\t%s\n", w.SearchQuery)
	tw.writef("Platforms:\t%s\n", platformList(w.Platforms))
	if w.MaxPrice != nil {
		tw.writef("Max price:\t₹%.2f\n", *w.MaxPrice)
	}
	tw.writef("Strict:\t%v\n", w.Strict)
	tw.writef("Enabled:\t%v\n", w.Enabled)
	if w.LastRunAt != nil {
		tw.writef("Last run:\t%s\n", w.LastRunAt.Format("2006-01-02 15:04:05"))
	}
	return tw.finish()
}

func platformList(platforms []domain.Platform) string {
	if len(platforms) == 0 {
		return "all"
	}
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, string(p))
	}
	return strings.Join(names, ",")
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		errText := truncate(r.ErrorText, 40)
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			errText,
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
