package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	domain "github.com/mfinch/furniture-watch/pkg/types"
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

func printItemsTable(items []domain.Item) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tCATEGORY\tTITLE\tPRICE\tSOLD\tFIRST SEEN\tALERTED\n")
	for i := range items {
		alerted := "-"
		if items[i].AlertSentAt != nil {
			alerted = items[i].AlertSentAt.Format(time.DateOnly)
		}
		tw.writef("%s\t%s\t%s\t%s\t%v\t%s\t%s\n",
			items[i].ID,
			items[i].Category,
			truncate(items[i].DisplayTitle(), 40),
			formatPrice(items[i].Price),
			items[i].Sold,
			items[i].FirstSeenAt.Format(time.DateOnly),
			alerted,
		)
	}
	return tw.finish()
}

func printItemDetail(it *domain.Item) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", it.ID)
	tw.writef("Category:\t%s\n", it.Category)
	tw.writef("Title:\t%s\n", it.DisplayTitle())
	tw.writef("Price:\t%s\n", formatPrice(it.Price))
	tw.writef("Sold:\t%v\n", it.Sold)
	tw.writef("URL:\t%s\n", it.URL)
	tw.writef("First seen:\t%s\n", it.FirstSeenAt.Format(time.RFC3339))
	if it.AlertSentAt != nil {
		tw.writef("Alert sent:\t%s\n", it.AlertSentAt.Format(time.RFC3339))
	} else {
		tw.writef("Alert sent:\t-\n")
	}
	return tw.finish()
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSTARTED\tSTATUS\tSEEN\tNEW\tALERTS\tERROR\n")
	for i := range runs {
		tw.writef("%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			runs[i].ID,
			runs[i].StartedAt.Format(time.RFC3339),
			runs[i].Status,
			runs[i].ListingsSeen,
			runs[i].NewItems,
			runs[i].AlertsSent,
			truncate(runs[i].ErrorText, 40),
		)
	}
	return tw.finish()
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *p)
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
