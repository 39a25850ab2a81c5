package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pfrederiksen/conf-events/internal/aggregator"
	"github.com/pfrederiksen/conf-events/internal/event"
	"github.com/pfrederiksen/conf-events/internal/logger"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time
	Events     []*event.Event
	EventCount int
	BySource   map[event.Source][]*event.Event
}

// NewOutputResult groups events by source, keeping their order
func NewOutputResult(events []*event.Event) *OutputResult {
	if events == nil {
		events = []*event.Event{}
	}

	bySource := make(map[event.Source][]*event.Event)
	for _, evt := range events {
		bySource[evt.Source] = append(bySource[evt.Source], evt)
	}

	return &OutputResult{
		CheckedAt:  time.Now().UTC(),
		Events:     events,
		EventCount: len(events),
		BySource:   bySource,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the events as the same JSON array the HTTP endpoint
// serves. HTML characters are not escaped on either side.
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result.Events)
}

// writeText outputs results as human-readable text, grouped by source
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintf(w, "No events found (checked at %s).\n", result.CheckedAt.Format(time.RFC3339))
		return nil
	}

	for _, source := range aggregator.Precedence {
		events := result.BySource[source]
		if len(events) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s (%d events):\n", source, len(events))
		for _, evt := range events {
			fmt.Fprintf(w, "  %s | %s | %s\n", evt.Date, evt.Title, evt.Location)
			if verbose {
				fmt.Fprintf(w, "       Organizers: %s\n", evt.Organizer)
				fmt.Fprintf(w, "       Link: %s\n", evt.Link)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events across %d sources\n", result.EventCount, len(result.BySource))
	fmt.Fprintf(w, "Checked at: %s\n", result.CheckedAt.Format(time.RFC3339))

	return nil
}

// writeMetrics prints the crawl counters and timings collected during the run
func writeMetrics(w io.Writer, snapshot logger.Snapshot) error {
	fmt.Fprintln(w, "\nCrawl metrics:")
	for _, name := range sortedKeys(snapshot.Counters) {
		fmt.Fprintf(w, "  %s: %d\n", name, snapshot.Counters[name])
	}
	for _, name := range sortedKeys(snapshot.Timings) {
		stats := snapshot.Timings[name]
		fmt.Fprintf(w, "  %s: %v (%d runs, avg %v)\n", name, stats.Total, stats.Count, stats.Average())
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
