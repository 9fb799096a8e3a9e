package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"fsbridge/internal/exitcodes"
	"fsbridge/internal/journal"
	"fsbridge/internal/report"
)

func main() {
	dbPath := flag.String("db", "/var/lib/fsbridge/operations.db", "Path to operation journal")
	recent := flag.Int("recent", 0, "Show N most recent operations")
	stats := flag.Bool("stats", false, "Show operation statistics")
	verb := flag.String("verb", "", "Filter by verb (cat, ls, cp, mv, rm, touch, mkdir, stat)")
	outcome := flag.String("outcome", "", "Filter by outcome (success, blocked, failed)")
	pathPattern := flag.String("path", "", "Filter by path pattern (SQL LIKE syntax)")
	largest := flag.Int("largest", 0, "Show N operations that touched the most bytes")
	days := flag.Int("days", 30, "Number of days for statistics (default: 30)")
	jsonOutput := flag.Bool("json", false, "Output in JSON format")
	flag.Parse()

	j, err := journal.Open(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open journal %s: %v", *dbPath, err)
	}
	defer func() {
		if err := j.Close(); err != nil {
			log.Printf("ERROR: Failed to close journal: %v", err)
		}
	}()

	switch {
	case *stats:
		showStats(j, *days, *jsonOutput)
	case *recent > 0:
		records, err := j.Recent(*recent)
		show(records, err, *jsonOutput)
	case *verb != "":
		records, err := j.ByVerb(*verb)
		show(records, err, *jsonOutput)
	case *outcome != "":
		records, err := j.ByOutcome(*outcome)
		show(records, err, *jsonOutput)
	case *pathPattern != "":
		records, err := j.ByPath(*pathPattern)
		show(records, err, *jsonOutput)
	case *largest > 0:
		records, err := j.Largest(*largest)
		show(records, err, *jsonOutput)
	default:
		flag.Usage()
		fmt.Println("\nExamples:")
		fmt.Println("  fsbridge-query --recent 10            # Show 10 most recent operations")
		fmt.Println("  fsbridge-query --stats                # Show operation statistics")
		fmt.Println("  fsbridge-query --verb rm              # Show removals")
		fmt.Println("  fsbridge-query --outcome blocked      # Show refused operations")
		fmt.Println("  fsbridge-query --path '/var/log/%'    # Show operations under /var/log")
		fmt.Println("  fsbridge-query --largest 10           # Show 10 biggest transfers")
		os.Exit(exitcodes.InvalidConfig)
	}
}

func show(records []journal.Record, err error, jsonOutput bool) {
	if err != nil {
		log.Fatalf("ERROR: Query failed: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(data))
		return
	}

	printRecords(records)
}

func showStats(j *journal.Journal, days int, jsonOutput bool) {
	stats, err := j.StatsSince(days)
	if err != nil {
		log.Fatalf("ERROR: Failed to get statistics: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Operation Statistics (Last %d days)\n\n", days)
	fmt.Printf("Total Operations: %d\n", stats.TotalOperations)
	fmt.Printf("Bytes Copied:     %s\n", report.FormatBytes(stats.BytesCopied))
	fmt.Printf("Bytes Removed:    %s\n\n", report.FormatBytes(stats.BytesRemoved))

	if len(stats.ByVerb) > 0 {
		fmt.Println("By Verb:")
		for verb, count := range stats.ByVerb {
			fmt.Printf("  %-10s %d\n", verb, count)
		}
		fmt.Println()
	}

	if len(stats.ByOutcome) > 0 {
		fmt.Println("By Outcome:")
		for outcome, count := range stats.ByOutcome {
			fmt.Printf("  %-10s %d\n", outcome, count)
		}
	}
}

func printRecords(records []journal.Record) {
	if len(records) == 0 {
		fmt.Println("No matching operations found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tVERB\tOUTCOME\tBYTES\tPATH")
	for _, r := range records {
		path := r.Source
		if r.Dest != "" {
			path += " -> " + r.Dest
		}
		if r.DryRun {
			path += " (dry run)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Verb,
			r.Outcome,
			report.FormatBytes(r.Bytes),
			path)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d operations\n", len(records))
}
