// Package report renders operation results for external consumers.
// Rendering only builds strings; callers own the output destination,
// whether that is a console, a log file, or a UI.
package report

import (
	"fmt"
	"strings"
	"time"

	"fsbridge/internal/fileops"
)

// Format selects a rendering style
type Format int

const (
	// Human mirrors traditional command-line phrasing
	Human Format = iota
	// Structured emits a stable key=value record for machine consumers
	Structured
)

// Render formats a result. It never has side effects.
func Render(res fileops.Result, format Format) string {
	if format == Structured {
		return renderStructured(res)
	}
	return renderHuman(res)
}

func renderHuman(res fileops.Result) string {
	switch res.Outcome {
	case fileops.OutcomeBlocked:
		return "Blocked: " + res.Message
	case fileops.OutcomeFailed:
		return fmt.Sprintf("%s %s failed: %s", res.Verb, res.Source, res.Message)
	}

	if res.DryRun {
		return "[DRY RUN] " + wouldPhrase(res)
	}
	return donePhrase(res)
}

func donePhrase(res fileops.Result) string {
	switch res.Verb {
	case fileops.VerbCat:
		return fmt.Sprintf("Read %d lines from %s", res.Lines, res.Source)
	case fileops.VerbLs:
		return fmt.Sprintf("Listed %d entries in %s", len(res.Entries), res.Source)
	case fileops.VerbCp:
		return fmt.Sprintf("Copied %s to %s (%s)", res.Source, res.Dest, FormatBytes(res.Bytes))
	case fileops.VerbMv:
		return fmt.Sprintf("Moved %s to %s", res.Source, res.Dest)
	case fileops.VerbRm:
		return fmt.Sprintf("Removed %s (%s)", res.Source, FormatBytes(res.Bytes))
	case fileops.VerbTouch:
		return fmt.Sprintf("Touched %s", res.Source)
	case fileops.VerbMkdir:
		return fmt.Sprintf("Created directory %s", res.Source)
	case fileops.VerbStat:
		if res.Info != nil {
			return fmt.Sprintf("%s: %s, %s, modified %s",
				res.Info.Abs, res.Info.Kind, FormatBytes(res.Info.Size),
				res.Info.ModTime.Format(time.RFC3339))
		}
		return fmt.Sprintf("Stat %s", res.Source)
	default:
		return res.Message
	}
}

func wouldPhrase(res fileops.Result) string {
	switch res.Verb {
	case fileops.VerbCp:
		return fmt.Sprintf("Would copy %s to %s", res.Source, res.Dest)
	case fileops.VerbMv:
		return fmt.Sprintf("Would move %s to %s", res.Source, res.Dest)
	case fileops.VerbRm:
		return fmt.Sprintf("Would remove %s", res.Source)
	case fileops.VerbTouch:
		return fmt.Sprintf("Would touch %s", res.Source)
	case fileops.VerbMkdir:
		return fmt.Sprintf("Would create directory %s", res.Source)
	default:
		return res.Message
	}
}

// renderStructured builds the stable record form:
// ts=<RFC3339> id=<uuid> verb=<v> outcome=<o> path=<p> ...
// Key order is fixed; absent fields are omitted entirely.
func renderStructured(res fileops.Result) string {
	var b strings.Builder

	when := res.When
	if when.IsZero() {
		when = time.Now().UTC()
	}
	fmt.Fprintf(&b, "ts=%s", when.UTC().Format(time.RFC3339))
	if res.ID != "" {
		fmt.Fprintf(&b, " id=%s", res.ID)
	}
	fmt.Fprintf(&b, " verb=%s outcome=%s path=%s", res.Verb, res.Outcome, res.Source)
	if res.Dest != "" {
		fmt.Fprintf(&b, " dest=%s", res.Dest)
	}
	if res.Bytes > 0 {
		fmt.Fprintf(&b, " bytes=%d", res.Bytes)
	}
	if res.DryRun {
		b.WriteString(" dry_run=true")
	}
	if res.ErrKind != fileops.KindNone {
		fmt.Fprintf(&b, " error_kind=%s", res.ErrKind)
	}
	if res.Message != "" {
		escaped := strings.ReplaceAll(res.Message, `"`, `\"`)
		fmt.Fprintf(&b, ` msg="%s"`, escaped)
	}
	return b.String()
}

// FormatBytes renders a byte count for human output
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
