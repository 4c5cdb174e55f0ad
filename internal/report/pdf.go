// Package report renders a progress snapshot as a printable PDF.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/go-pdf/fpdf"
)

// recentHistory is how many history entries the report lists.
const recentHistory = 10

// WritePDF renders snap to w. now stamps the document header.
func WritePDF(w io.Writer, snap domain.Snapshot, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now.UTC())
	pdf.SetTitle("Waypoint progress report", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := "No roadmap loaded"
	if snap.CurrentRoadmap != nil {
		title = snap.CurrentRoadmap.Title
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Progress Report: "+title))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	who := "anonymous"
	if snap.IsAuthenticated && snap.CurrentUser != nil {
		who = snap.CurrentUser.Name
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Generated %s for %s", now.UTC().Format("2006-01-02 15:04 MST"), who)))
	pdf.Ln(10)

	writeSummary(pdf, snap.ProgressStats)
	writeMilestones(pdf, tr, snap.Milestones)
	writeHistory(pdf, tr, snap.ProgressHistory)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}

// WritePDFFile renders snap into a new file at path.
func WritePDFFile(path string, snap domain.Snapshot, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := WritePDF(f, snap, now); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSummary(pdf *fpdf.Fpdf, stats domain.ProgressStats) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%d of %d milestones completed (%d%%)", stats.Completed, stats.Total, stats.Percentage))
	pdf.Ln(9)

	// Progress bar
	const width, height = 120.0, 5.0
	x, y := pdf.GetXY()
	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(x, y, width, height, "D")
	if stats.Percentage > 0 {
		pdf.SetFillColor(46, 160, 67)
		pdf.Rect(x, y, width*float64(domain.ClampProgress(stats.Percentage))/100, height, "F")
	}
	pdf.Ln(height + 6)
}

func writeMilestones(pdf *fpdf.Fpdf, tr func(string) string, ms []domain.Milestone) {
	completed, pending := domain.SplitByCompletion(ms)

	section := func(heading string, list []domain.Milestone) {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, fmt.Sprintf("%s (%d)", heading, len(list)))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		if len(list) == 0 {
			pdf.Cell(0, 7, "  - None.")
			pdf.Ln(7)
		}
		for _, m := range list {
			mark := "[ ]"
			if m.IsCompleted() {
				mark = "[x]"
			}
			pdf.Cell(0, 7, tr(fmt.Sprintf("  %s %s  %3d%%  %s", mark, m.Title, m.Progress, m.Status)))
			pdf.Ln(6)
			if m.Description != "" {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(0, 5, tr("      "+m.Description), "", "", false)
				pdf.SetFont("Arial", "", 11)
			}
		}
		pdf.Ln(4)
	}

	section("Completed", completed)
	section("Pending", pending)
}

func writeHistory(pdf *fpdf.Fpdf, tr func(string) string, history []domain.ProgressHistoryEntry) {
	if len(history) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Recent Activity")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)

	start := 0
	if len(history) > recentHistory {
		start = len(history) - recentHistory
	}
	for i := len(history) - 1; i >= start; i-- {
		e := history[i]
		pdf.Cell(0, 6, tr(fmt.Sprintf("[%s] %s: %d%% -> %d%%", e.Timestamp, e.MilestoneID, e.PreviousProgress, e.NewProgress)))
		pdf.Ln(6)
	}
}
