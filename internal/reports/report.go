// Package reports renders zoo state into operator-facing documents: a
// plain-text summary for terminals and the API, and a printable PDF for
// the front office. Renderers work on detached snapshot data and never
// touch live state.
package reports

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/events"
)

// historyTail caps how many ledger entries a report prints.
const historyTail = 15

// eventTail caps how many log entries a report prints.
const eventTail = 20

// RenderText builds the plain-text daily report.
func RenderText(data engine.ReportData) string {
	snap := data.Snapshot
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", snap.Name)
	fmt.Fprintf(&b, "Daily report, day %d (%s mode)\n", snap.Day, snap.Mode)
	b.WriteString(strings.Repeat("=", 48) + "\n\n")

	fmt.Fprintf(&b, "Balance:          $%.2f\n", snap.Balance)
	fmt.Fprintf(&b, "Animals:          %d (%d species)\n", snap.AnimalCount, snap.SpeciesCount)
	fmt.Fprintf(&b, "Avg happiness:    %.1f\n", snap.AvgHappiness)
	fmt.Fprintf(&b, "Avg cleanliness:  %.1f\n", snap.AvgCleanliness)
	fmt.Fprintf(&b, "Yesterday:        %d visitors, $%.2f tickets, $%.2f stalls, %.1f satisfaction\n\n",
		snap.Visitors.Count, snap.Visitors.TicketIncome, snap.Visitors.Spending, snap.Visitors.Satisfaction)

	b.WriteString("Enclosures\n")
	b.WriteString(strings.Repeat("-", 48) + "\n")
	if len(snap.Enclosures) == 0 {
		b.WriteString("  (none built yet)\n")
	}
	for _, enc := range snap.Enclosures {
		fmt.Fprintf(&b, "  %s [%s] %d/%d, level %d, cleanliness %.0f\n",
			enc.Name, enc.Habitat, len(enc.Animals), enc.Capacity, enc.UpgradeLevel, enc.Cleanliness)
		for _, a := range enc.Animals {
			fmt.Fprintf(&b, "    - %s (%s, %s, %dd) hunger %.0f health %.0f happiness %.0f\n",
				a.Name, a.Species, a.Sex, a.AgeDays, a.Hunger, a.Health, a.Happiness)
		}
	}
	b.WriteString("\n")

	b.WriteString("Store stock\n")
	b.WriteString(strings.Repeat("-", 48) + "\n")
	for _, line := range stockLines(snap) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Ledger (most recent)\n")
	b.WriteString(strings.Repeat("-", 48) + "\n")
	history := tailTransactions(data, historyTail)
	if len(history) == 0 {
		b.WriteString("  (no transactions)\n")
	}
	for _, tx := range history {
		sign := "+"
		if tx.Type == "DEBIT" {
			sign = "-"
		}
		fmt.Fprintf(&b, "  day %3d  %s$%8.2f  %-40s balance $%.2f\n", tx.Day, sign, tx.Amount, tx.Reason, tx.Balance)
	}
	b.WriteString("\n")

	b.WriteString("Recent events\n")
	b.WriteString(strings.Repeat("-", 48) + "\n")
	evs := tailEvents(data, eventTail)
	if len(evs) == 0 {
		b.WriteString("  (quiet so far)\n")
	}
	for _, e := range evs {
		fmt.Fprintf(&b, "  day %3d  %-18s %s\n", e.GameDay, e.Type, e.Message)
	}

	return b.String()
}

// RenderPDF writes the printable report to w.
func RenderPDF(data engine.ReportData, w io.Writer) error {
	snap := data.Snapshot
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s, day %d", snap.Name, snap.Day), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, snap.Name)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Daily report, day %d (%s mode)", snap.Day, snap.Mode))
	pdf.Ln(11)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Park overview")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	overview := []string{
		fmt.Sprintf("Balance: $%.2f", snap.Balance),
		fmt.Sprintf("Animals: %d across %d species", snap.AnimalCount, snap.SpeciesCount),
		fmt.Sprintf("Average happiness: %.1f", snap.AvgHappiness),
		fmt.Sprintf("Average cleanliness: %.1f", snap.AvgCleanliness),
		fmt.Sprintf("Yesterday: %d visitors, $%.2f tickets, $%.2f stall takings, satisfaction %.1f",
			snap.Visitors.Count, snap.Visitors.TicketIncome, snap.Visitors.Spending, snap.Visitors.Satisfaction),
	}
	for _, line := range overview {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Enclosures")
	pdf.Ln(8)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(50, 7, "Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Habitat", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Occupancy", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Level", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Cleanliness", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, enc := range snap.Enclosures {
		pdf.CellFormat(50, 6, enc.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, enc.Habitat, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d / %d", len(enc.Animals), enc.Capacity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", enc.UpgradeLevel), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.0f", enc.Cleanliness), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Residents")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	for _, enc := range snap.Enclosures {
		for _, a := range enc.Animals {
			pdf.Cell(0, 5, fmt.Sprintf("%s  (%s, %s, %d days)  hunger %.0f  health %.0f  happiness %.0f",
				a.Name, a.Species, a.Sex, a.AgeDays, a.Hunger, a.Health, a.Happiness))
			pdf.Ln(5)
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Ledger (most recent)")
	pdf.Ln(8)
	pdf.SetFont("Courier", "", 8)
	for _, tx := range tailTransactions(data, historyTail) {
		sign := "+"
		if tx.Type == "DEBIT" {
			sign = "-"
		}
		pdf.Cell(0, 5, fmt.Sprintf("day %3d  %s$%8.2f  %s", tx.Day, sign, tx.Amount, tx.Reason))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Recent events")
	pdf.Ln(8)
	pdf.SetFont("Courier", "", 8)
	for _, e := range tailEvents(data, eventTail) {
		pdf.Cell(0, 5, fmt.Sprintf("day %3d  %-18s %s", e.GameDay, e.Type, e.Message))
		pdf.Ln(5)
	}

	return pdf.Output(w)
}

// stockLines renders the store inventory in a stable order.
func stockLines(snap engine.ZooSnapshot) []string {
	if len(snap.Stock) == 0 {
		return []string{"(shelves are bare)"}
	}
	byName := make(map[string]int, len(snap.Stock))
	keys := make([]string, 0, len(snap.Stock))
	for t, n := range snap.Stock {
		byName[string(t)] = n
		keys = append(keys, string(t))
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%-16s x%d", k, byName[k]))
	}
	return lines
}

func tailTransactions(data engine.ReportData, n int) []finance.Transaction {
	h := data.History
	if len(h) > n {
		h = h[len(h)-n:]
	}
	return h
}

func tailEvents(data engine.ReportData, n int) []events.GameEvent {
	e := data.Events
	if len(e) > n {
		e = e[len(e)-n:]
	}
	return e
}
