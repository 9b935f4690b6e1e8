package reports

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/events"
)

func sampleReport() engine.ReportData {
	return engine.ReportData{
		Snapshot: engine.ZooSnapshot{
			Name:    "Test Park",
			Day:     12,
			Mode:    "paused",
			Balance: 1837.50,
			Enclosures: []engine.EnclosureView{
				{
					ID: "e1", Name: "Gum Grove", Habitat: "forest",
					Capacity: 4, UpgradeLevel: 2, Cleanliness: 73,
					Animals: []engine.AnimalView{
						{ID: "a1", Name: "Kiki", Species: "Koala", Sex: "F", AgeDays: 40, Hunger: 25, Health: 90, Happiness: 80, Alive: true},
						{ID: "a2", Name: "Koko", Species: "Koala", Sex: "M", AgeDays: 38, Hunger: 30, Health: 85, Happiness: 75, Alive: true},
					},
				},
			},
			Stock:          map[item.ItemType]int{item.FoodEucalyptus: 7, item.FoodSeeds: 3},
			Visitors:       zoo.VisitorDay{Day: 11, Count: 42, TicketIncome: 1050, Spending: 311.20, Satisfaction: 68.4},
			AnimalCount:    2,
			SpeciesCount:   1,
			AvgHappiness:   77.5,
			AvgCleanliness: 73,
		},
		History: []finance.Transaction{
			{ID: "t1", Day: 11, Type: finance.EntryCredit, Amount: 1361.20, Reason: "Daily visitors & sales", Balance: 1837.50},
		},
		Events: []events.GameEvent{
			{ID: "ev1", Type: events.EventTypeVisitorIntake, GameDay: 11, Message: "42 visitors came through the gates"},
		},
	}
}

func TestTextReportCoversEverySection(t *testing.T) {
	// Setup
	data := sampleReport()

	// Act
	out := RenderText(data)

	// Assert
	wantLines := []string{
		"Test Park",
		"Daily report, day 12 (paused mode)",
		"Balance:          $1837.50",
		"Gum Grove [forest] 2/4, level 2, cleanliness 73",
		"Kiki (Koala, F, 40d)",
		"EUCALYPTUS",
		"Daily visitors & sales",
		"42 visitors came through the gates",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTextReportTailsLongHistories(t *testing.T) {
	// Setup
	data := sampleReport()
	data.History = nil
	for i := 1; i <= historyTail+5; i++ {
		data.History = append(data.History, finance.Transaction{
			Day: i, Type: finance.EntryDebit, Amount: 10, Reason: fmt.Sprintf("tx-%03d", i),
		})
	}
	data.Events = nil
	for i := 1; i <= eventTail+5; i++ {
		data.Events = append(data.Events, events.GameEvent{
			Type: events.EventTypeDaySettled, GameDay: i, Message: fmt.Sprintf("ev-%03d", i),
		})
	}

	// Act
	out := RenderText(data)

	// Assert
	if strings.Contains(out, "tx-001") {
		t.Errorf("Expected oldest transactions trimmed, got tx-001 in report")
	}
	if !strings.Contains(out, fmt.Sprintf("tx-%03d", historyTail+5)) {
		t.Errorf("Expected newest transaction kept, missing tx-%03d", historyTail+5)
	}
	if strings.Contains(out, "ev-001") {
		t.Errorf("Expected oldest events trimmed, got ev-001 in report")
	}
	if !strings.Contains(out, fmt.Sprintf("ev-%03d", eventTail+5)) {
		t.Errorf("Expected newest event kept, missing ev-%03d", eventTail+5)
	}
}

func TestPDFReportProducesADocument(t *testing.T) {
	// Setup
	data := sampleReport()
	var buf bytes.Buffer

	// Act
	err := RenderPDF(data, &buf)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Errorf("Expected a PDF document, got leading bytes %q", buf.String()[:min(8, buf.Len())])
	}
}
