// Package telemetry writes per-day simulation records to CSV for offline
// analysis. One row lands per settled day; the recorder is optional and a
// nil *Recorder safely ignores every call.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// DayRecord is one settled day in days.csv.
type DayRecord struct {
	Day            int     `csv:"day"`
	Balance        float64 `csv:"balance"`
	Net            float64 `csv:"net"`
	Animals        int     `csv:"animals"`
	Deaths         int     `csv:"deaths"`
	Visitors       int     `csv:"visitors"`
	Satisfaction   float64 `csv:"satisfaction"`
	AvgHappiness   float64 `csv:"avg_happiness"`
	AvgCleanliness float64 `csv:"avg_cleanliness"`
	Incident       string  `csv:"incident"`
}

// Recorder streams day summaries to a CSV file off the engine goroutine.
type Recorder struct {
	file          *os.File
	logger        *logger.Logger
	headerWritten bool
	summaries     chan engine.DaySummary
}

// NewRecorder opens <dir>/days.csv for writing. An empty dir disables
// telemetry: the returned nil Recorder ignores every call.
func NewRecorder(dir string, log *logger.Logger) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "days.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating days.csv: %w", err)
	}
	return &Recorder{
		file:      f,
		logger:    log,
		summaries: make(chan engine.DaySummary, 64),
	}, nil
}

// Record queues one day summary for writing. Never blocks: when the writer
// falls behind, the row is dropped with a warning. Safe to call from engine
// callbacks.
func (r *Recorder) Record(s engine.DaySummary) {
	if r == nil {
		return
	}
	select {
	case r.summaries <- s:
	default:
		r.logger.Warnf("telemetry writer behind, dropping day %d", s.Day)
	}
}

// Run consumes queued summaries until ctx is cancelled, then closes the
// file. Start it once, in its own goroutine.
func (r *Recorder) Run(ctx context.Context) {
	if r == nil {
		return
	}
	defer r.file.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-r.summaries:
			if err := r.writeRow(s); err != nil {
				r.logger.Errorf("telemetry write failed: %v", err)
			}
		}
	}
}

func (r *Recorder) writeRow(s engine.DaySummary) error {
	rows := []DayRecord{{
		Day:            s.Day,
		Balance:        s.Balance,
		Net:            s.Net,
		Animals:        s.Animals,
		Deaths:         s.Deaths,
		Visitors:       s.Visitors,
		Satisfaction:   s.Satisfaction,
		AvgHappiness:   s.AvgHappiness,
		AvgCleanliness: s.AvgCleanliness,
		Incident:       s.Incident,
	}}
	if !r.headerWritten {
		if err := gocsv.Marshal(rows, r.file); err != nil {
			return err
		}
		r.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, r.file)
}
