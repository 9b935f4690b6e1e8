package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// exportTimeout bounds how long one export may hold an engine reply slot.
const exportTimeout = 30 * time.Second

// Exporter writes report files on a cron schedule while the park runs
// unattended. A nil Exporter is disabled and ignores every call.
type Exporter struct {
	cron   *cron.Cron
	engine *engine.Engine
	logger *logger.Logger
	dir    string
	spec   string
}

// NewExporter schedules exports per the cron spec (standard five-field
// syntax, e.g. "0 * * * *" for hourly). An empty spec disables exporting.
func NewExporter(dir, spec string, eng *engine.Engine, log *logger.Logger) *Exporter {
	if spec == "" {
		return nil
	}
	if dir == "" {
		dir = "reports"
	}
	return &Exporter{
		cron:   cron.New(),
		engine: eng,
		logger: log,
		dir:    dir,
		spec:   spec,
	}
}

// Start registers the schedule and launches the cron runner.
func (e *Exporter) Start() error {
	if e == nil {
		return nil
	}
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if _, err := e.cron.AddFunc(e.spec, e.runScheduled); err != nil {
		return fmt.Errorf("scheduling report export: %w", err)
	}
	e.cron.Start()
	e.logger.Infof("report exporter armed: %q -> %s/", e.spec, e.dir)
	return nil
}

// Stop halts the schedule. An export already in flight finishes on its own.
func (e *Exporter) Stop() {
	if e == nil {
		return
	}
	e.cron.Stop()
}

func (e *Exporter) runScheduled() {
	if err := e.Export(); err != nil {
		e.logger.Errorf("scheduled report export failed: %v", err)
	}
}

// Export fetches fresh report data from the engine and writes both the
// text and PDF renderings, named after the current day. Callable outside
// the schedule too.
func (e *Exporter) Export() error {
	if e == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	res := e.engine.Submit(ctx, engine.Command{Action: engine.ActionReport})
	if res.Err != nil {
		return fmt.Errorf("fetching report data: %w", res.Err)
	}
	data, ok := res.Data.(engine.ReportData)
	if !ok {
		return fmt.Errorf("unexpected report payload %T", res.Data)
	}

	day := data.Snapshot.Day
	txtPath := filepath.Join(e.dir, fmt.Sprintf("report-day-%03d.txt", day))
	if err := os.WriteFile(txtPath, []byte(RenderText(data)), 0644); err != nil {
		return fmt.Errorf("writing text report: %w", err)
	}

	pdfPath := filepath.Join(e.dir, fmt.Sprintf("report-day-%03d.pdf", day))
	f, err := os.Create(pdfPath)
	if err != nil {
		return fmt.Errorf("creating pdf report: %w", err)
	}
	defer f.Close()
	if err := RenderPDF(data, f); err != nil {
		return fmt.Errorf("rendering pdf report: %w", err)
	}

	e.logger.Infof("report exported for day %d", day)
	return nil
}
