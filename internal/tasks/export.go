package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kdlcruz/tito/internal/formatter"
	"github.com/kdlcruz/tito/internal/guard"
	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/shared"
	"golang.org/x/time/rate"
)

// ProgressStage enumerates the phases reported during a bulk export.
type ProgressStage int

const (
	StageFetchingInterns ProgressStage = iota
	StageExporting
	StageExportCompleted
	StageExportFailed
)

// ProgressUpdate is one non-blocking status report from a long operation.
type ProgressUpdate struct {
	Stage   ProgressStage
	Current int
	Total   int
	Detail  string
	Err     error
}

// ExportOpts contains configuration for bulk attendance exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: attendance_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// InternExportResult is the outcome of exporting one intern's logs.
type InternExportResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	File    string `json:"file,omitempty"`
	Logs    int    `json:"logs"`
	Error   string `json:"error,omitempty"`
}

// ExportResult summarizes a bulk attendance export.
type ExportResult struct {
	TotalInterns      int                  `json:"total_interns"`
	SuccessfulExports int                  `json:"successful_exports"`
	FailedExports     int                  `json:"failed_exports"`
	OutputDirectory   string               `json:"output_directory"`
	Results           []InternExportResult `json:"results"`
}

type exportJob struct {
	email string
	logs  []models.AttendanceLog
}

// ExportAttendance exports every intern's attendance logs concurrently with
// rate limiting and progress tracking. Admin sessions only; the guard denies
// everyone else before any wire call.
func (e *AttendanceEngine) ExportAttendance(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	sess := e.sessions.Current()
	req := models.NavigationRequest{TargetPath: guard.PathAdminHome, TargetName: "admin_home"}
	if decision := guard.Decide(req, sess, e.store.Snapshot()); !decision.Allowed {
		return nil, fmt.Errorf("%w: redirected to %s", shared.ErrUnauthorizedNavigation, decision.RedirectTo)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("attendance_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Format == "" {
		opts.Format = "csv"
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(prog, ProgressUpdate{Stage: StageFetchingInterns})

	interns, err := e.api.Interns(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list interns: %v", shared.ErrAPIRequest, err)
	}

	result := &ExportResult{
		TotalInterns:    len(interns),
		OutputDirectory: opts.OutputDir,
		Results:         make([]InternExportResult, 0, len(interns)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(interns))
	results := make(chan InternExportResult, len(interns))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(&wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, intern := range interns {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			logs, err := e.api.InternAttendance(ctx, intern.Email)
			if err != nil {
				results <- InternExportResult{
					Email: intern.Email,
					Error: fmt.Sprintf("failed to fetch attendance: %v", err),
				}
				continue
			}

			jobs <- exportJob{email: intern.Email, logs: logs}
			e.sendProgress(prog, ProgressUpdate{
				Stage:   StageExporting,
				Current: i + 1,
				Total:   len(interns),
				Detail:  intern.Email,
			})
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		update := ProgressUpdate{Current: completed, Total: len(interns), Detail: res.Email}
		if res.Success {
			result.SuccessfulExports++
			update.Stage = StageExportCompleted
		} else {
			result.FailedExports++
			update.Stage = StageExportFailed
			update.Err = fmt.Errorf("%s", res.Error)
		}
		e.sendProgress(prog, update)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	manifest, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("failed to write manifest: %w", err)
	}

	return result, nil
}

// exportWorker formats and writes one intern's logs per job.
func (e *AttendanceEngine) exportWorker(wg *sync.WaitGroup, jobs <-chan exportJob, results chan<- InternExportResult, opts ExportOpts) {
	defer wg.Done()

	for job := range jobs {
		data, ext, err := formatLogs(job.email, job.logs, opts.Format)
		if err != nil {
			results <- InternExportResult{Email: job.email, Logs: len(job.logs), Error: err.Error()}
			continue
		}

		path := filepath.Join(opts.OutputDir, job.email+ext)
		if err := os.WriteFile(path, data, 0644); err != nil {
			results <- InternExportResult{Email: job.email, Logs: len(job.logs), Error: err.Error()}
			continue
		}

		results <- InternExportResult{Email: job.email, Success: true, File: path, Logs: len(job.logs)}
	}
}

func formatLogs(email string, logs []models.AttendanceLog, format string) ([]byte, string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(logs, "", "  ")
		return data, ".json", err
	case "csv":
		data, err := formatter.ExportToCSV(logs)
		return data, ".csv", err
	case "markdown", "md":
		data, err := formatter.ExportToMarkdown(email, logs)
		return data, ".md", err
	case "txt", "text":
		data, err := formatter.ExportToText(email, logs)
		return data, ".txt", err
	}
	return nil, "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
}

// sendProgress sends a progress update through the channel without blocking.
func (e *AttendanceEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
