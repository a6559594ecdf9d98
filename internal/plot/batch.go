package plot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"rig-curve-tools/internal/curve"
)

// BatchJob is one channel curve to render.
type BatchJob struct {
	Channel string
	Curve   *curve.Curve
}

// Result holds the outcome of rendering one channel.
type Result struct {
	Channel string
	Image   string
	Keys    int
	Success bool
	Error   string
}

// BatchConfig holds shared settings for a batch render.
type BatchConfig struct {
	OutDir  string
	Ext     string // "webp" or "tga"
	Options Options
	Workers int
}

// RunBatch renders all jobs through a worker pool and reports progress
// every two seconds.
func RunBatch(cfg BatchConfig, jobs []BatchJob) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f plots/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = renderJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func renderJob(cfg BatchConfig, job BatchJob) Result {
	outPath := filepath.Join(cfg.OutDir, job.Channel+"."+cfg.Ext)

	img := Render(job.Curve, job.Channel, cfg.Options)
	if err := WriteImage(outPath, img); err != nil {
		return Result{
			Channel: job.Channel,
			Image:   filepath.Base(outPath),
			Keys:    job.Curve.KeyCount(),
			Error:   err.Error(),
		}
	}

	return Result{
		Channel: job.Channel,
		Image:   filepath.Base(outPath),
		Keys:    job.Curve.KeyCount(),
		Success: true,
	}
}

// WriteManifest writes a JSON manifest of rendered plots.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
