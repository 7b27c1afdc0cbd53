package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"media-orchestrator/internal/domain/dto"
	"media-orchestrator/pkg/constants"
	"media-orchestrator/pkg/file"
)

type client struct {
	base string
	http *http.Client
}

func main() {
	server := flag.String("server", "http://localhost:3000/api/v1", "Server base URL")
	format := flag.String("format", "mp4", "Output format")
	quality := flag.String("quality", constants.QualityStandard, "lossless, high, standard or low")
	turbo := flag.Bool("turbo", false, "Favour speed")
	eco := flag.Bool("eco", false, "Favour low resource use")
	name := flag.String("name", "merged", "Output file name")
	out := flag.String("out", "", "Where to save the result (default: ./<name>.<format>)")
	wait := flag.Duration("wait", 30*time.Minute, "Give up waiting for the job after this long")
	flag.Parse()

	files := flag.Args()
	if len(files) < 2 {
		log.Fatal("usage: client [flags] <file> <file> [file...]")
	}
	if *out == "" {
		*out = *name + "." + *format
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &client{base: strings.TrimRight(*server, "/"), http: &http.Client{}}

	fmt.Printf("Uploading %d files to %s\n", len(files), c.base)
	assets, err := c.upload(ctx, files)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
		fmt.Printf("  %s -> %s (%s, %.1fs)\n", a.OriginalName, a.ID, a.MediaKind, a.Metadata.DurationSeconds)
	}

	jobID, err := c.submit(ctx, dto.SubmitJobRequest{
		AssetIDs:   ids,
		Profile:    dto.ProfileDTO{Format: *format, Quality: *quality, Turbo: *turbo, Eco: *eco},
		OutputName: *name,
	})
	if err != nil {
		log.Fatalf("submit failed: %v", err)
	}
	fmt.Printf("Job %s accepted\n", jobID)

	// the wait bound is ours; the job keeps running on the server
	waitCtx, cancel := context.WithTimeout(ctx, *wait)
	defer cancel()
	job, err := c.poll(waitCtx, jobID)
	if err != nil {
		log.Fatalf("\nstopped waiting for job %s: %v", jobID, err)
	}
	fmt.Println()
	if job.State == constants.StatusFailed {
		log.Fatalf("job failed: %s", job.Error)
	}

	if err := c.download(ctx, jobID, *out); err != nil {
		log.Fatalf("download failed: %v", err)
	}
	if job.Checksum != "" {
		if err := file.ValidateFileHash(*out, job.Checksum); err != nil {
			log.Fatalf("checksum mismatch: %v", err)
		}
	}
	fmt.Printf("Saved %s\n", *out)
}

func (c *client) upload(ctx context.Context, paths []string) ([]dto.AssetResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		part, err := w.CreateFormFile("files", filepath.Base(p))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/uploads", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var assets []dto.AssetResponse
	return assets, c.do(req, http.StatusCreated, &assets)
}

func (c *client) submit(ctx context.Context, payload dto.SubmitJobRequest) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/jobs", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp dto.SubmitJobResponse
	if err := c.do(req, http.StatusAccepted, &resp); err != nil {
		return "", err
	}
	if resp.EcoSuppressed {
		fmt.Println("Note: turbo and eco both set, eco ignored")
	}
	return resp.JobID, nil
}

func (c *client) poll(ctx context.Context, jobID string) (dto.JobResponse, error) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/jobs/"+jobID, nil)
		if err != nil {
			return dto.JobResponse{}, err
		}
		var job dto.JobResponse
		if err := c.do(req, http.StatusOK, &job); err != nil {
			return dto.JobResponse{}, err
		}

		fmt.Printf("\r%-12s %5.1f%% %s", job.State, job.Progress, job.Throughput)
		if job.State == constants.StatusCompleted || job.State == constants.StatusFailed {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return dto.JobResponse{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *client) download(ctx context.Context, jobID, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/jobs/"+jobID+"/download", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d %s", resp.StatusCode, msg)
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *client) do(req *http.Request, want int, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("HTTP %d %s: %s", resp.StatusCode, e.Error, e.Message)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
