package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"media-orchestrator/internal/delivery/http/handlers"
	"media-orchestrator/internal/delivery/http/routers"
	"media-orchestrator/internal/domain/dto"
	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/infrastructure/metrics"
	"media-orchestrator/internal/usecases"
	"media-orchestrator/pkg/constants"
	apperrors "media-orchestrator/pkg/errors"
	"media-orchestrator/pkg/file"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type fakeUploads struct {
	usecases.UploadService
	assets []entities.Asset
}

func (f *fakeUploads) RegisterBatch(_ context.Context, files []usecases.UploadFile) ([]entities.Asset, error) {
	var out []entities.Asset
	for i, uf := range files {
		if file.MediaKind(uf.Filename) == constants.MediaKindUnknown {
			return nil, apperrors.ErrUnsupportedMedia(uf.Filename)
		}
		rc, err := uf.Open()
		if err != nil {
			return nil, err
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		out = append(out, entities.Asset{
			ID:           fmt.Sprintf("asset-%d", i),
			OriginalName: uf.Filename,
			Size:         int64(len(data)),
			MediaKind:    file.MediaKind(uf.Filename),
		})
	}
	f.assets = append(f.assets, out...)
	return out, nil
}

func (f *fakeUploads) List() []entities.Asset { return f.assets }
func (f *fakeUploads) Count() int             { return len(f.assets) }

func (f *fakeUploads) Lookup(id string) (entities.Asset, error) {
	for _, a := range f.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return entities.Asset{}, apperrors.ErrNotFound(nil)
}

type trackedBody struct {
	io.Reader
	closed *atomic.Bool
}

func (b trackedBody) Close() error {
	b.closed.Store(true)
	return nil
}

type fakeJobs struct {
	usecases.JobService
	jobs   map[string]entities.Job
	closed atomic.Bool
	onGet  func(id string)
}

func (f *fakeJobs) Submit(_ context.Context, req usecases.SubmitRequest) (entities.Job, error) {
	if len(req.AssetIDs) < 2 {
		return entities.Job{}, apperrors.ErrValidation("assetIds must contain at least 2 entries")
	}
	profile := req.Profile.Normalize()
	if err := profile.Validate(); err != nil {
		return entities.Job{}, err
	}
	job := entities.NewJob("job-new", nil, profile, "out."+profile.Format, "")
	f.jobs[job.ID] = *job
	return *job, nil
}

func (f *fakeJobs) Get(id string) (entities.Job, error) {
	j, ok := f.jobs[id]
	if f.onGet != nil {
		f.onGet(id)
	}
	if !ok {
		return entities.Job{}, apperrors.ErrNotFound(nil)
	}
	return j, nil
}

func (f *fakeJobs) List() []entities.Job {
	out := make([]entities.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out
}

func (f *fakeJobs) ActiveCount() int { return 0 }

func (f *fakeJobs) OpenOutput(id string) (io.ReadCloser, int64, entities.Job, error) {
	j, ok := f.jobs[id]
	if !ok || j.State != entities.JobCompleted {
		return nil, 0, entities.Job{}, apperrors.ErrNotFound(nil)
	}
	data := "merged bytes"
	return trackedBody{Reader: strings.NewReader(data), closed: &f.closed}, int64(len(data)), j, nil
}

type fakeStatus struct{}

func (fakeStatus) Status() dto.StatusResponse {
	return dto.StatusResponse{Status: constants.StatusOK, RegisteredAssets: 3}
}

type fakeRetention struct {
	usecases.RetentionService
	maxAge time.Duration
}

func (f *fakeRetention) Sweep(maxAge time.Duration) (int, error) {
	f.maxAge = maxAge
	return 2, nil
}

type testServer struct {
	app       *fiberApp
	uploads   *fakeUploads
	jobs      *fakeJobs
	events    usecases.Broadcaster
	retention *fakeRetention
}

func completedJob() entities.Job {
	job := entities.NewJob("job-done", nil, entities.EncodingProfile{Format: "mp4", Quality: "high"}, "holiday.mp4", "")
	_ = job.Transition(entities.JobInitializing)
	_ = job.Transition(entities.JobProcessing)
	_ = job.Transition(entities.JobCompleted)
	return *job
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	m := metrics.New()
	s := &testServer{
		uploads:   &fakeUploads{},
		jobs:      &fakeJobs{jobs: map[string]entities.Job{"job-done": completedJob()}},
		events:    usecases.NewBroadcaster(8, m),
		retention: &fakeRetention{},
	}

	app := routers.NewApp(10 * 1024 * 1024)
	routers.SetupRoutes(app, routers.Handlers{
		Upload:      handlers.NewUploadHandler(s.uploads),
		Job:         handlers.NewJobHandler(s.jobs, nil),
		Events:      handlers.NewEventsHandler(s.events, s.jobs, time.Second, zap.NewNop()),
		Status:      handlers.NewStatusHandler(fakeStatus{}),
		Maintenance: handlers.NewMaintenanceHandler(s.retention, time.Hour),
	}, m)
	s.app = &fiberApp{app}
	return s
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func multipartBody(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, n := range names {
		part, err := w.CreateFormFile("files", filepath.Base(n))
		if err != nil {
			t.Fatal(err)
		}
		fmt.Fprintf(part, "content of %s", n)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadBatch(t *testing.T) {
	s := newTestServer(t)
	body, ct := multipartBody(t, "a.mp4", "b.mp3")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", ct)
	resp := s.app.do(t, req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var assets []dto.AssetResponse
	decode(t, resp, &assets)
	if len(assets) != 2 || assets[0].MediaKind != constants.MediaKindVideo || assets[1].Size != int64(len("content of b.mp3")) {
		t.Errorf("assets = %+v", assets)
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/uploads/asset-0", nil))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get asset status = %d", resp.StatusCode)
	}
}

func TestUploadRejected(t *testing.T) {
	s := newTestServer(t)
	body, ct := multipartBody(t, "a.mp4", "notes.txt")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", ct)
	resp := s.app.do(t, req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var e dto.ErrorResponse
	decode(t, resp, &e)
	if e.Error != apperrors.CodeUnsupportedMedia {
		t.Errorf("error = %+v", e)
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/uploads", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing form status = %d", resp.StatusCode)
	}
}

func TestSubmitJob(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"accepted", `{"assetIds":["a","b"],"profile":{"format":"mp4","quality":"high","turbo":true,"eco":true}}`, http.StatusAccepted, ""},
		{"one input", `{"assetIds":["a"],"profile":{"format":"mp4"}}`, http.StatusBadRequest, apperrors.CodeValidation},
		{"bad profile", `{"assetIds":["a","b"],"profile":{"format":"gif"}}`, http.StatusBadRequest, apperrors.CodeInvalidProfile},
		{"bad json", `{"assetIds":`, http.StatusBadRequest, apperrors.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := s.app.do(t, req)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.code == "" {
				var out dto.SubmitJobResponse
				decode(t, resp, &out)
				if out.JobID != "job-new" || !out.EcoSuppressed {
					t.Errorf("response = %+v", out)
				}
				return
			}
			var e dto.ErrorResponse
			decode(t, resp, &e)
			if e.Error != tt.code {
				t.Errorf("error = %+v", e)
			}
		})
	}
}

func TestGetAndListJobs(t *testing.T) {
	s := newTestServer(t)

	resp := s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-done", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var job dto.JobResponse
	decode(t, resp, &job)
	if job.State != constants.StatusCompleted || job.Progress != 100 {
		t.Errorf("job = %+v", job)
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nope", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown job status = %d", resp.StatusCode)
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	var list dto.JobListResponse
	decode(t, resp, &list)
	if len(list.Jobs) != 1 {
		t.Errorf("listed %d jobs", len(list.Jobs))
	}
}

func TestJobHistoryDisabled(t *testing.T) {
	s := newTestServer(t)
	resp := s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/history", nil))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestDownload(t *testing.T) {
	s := newTestServer(t)

	resp := s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-done/download", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if string(data) != "merged bytes" {
		t.Errorf("body = %q", data)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="holiday.mp4"` {
		t.Errorf("content-disposition = %q", cd)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("content-type = %q", ct)
	}
	if !s.jobs.closed.Load() {
		t.Error("output stream not closed")
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nope/download", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown job download status = %d", resp.StatusCode)
	}
}

func TestEventsForTerminalJob(t *testing.T) {
	s := newTestServer(t)

	resp := s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/events?jobId=job-done", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content-type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), `"state":"completed"`) || !strings.HasPrefix(string(data), "event: job\ndata: ") {
		t.Errorf("stream = %q", data)
	}
	if s.events.Count() != 0 {
		t.Error("subscription left behind")
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/events?jobId=nope", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown job events status = %d", resp.StatusCode)
	}
	if s.events.Count() != 0 {
		t.Error("subscription left behind for unknown job")
	}
}

func TestEventsJobFinishingDuringSnapshot(t *testing.T) {
	s := newTestServer(t)

	running := entities.NewJob("job-racing", nil, entities.EncodingProfile{Format: "mp4", Quality: "high"}, "race.mp4", "")
	_ = running.Transition(entities.JobInitializing)
	_ = running.Transition(entities.JobProcessing)
	s.jobs.jobs[running.ID] = *running

	// the job completes after the snapshot is read but before it is written
	s.jobs.onGet = func(id string) {
		done := *running
		_ = done.Transition(entities.JobCompleted)
		s.events.Publish(done.Event())
	}

	resp := s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/events?jobId=job-racing", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	stream := string(data)
	if !strings.Contains(stream, `"state":"processing"`) || !strings.Contains(stream, `"state":"completed"`) {
		t.Errorf("stream = %q", stream)
	}
	if strings.Index(stream, `"state":"processing"`) > strings.Index(stream, `"state":"completed"`) {
		t.Errorf("terminal event before snapshot: %q", stream)
	}
	if s.events.Count() != 0 {
		t.Error("subscription left behind")
	}
}

func TestSystemRoutes(t *testing.T) {
	s := newTestServer(t)

	resp := s.app.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	var st dto.StatusResponse
	decode(t, resp, &st)
	if st.RegisteredAssets != 3 {
		t.Errorf("status = %+v", st)
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), "media_jobs_submitted_total") {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}

func TestSweep(t *testing.T) {
	s := newTestServer(t)

	resp := s.app.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/maintenance/sweep?maxAge=2h", nil))
	var out dto.SweepResponse
	decode(t, resp, &out)
	if out.Removed != 2 || s.retention.maxAge != 2*time.Hour {
		t.Errorf("removed = %d, maxAge = %v", out.Removed, s.retention.maxAge)
	}

	resp = s.app.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/maintenance/sweep?maxAge=soon", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

type fiberApp struct {
	*fiber.App
}

func (a *fiberApp) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := a.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	return resp
}
