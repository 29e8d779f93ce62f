package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"videoforge/internal/history"
	"videoforge/internal/infra"
	"videoforge/internal/storage"
	"videoforge/internal/videogen"
)

type fakeGenerator struct {
	result *videogen.Result
	err    error
	calls  int
	last   videogen.GenerateRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req videogen.GenerateRequest) (*videogen.Result, error) {
	f.calls++
	f.last = req
	return f.result, f.err
}

func (f *fakeGenerator) Model() string { return "replicate/google/veo-3" }

func newTestApp(gen *fakeGenerator) (*App, *history.Store) {
	discard := zerolog.New(io.Discard)
	logger := infra.Logger(discard)
	store := history.NewStore(storage.NewMemoryStore(), history.StoreOptions{Logger: &logger})
	return NewApp(&logger, gen, store), store
}

func postGenerate(t *testing.T, app *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-video", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	app.GenerateVideo(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestGenerateVideoSuccess(t *testing.T) {
	gen := &fakeGenerator{result: &videogen.Result{
		VideoURL: "https://x/video.mp4",
		Metadata: videogen.Metadata{
			Prompt:      "an eagle",
			Style:       "cinematic",
			AspectRatio: "16:9",
			Duration:    videogen.FixedDuration,
			Quality:     videogen.FixedQuality,
			GeneratedAt: time.Now().UTC(),
		},
	}}
	app, store := newTestApp(gen)

	rec := postGenerate(t, app, `{"prompt":"an eagle","style":"cinematic"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
	if body["videoUrl"] != "https://x/video.mp4" {
		t.Fatalf("videoUrl = %v", body["videoUrl"])
	}
	meta, ok := body["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("metadata missing: %v", body)
	}
	if meta["quality"] != videogen.FixedQuality || meta["duration"] != videogen.FixedDuration {
		t.Fatalf("metadata = %#v", meta)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}

	records := store.List(context.Background(), history.Filter{})
	if len(records) != 1 || records[0].VideoURL != "https://x/video.mp4" {
		t.Fatalf("history after success = %#v", records)
	}
}

func TestGenerateVideoRejectsEmptyPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	app, _ := newTestApp(gen)

	rec := postGenerate(t, app, `{"prompt":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Prompt is required" {
		t.Fatalf("error = %v", body["error"])
	}
	if gen.calls != 0 {
		t.Fatalf("generator should not be called for invalid input")
	}
}

func TestGenerateVideoRejectsOversizedPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	app, _ := newTestApp(gen)

	rec := postGenerate(t, app, `{"prompt":"`+strings.Repeat("a", videogen.MaxPromptLength+1)+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if gen.calls != 0 {
		t.Fatalf("generator should not be called for invalid input")
	}
}

func TestGenerateVideoInvalidJSON(t *testing.T) {
	app, _ := newTestApp(&fakeGenerator{})
	rec := postGenerate(t, app, `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGenerateVideoTimeout(t *testing.T) {
	gen := &fakeGenerator{err: videogen.ErrTimeout}
	app, _ := newTestApp(gen)

	rec := postGenerate(t, app, `{"prompt":"a slow render"}`)
	if rec.Code != http.StatusRequestTimeout {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Request timeout" {
		t.Fatalf("error = %v", body["error"])
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "simpler prompt") {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestGenerateVideoUpstreamErrorHidesDetail(t *testing.T) {
	gen := &fakeGenerator{err: errors.Join(videogen.ErrUpstream, errors.New("status 503: secret upstream diagnostics"))}
	app, store := newTestApp(gen)

	rec := postGenerate(t, app, `{"prompt":"a volcano"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret upstream diagnostics") {
		t.Fatalf("internal diagnostics leaked to client: %s", rec.Body)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Video generation failed" {
		t.Fatalf("error = %v", body["error"])
	}
	if records := store.List(context.Background(), history.Filter{}); len(records) != 0 {
		t.Fatalf("failed generation must not reach history")
	}
}

func TestGenerateVideoUpstreamFormatError(t *testing.T) {
	gen := &fakeGenerator{err: videogen.ErrUpstreamFormat}
	app, _ := newTestApp(gen)

	rec := postGenerate(t, app, `{"prompt":"a glacier"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Invalid response format from video generation service" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestGenerateVideoUnexpectedError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	app, _ := newTestApp(gen)

	rec := postGenerate(t, app, `{"prompt":"a storm"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Internal server error" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestGenerateVideoBinaryResponse(t *testing.T) {
	payload := []byte{0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p'}
	gen := &fakeGenerator{result: &videogen.Result{
		VideoData:   payload,
		ContentType: "video/mp4",
		Metadata:    videogen.Metadata{Style: "cinematic"},
	}}
	app, store := newTestApp(gen)

	rec := postGenerate(t, app, `{"prompt":"ocean waves"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") {
		t.Fatalf("content disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "8" {
		t.Fatalf("content length = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); !strings.Contains(got, "max-age=31536000") {
		t.Fatalf("cache control = %q", got)
	}
	if rec.Body.Len() != len(payload) {
		t.Fatalf("body length = %d", rec.Body.Len())
	}
	// Binary responses carry no resolvable URL, so nothing lands in history.
	if records := store.List(context.Background(), history.Filter{}); len(records) != 0 {
		t.Fatalf("binary result must not reach history")
	}
}

func TestGenerateVideoInfo(t *testing.T) {
	app, _ := newTestApp(&fakeGenerator{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/generate-video", nil)
	app.GenerateVideoInfo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" || body["service"] != "Video Generation API" {
		t.Fatalf("descriptor = %#v", body)
	}
	if body["maxPromptLength"] != float64(videogen.MaxPromptLength) {
		t.Fatalf("maxPromptLength = %v", body["maxPromptLength"])
	}
	if body["duration"] != videogen.FixedDuration {
		t.Fatalf("duration = %v", body["duration"])
	}
}
