package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"videoforge/internal/history"
	"videoforge/internal/middleware"
	"videoforge/internal/videogen"
)

const heartbeatInterval = 10 * time.Second

// GenerateVideo accepts a prompt, forwards the enhanced variant upstream, and
// answers with either a JSON envelope (video URL + metadata) or the raw video
// bytes, depending on what the upstream produced.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req videogen.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	// Reject bad input before enhancement or any upstream call.
	if strings.TrimSpace(req.Prompt) == "" {
		a.fail(w, http.StatusBadRequest, "Prompt is required", "")
		return
	}
	if len(strings.TrimSpace(req.Prompt)) > videogen.MaxPromptLength {
		a.fail(w, http.StatusBadRequest, "Prompt must be less than 1000 characters", "")
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	started := time.Now()

	// Cosmetic heartbeat while the upstream renders; says nothing about real
	// progress and is stopped unconditionally once the request settles.
	hb := videogen.StartHeartbeat(heartbeatInterval, func(tick int) {
		a.Logger.Debug().
			Str("request_id", requestID).
			Int("tick", tick).
			Dur("elapsed", time.Since(started)).
			Msg("generation in flight")
	})
	defer hb.Stop()

	result, err := a.Generator.Generate(r.Context(), req)
	if err != nil {
		a.failGeneration(w, requestID, err)
		return
	}

	if result.IsBinary() {
		a.serveVideoBytes(w, result)
		return
	}

	record := history.Record{
		ID:       history.NewRecordID(),
		Prompt:   strings.TrimSpace(req.Prompt),
		VideoURL: result.VideoURL,
		Metadata: result.Metadata,
	}
	a.History.Append(r.Context(), record)

	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"videoUrl": result.VideoURL,
		"message":  "Video generated successfully!",
		"metadata": result.Metadata,
	})
}

func (a *App) failGeneration(w http.ResponseWriter, requestID string, err error) {
	logEvent := a.Logger.Error().Str("request_id", requestID).Err(err)

	switch {
	case errors.Is(err, videogen.ErrInvalidPrompt):
		logEvent.Msg("generation rejected")
		a.fail(w, http.StatusBadRequest, "Invalid prompt", "")
	case errors.Is(err, videogen.ErrTimeout):
		logEvent.Msg("generation timed out")
		a.fail(w, http.StatusRequestTimeout, "Request timeout",
			"Video generation is taking longer than expected. Please try again with a simpler prompt.")
	case errors.Is(err, videogen.ErrUpstreamFormat):
		logEvent.Msg("unexpected upstream response")
		a.fail(w, http.StatusInternalServerError, "Invalid response format from video generation service",
			"Please try again with a different prompt.")
	case errors.Is(err, videogen.ErrUpstream):
		logEvent.Msg("upstream generation failed")
		a.fail(w, http.StatusInternalServerError, "Video generation failed",
			"Unable to generate video at this time. Please try again.")
	default:
		logEvent.Msg("generation failed unexpectedly")
		a.fail(w, http.StatusInternalServerError, "Internal server error",
			"An unexpected error occurred. Please try again.")
	}
}

func (a *App) serveVideoBytes(w http.ResponseWriter, result *videogen.Result) {
	contentType := result.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="generated-video.mp4"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.VideoData)))
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.VideoData)
}

// GenerateVideoInfo is the capability probe for the generation endpoint.
func (a *App) GenerateVideoInfo(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":               "healthy",
		"service":              "Video Generation API",
		"model":                "Veo-3 Ultra 4K",
		"maxPromptLength":      videogen.MaxPromptLength,
		"supportedFormats":     []string{"MP4"},
		"supportedResolutions": []string{videogen.FixedQuality},
		"duration":             videogen.FixedDuration,
	})
}
