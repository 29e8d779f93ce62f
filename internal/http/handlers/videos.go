package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"videoforge/internal/history"
)

// ListVideos returns the stored history newest-first, optionally narrowed by
// the q (substring over prompt or style) and style (exact) query parameters.
func (a *App) ListVideos(w http.ResponseWriter, r *http.Request) {
	filter := history.Filter{
		Query: r.URL.Query().Get("q"),
		Style: r.URL.Query().Get("style"),
	}
	records := a.History.List(r.Context(), filter)
	if records == nil {
		records = []history.Record{}
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":      records,
		"totalCount": len(records),
	})
}

// DeleteVideo removes one record. Deleting an unknown id is not an error.
func (a *App) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.fail(w, http.StatusBadRequest, "id required", "")
		return
	}
	deleted := a.History.DeleteByID(r.Context(), id)
	a.json(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}

// ClearVideos empties the whole history.
func (a *App) ClearVideos(w http.ResponseWriter, r *http.Request) {
	a.History.Clear(r.Context())
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

// VideoStats reports totals and per-style/per-aspect breakdowns.
func (a *App) VideoStats(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.History.Stats(r.Context()))
}

// DownloadVideo streams the stored video back as an attachment with a
// metadata-derived filename.
func (a *App) DownloadVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, ok := a.History.Get(r.Context(), id)
	if !ok {
		a.fail(w, http.StatusNotFound, "Video not found", "")
		return
	}
	if !history.IsValidVideoURL(record.VideoURL) {
		a.Logger.Error().Str("id", id).Str("url", record.VideoURL).Msg("stored video url is not downloadable")
		a.fail(w, http.StatusInternalServerError, "Download failed", "Unable to download video.")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, record.VideoURL, nil)
	if err != nil {
		a.Logger.Error().Err(err).Str("id", id).Msg("build download request failed")
		a.fail(w, http.StatusInternalServerError, "Download failed", "Unable to download video.")
		return
	}
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		a.Logger.Error().Err(err).Str("id", id).Msg("download request failed")
		a.fail(w, http.StatusBadGateway, "Download failed", "Unable to download video.")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.Logger.Error().Int("status", resp.StatusCode).Str("id", id).Msg("download source returned error")
		a.fail(w, http.StatusBadGateway, "Download failed", "Unable to download video.")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+record.Filename()+`"`)
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	w.WriteHeader(http.StatusOK)
	written, err := io.Copy(w, resp.Body)
	if err != nil {
		a.Logger.Error().Err(err).Str("id", id).Msg("download stream interrupted")
		return
	}
	a.Logger.Debug().
		Str("id", id).
		Str("size", history.FormatFileSize(written)).
		Msg("video download served")
}
