package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"videoforge/internal/history"
	"videoforge/internal/infra"
	"videoforge/internal/videogen"
)

// Generator is the outbound generation contract the handlers depend on.
type Generator interface {
	Generate(ctx context.Context, req videogen.GenerateRequest) (*videogen.Result, error)
	Model() string
}

// App bundles the dependencies shared by all handlers.
type App struct {
	Logger     *infra.Logger
	Generator  Generator
	History    *history.Store
	HTTPClient *http.Client
}

func NewApp(logger *infra.Logger, generator Generator, store *history.Store) *App {
	return &App{
		Logger:     logger,
		Generator:  generator,
		History:    store,
		HTTPClient: http.DefaultClient,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes the uniform failure envelope. The message is the user-safe
// variant; diagnostic detail belongs in the log, never here.
func (a *App) fail(w http.ResponseWriter, code int, errText, message string) {
	body := map[string]any{
		"success": false,
		"error":   errText,
	}
	if message != "" {
		body["message"] = message
	}
	a.json(w, code, body)
}
