package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// NewMux registers every route on a fresh mux.
func NewMux(d Deps) *http.ServeMux {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	hh := HealthHandler{Sessions: d.Sessions}
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Root,
	}))
	mux.HandleFunc("/ping", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Ping,
	}))
	mux.HandleFunc("/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Status,
	}))

	lh := LeadsHandler{Sessions: d.Sessions, MaxUploadBytes: d.MaxUploadBytes}
	mux.HandleFunc("/sessions", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.NewSession,
	}))
	mux.HandleFunc("/offer", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.SetOffer,
	}))
	mux.HandleFunc("/leads/upload", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.Upload,
	}))

	sh := ScoringHandler{Sessions: d.Sessions}
	mux.HandleFunc("/score", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Run,
	}))
	mux.HandleFunc("/results", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Results,
	}))
	mux.HandleFunc("/results/export", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Export,
	}))
	mux.HandleFunc("/api/summarize", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Summarize,
	}))
	mux.HandleFunc("/api/notify-slack", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.NotifyTop,
	}))

	return mux
}

// NewHandler wraps the mux with the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return Chain(NewMux(d), RequestID, AccessLog(d.Logger), Recover(d.Logger), Cors)
}
