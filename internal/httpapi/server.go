package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/storewatch/internal/httpapi/middleware"
	"github.com/hamed0406/storewatch/internal/report"
	"github.com/hamed0406/storewatch/internal/repo"
)

type Server struct {
	Logger    *zap.Logger
	Orch      *report.Orchestrator
	Tracker   *report.Tracker
	Reports   repo.ReportStore
	ExportDir string
}

func NewServer(l *zap.Logger, orch *report.Orchestrator, tr *report.Tracker, rs repo.ReportStore, exportDir string) *Server {
	return &Server{Logger: l, Orch: orch, Tracker: tr, Reports: rs, ExportDir: exportDir}
}

func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, reqPerMin, burst int) http.Handler {
	r := chi.NewRouter()

	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Authorization", "X-API-Key", "Content-Type"},
		}))
	}
	r.Use(apimw.RateLimit(reqPerMin, burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.With(apimw.RequireAdmin(keys)).Post("/", s.handleTrigger)
		r.With(apimw.RequireAny(keys)).Get("/{reportID}", s.handleFetch)
	})

	return r
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	id := s.Orch.Trigger()
	writeJSON(w, http.StatusOK, map[string]string{
		"report_id": id,
		"status":    "Report generation started",
	})
}

// handleFetch returns Running as JSON, a CSV download once the job is
// Complete, 404 for tokens unknown to both the tracker and the report store,
// and 500 for jobs that ended in Error or exports that cannot be produced.
// Observing a terminal state consumes the token; later fetches of a Complete
// report are answered from the persisted rows.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")

	status, tracked := s.Tracker.Poll(id)
	if !tracked {
		exists, err := s.Reports.ReportExists(r.Context(), id)
		if err != nil {
			s.Logger.Error("report_lookup_error", zap.String("report_id", id), zap.Error(err))
			http.Error(w, "report lookup failed", http.StatusInternalServerError)
			return
		}
		if !exists {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		// rows persisted but no live job: the report finished earlier
		status = report.StatusComplete
	}

	switch status {
	case report.StatusRunning:
		writeJSON(w, http.StatusOK, map[string]string{"status": "Running"})
	case report.StatusError:
		http.Error(w, "report generation failed", http.StatusInternalServerError)
	default:
		s.serveCSV(w, r, id)
	}
}

func (s *Server) serveCSV(w http.ResponseWriter, r *http.Request, id string) {
	path, err := report.WriteCSV(r.Context(), s.Reports, id, s.ExportDir)
	if err != nil {
		s.Logger.Error("export_error", zap.String("report_id", id), zap.Error(err))
		http.Error(w, "report file generation failed", http.StatusInternalServerError)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		s.Logger.Error("export_open_error", zap.String("report_id", id), zap.Error(err))
		http.Error(w, "report file generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=report_`+id+`.csv`)
	if _, err := io.Copy(w, f); err != nil {
		s.Logger.Warn("export_send_error", zap.String("report_id", id), zap.Error(err))
	}
	f.Close()

	// best-effort cleanup after delivery; the export regenerates on demand
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.Logger.Warn("export_cleanup_error", zap.String("path", path), zap.Error(err))
	}

	s.Logger.Info("report_delivered", zap.String("report_id", id))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
