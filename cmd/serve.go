package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/finsight-cli/internal/model"
	"github.com/sells-group/finsight-cli/internal/pipeline"
	"github.com/sells-group/finsight-cli/internal/risk"
	"github.com/sells-group/finsight-cli/internal/store"
	"github.com/sells-group/finsight-cli/internal/trend"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		classifier, err := risk.NewClassifier(cfg.Risk)
		if err != nil {
			return err
		}

		r := newRouter(env, classifier)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the full API router. Split out of the command so
// handler tests can serve it directly.
func newRouter(env *pipelineEnv, classifier *risk.Classifier) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", handleAnalyze(env))
		r.Get("/", handleListDocuments(env.Store))
		r.Get("/{id}", handleGetDocument(env.Store))
		r.Delete("/{id}", handleDeleteDocument(env.Store))
		r.Post("/{id}/reprocess", handleReprocess(env))
	})

	r.Get("/companies/{companyID}/trend", handleTrend(env.Store))
	r.Get("/companies/{companyID}/risk", handleCompanyRisk(env.Store, classifier))

	return r
}

type analyzeRequest struct {
	Text      string `json:"text"`
	PDFPath   string `json:"pdfPath"`
	FileName  string `json:"fileName"`
	CompanyID string `json:"companyId"`
	Period    string `json:"period"`
	NoAI      bool   `json:"noAi"`
}

func handleAnalyze(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Text == "" && req.PDFPath == "" {
			writeError(w, http.StatusBadRequest, "text or pdfPath is required")
			return
		}

		var previous *model.PeriodRecord
		if req.CompanyID != "" && req.Period != "" {
			records, err := env.Store.PeriodRecords(r.Context(), req.CompanyID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			previous = previousRecord(records, req.Period)
		}

		res, err := env.Runner.Run(r.Context(), pipeline.Request{
			Text:      req.Text,
			PDFPath:   req.PDFPath,
			FileName:  req.FileName,
			CompanyID: req.CompanyID,
			Period:    req.Period,
			Previous:  previous,
			NoAI:      req.NoAI,
		})
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := env.Store.UpsertDocument(r.Context(), &res.Document); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, res.Document)
	}
}

func handleListDocuments(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		docs, err := st.ListDocuments(r.Context(), store.DocumentFilter{
			CompanyID: q.Get("company"),
			Period:    q.Get("period"),
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if docs == nil {
			docs = []model.Document{}
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

func handleGetDocument(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := st.GetDocument(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleDeleteDocument(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleReprocess(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := env.Store.GetDocument(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		var previous *model.PeriodRecord
		if doc.CompanyID != "" && doc.Period != "" {
			records, err := env.Store.PeriodRecords(r.Context(), doc.CompanyID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			previous = previousRecord(records, doc.Period)
		}

		res, err := env.Runner.Reprocess(r.Context(), doc, previous, false)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := env.Store.UpsertDocument(r.Context(), &res.Document); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, res.Document)
	}
}

func handleTrend(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := st.PeriodRecords(r.Context(), chi.URLParam(r, "companyID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		result, err := trend.Compute(records)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleCompanyRisk(st store.Store, classifier *risk.Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := chi.URLParam(r, "companyID")
		docs, err := st.ListDocuments(r.Context(), store.DocumentFilter{
			CompanyID: companyID,
			Limit:     1,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(docs) == 0 {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no documents for company %s", companyID))
			return
		}

		// ListDocuments sorts newest period first, so docs[0] is the
		// company's latest statement.
		doc := docs[0]
		if doc.Metrics == nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("document %s has no computed metrics", doc.ID))
			return
		}

		profile := classifier.Classify(*doc.Metrics)
		writeJSON(w, http.StatusOK, struct {
			DocumentID string            `json:"documentId"`
			CompanyID  string            `json:"companyId"`
			Period     string            `json:"period"`
			Risk       model.RiskProfile `json:"risk"`
			Reasons    []string          `json:"reasons"`
		}{
			DocumentID: doc.ID,
			CompanyID:  companyID,
			Period:     doc.Period,
			Risk:       profile,
			Reasons:    classifier.Explain(*doc.Metrics, profile),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
