package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quotelens/quotelens/internal/config"
	"github.com/quotelens/quotelens/internal/core/domain"
	"github.com/quotelens/quotelens/internal/core/ports"
	"github.com/quotelens/quotelens/internal/infrastructure/export"
)

// BusinessMetrics receives domain-level counters from the handlers.
// A nil recorder disables recording.
type BusinessMetrics interface {
	RecordUpload(service, kind string)
	RecordValidation(service, confidence string)
	RecordAnalysis(service, recommendation string, lineItems int)
	RecordExport(service, format string)
}

type Router struct {
	cfg       config.Config
	ingest    ports.DocumentIngestor
	docs      ports.DocumentReader
	validator ports.RecordValidator
	analyzer  ports.AnalysisRunner
	analyses  ports.AnalysisReader

	metrics BusinessMetrics
	service string
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	docs ports.DocumentReader,
	validator ports.RecordValidator,
	analyzer ports.AnalysisRunner,
	analyses ports.AnalysisReader,
) *Router {
	return &Router{
		cfg:       cfg,
		ingest:    ingest,
		docs:      docs,
		validator: validator,
		analyzer:  analyzer,
		analyses:  analyses,
	}
}

// WithMetrics attaches a metrics recorder for upload, validation,
// analysis and export events.
func (rt *Router) WithMetrics(service string, m BusinessMetrics) *Router {
	rt.service = service
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	mux.HandleFunc("/v1/analyses", rt.analysesCollection)
	mux.HandleFunc("/v1/analyses/", rt.analysisByID)

	var handler http.Handler = mux
	if rt.cfg.APIMaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, 100*time.Millisecond)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseDocumentKind(raw string) (domain.DocumentKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "po", "purchase_order":
		return domain.KindPurchaseOrder, true
	case "quote":
		return domain.KindQuote, true
	default:
		return "", false
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	kind, ok := parseDocumentKind(r.FormValue("kind"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'kind' must be 'po' or 'quote'"})
		return
	}

	doc, err := rt.ingest.Upload(r.Context(), fileHeader.Filename, kind, r.Header.Get("X-User-Id"), file)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordUpload(rt.service, string(doc.Kind))
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := rt.docs.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodPut:
		var record domain.ExtractedRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		doc, err := rt.validator.SubmitValidated(r.Context(), id, &record)
		if err != nil {
			writeError(w, err)
			return
		}
		if rt.metrics != nil && doc.Record != nil {
			rt.metrics.RecordValidation(rt.service, string(doc.Record.Confidence))
		}
		writeJSON(w, http.StatusOK, doc)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) analysesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			PODocumentID    string `json:"po_document_id"`
			QuoteDocumentID string `json:"quote_document_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if req.PODocumentID == "" || req.QuoteDocumentID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "po_document_id and quote_document_id are required"})
			return
		}

		analysis, err := rt.analyzer.Analyze(r.Context(), req.PODocumentID, req.QuoteDocumentID, r.Header.Get("X-User-Id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if rt.metrics != nil {
			rt.metrics.RecordAnalysis(rt.service, string(analysis.Report.Summary.Recommendation), len(analysis.Report.LineItems))
		}
		writeJSON(w, http.StatusCreated, analysis)
	case http.MethodGet:
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		analyses, err := rt.analyses.List(r.Context(), limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analyses": analyses})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) analysisByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/analyses/")
	id, subresource, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "analysis id is required"})
		return
	}

	switch subresource {
	case "":
		analysis, err := rt.analyses.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	case "export":
		rt.exportAnalysis(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
	}
}

func (rt *Router) exportAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}
	if format != export.FormatJSON && format != export.FormatXLSX {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be 'json' or 'xlsx'"})
		return
	}

	analysis, err := rt.analyses.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var data []byte
	var contentType string
	switch format {
	case export.FormatJSON:
		data, err = export.JSON(analysis)
		contentType = "application/json"
	case export.FormatXLSX:
		data, err = export.XLSX(analysis)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordExport(rt.service, format)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(format, time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
