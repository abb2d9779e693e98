package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/aretw0/excelauto"
	"github.com/aretw0/excelauto/internal/logging"
	"github.com/aretw0/excelauto/pkg/address"
	"github.com/aretw0/excelauto/pkg/apply"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/instruction"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// Server holds the HTTP handlers.
type Server struct {
	svc     *excelauto.Service
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h (usually promhttp) at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc *excelauto.Service, opts ...Option) (http.Handler, error) {
	s := &Server{svc: svc, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	router, err := loadRouter(context.Background())
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(Spec())
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validateRequests(router))

		r.Get("/health", s.Health)
		r.Get("/address", s.EncodeAddress)
		r.Get("/address/{ref}", s.DecodeAddress)
		r.Post("/instructions/parse", s.ParseInstructions)

		r.Route("/sessions/{session}", func(r chi.Router) {
			r.Post("/open", s.OpenWorkbook)
			r.Post("/create", s.CreateWorkbook)
			r.Get("/sheets/{sheet}/range", s.GetRange)
			r.Put("/sheets/{sheet}/range", s.SetRange)
			r.Post("/sheets/{sheet}/cells", s.SetCells)
		})
	})
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves handler on port until ctx is canceled.
func ListenAndServe(ctx context.Context, port int, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

type errorBody struct {
	Error string `json:"error"`
}

type healthBody struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type addressBody struct {
	Ref    string `json:"ref"`
	Row    uint32 `json:"row"`
	Column uint32 `json:"column"`
}

type filePathBody struct {
	FilePath string `json:"file_path"`
}

type openBody struct {
	FilePath string   `json:"file_path"`
	Sheets   []string `json:"sheets"`
}

type instructionsBody struct {
	Instructions []string `json:"instructions"`
}

type setRangeBody struct {
	FirstRow    int64   `json:"first_row"`
	FirstColumn int64   `json:"first_column"`
	Values      [][]any `json:"values"`
}

type parsedEdit struct {
	Index       int              `json:"index"`
	Instruction string           `json:"instruction"`
	Cell        string           `json:"cell"`
	Canonical   string           `json:"canonical"`
	Edit        instruction.Edit `json:"edit"`
}

type parseBody struct {
	Edits   []parsedEdit `json:"edits"`
	Skipped []apply.Skip `json:"skipped"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Version: excelauto.Version})
}

func (s *Server) EncodeAddress(w http.ResponseWriter, r *http.Request) {
	var row, col int64
	if err := runtime.BindQueryParameter("form", true, true, "row", r.URL.Query(), &row); err != nil {
		s.badRequest(w, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "column", r.URL.Query(), &col); err != nil {
		s.badRequest(w, err)
		return
	}
	ur, uc, err := coords(row, col)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	ref, err := address.Encode(ur, uc)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addressBody{Ref: ref, Row: ur, Column: uc})
}

func (s *Server) DecodeAddress(w http.ResponseWriter, r *http.Request) {
	var ref string
	if err := bindPath(r, "ref", &ref); err != nil {
		s.badRequest(w, err)
		return
	}
	a, err := address.Decode(ref)
	if err != nil {
		s.badRequest(w, fmt.Errorf("%q: %w", ref, err))
		return
	}
	writeJSON(w, http.StatusOK, addressBody{Ref: a.String(), Row: a.Row, Column: a.Col})
}

// ParseInstructions is a dry run: nothing is written.
func (s *Server) ParseInstructions(w http.ResponseWriter, r *http.Request) {
	var body instructionsBody
	if !s.decodeBody(w, r, &body) {
		return
	}

	batch := instruction.ParseAll(body.Instructions)
	out := parseBody{Edits: []parsedEdit{}, Skipped: []apply.Skip{}}
	for _, e := range batch.Edits {
		out.Edits = append(out.Edits, parsedEdit{
			Index:       e.Index,
			Instruction: e.Instruction,
			Cell:        e.Edit.Ref(),
			Canonical:   instruction.Format(e.Edit),
			Edit:        e.Edit,
		})
	}
	for _, e := range batch.Skipped {
		out.Skipped = append(out.Skipped, apply.Skip{Index: e.Index, Instruction: e.Instruction, Reason: apply.Reason(e.Err)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) OpenWorkbook(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var body filePathBody
	if !s.decodeBody(w, r, &body) {
		return
	}

	var sheets []string
	err := s.svc.Track(r.Context(), "http_open_workbook", session, func(ctx context.Context) error {
		var err error
		sheets, err = s.svc.OpenWorkbook(ctx, session, body.FilePath)
		return err
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, openBody{FilePath: body.FilePath, Sheets: sheets})
}

func (s *Server) CreateWorkbook(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var body filePathBody
	if !s.decodeBody(w, r, &body) {
		return
	}

	err := s.svc.Track(r.Context(), "http_create_workbook", session, func(ctx context.Context) error {
		return s.svc.CreateWorkbook(ctx, session, body.FilePath)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) GetRange(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var sheet string
	if err := bindPath(r, "sheet", &sheet); err != nil {
		s.badRequest(w, err)
		return
	}

	var firstRow, firstCol, lastRow, lastCol int64
	var withCoord *bool
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int64
	}{
		{"first_row", &firstRow},
		{"first_column", &firstCol},
		{"last_row", &lastRow},
		{"last_column", &lastCol},
	} {
		if err := runtime.BindQueryParameter("form", true, true, p.name, q, p.dst); err != nil {
			s.badRequest(w, err)
			return
		}
	}
	if err := runtime.BindQueryParameter("form", true, false, "cell_with_coord", q, &withCoord); err != nil {
		s.badRequest(w, err)
		return
	}

	query := excelauto.RangeQuery{Sheet: sheet, WithCoord: withCoord != nil && *withCoord}
	var err error
	if query.FirstRow, query.FirstCol, err = coords(firstRow, firstCol); err != nil {
		s.badRequest(w, err)
		return
	}
	if query.LastRow, query.LastCol, err = coords(lastRow, lastCol); err != nil {
		s.badRequest(w, err)
		return
	}

	var res excelauto.RangeResult
	err = s.svc.Track(r.Context(), "http_get_range", session, func(ctx context.Context) error {
		var err error
		res, err = s.svc.GetRange(ctx, session, query)
		return err
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) SetRange(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var sheet string
	if err := bindPath(r, "sheet", &sheet); err != nil {
		s.badRequest(w, err)
		return
	}
	var body setRangeBody
	if !s.decodeBody(w, r, &body) {
		return
	}
	row, col, err := coords(body.FirstRow, body.FirstColumn)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	err = s.svc.Track(r.Context(), "http_set_range", session, func(ctx context.Context) error {
		return s.svc.SetRange(ctx, session, sheet, row, col, body.Values)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) SetCells(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var sheet string
	if err := bindPath(r, "sheet", &sheet); err != nil {
		s.badRequest(w, err)
		return
	}
	var body instructionsBody
	if !s.decodeBody(w, r, &body) {
		return
	}

	var rep apply.Report
	err := s.svc.Track(r.Context(), "http_set_cells", session, func(ctx context.Context) error {
		var err error
		rep, err = s.svc.SetCells(ctx, session, sheet, body.Instructions)
		return err
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	if rep.Skipped == nil {
		rep.Skipped = []apply.Skip{}
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	var session string
	if err := bindPath(r, "session", &session); err != nil {
		s.badRequest(w, err)
		return "", false
	}
	return session, true
}

func bindPath(r *http.Request, name string, dst *string) error {
	return runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
}

// decodeBody decodes JSON numbers as json.Number so integers survive intact.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		s.badRequest(w, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func coords(row, col int64) (uint32, uint32, error) {
	if row < 1 || row > math.MaxUint32 || col < 1 || col > math.MaxUint32 {
		return 0, 0, fmt.Errorf("%w: (%d,%d)", domain.ErrInvalidRange, row, col)
	}
	return uint32(row), uint32(col), nil
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Warn("bad request", "err", err)
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

// fail maps service errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNoWorkbook):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrSheetNotFound), errors.Is(err, fs.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrBatchTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrUnsupportedValue), errors.Is(err, address.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
