package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/report"
	"ledger/internal/services"
	"ledger/internal/view"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type indexPage struct {
	View      view.View
	Today     string
	ExportURL template.URL
}

// exportURL links to the workbook of the same selection.
func exportURL(f view.Filters) template.URL {
	u := "/export.xlsx"
	if q := f.Query().Encode(); q != "" {
		u += "?" + q
	}
	return template.URL(u)
}

func (s *Server) buildView(ctx context.Context, f view.Filters) (view.View, error) {
	txs, err := s.svc.List(ctx)
	if err != nil {
		return view.View{}, err
	}
	return s.builder.Build(txs, f)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	v, err := s.buildView(ctx, view.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to build view", err, applog.ComponentHTTP, applog.OpList)
		InternalServerError("Unable to load the ledger").Write(w)
		return
	}

	data := indexPage{
		View:      v,
		Today:     core.Today(),
		ExportURL: exportURL(v.Selected),
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to render template", err, applog.ComponentTemplate, applog.OpRender)
		InternalServerError("Unable to render the page").Write(w)
		return
	}
	NewResponse().
		Header("Content-Type", "text/html; charset=utf-8").
		Body(buf.Bytes()).
		Write(w)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	tx, err := ParseTransaction(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	id, err := s.svc.Create(ctx, tx)
	if err != nil {
		s.mutationFailed(w, r, applog.OpCreate, "", err)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogTransactionChanged(ctx, applog.OpCreate, id, string(tx.Type), tx.Category, tx.Amount)
	RedirectToView().Write(w)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	tx, err := ParseTransaction(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := s.svc.Edit(ctx, id, tx); err != nil {
		s.mutationFailed(w, r, applog.OpUpdate, id, err)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogTransactionChanged(ctx, applog.OpUpdate, id, string(tx.Type), tx.Category, tx.Amount)
	RedirectToView().Write(w)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := s.svc.Delete(ctx, id); err != nil {
		s.mutationFailed(w, r, applog.OpDelete, id, err)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogTransactionChanged(ctx, applog.OpDelete, id, "", "", "")
	RedirectToView().Write(w)
}

// mutationFailed maps service errors to responses. An unknown id still
// lands back on the view.
func (s *Server) mutationFailed(w http.ResponseWriter, r *http.Request, op, id string, err error) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	switch {
	case services.IsValidation(err):
		logger.WarnContext(ctx, "Rejected transaction",
			applog.FieldOperation, op, applog.FieldID, id, applog.FieldError, err)
		UnprocessableEntityError(err.Error()).Write(w)
	case errors.Is(err, core.ErrNotFound):
		logger.WarnContext(ctx, "Transaction not found",
			applog.FieldOperation, op, applog.FieldID, id)
		RedirectToView().Write(w)
	default:
		applog.NewStructuredLogger(logger).LogError(ctx, "Ledger write failed", err, applog.ComponentLedger, op)
		InternalServerError("Unable to save the ledger").Write(w)
	}
}

// handleExport downloads the filtered view as a workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	v, err := s.buildView(ctx, view.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to build view", err, applog.ComponentHTTP, applog.OpExport)
		InternalServerError("Unable to load the ledger").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, v); err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to write workbook", err, applog.ComponentHTTP, applog.OpExport)
		InternalServerError("Unable to export the ledger").Write(w)
		return
	}

	logger.InfoContext(ctx, "Ledger exported", applog.FieldOperation, applog.OpExport, applog.FieldCount, len(v.Entries))
	NewResponse().
		Header("Content-Type", xlsxContentType).
		Header("Content-Disposition", `attachment; filename="ledger.xlsx"`).
		Body(buf.Bytes()).
		Write(w)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	NewResponse().Header("Content-Type", "text/plain; charset=utf-8").BodyString("ok").Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ready(r.Context()); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
		ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
		return
	}
	NewResponse().Header("Content-Type", "text/plain; charset=utf-8").BodyString("ready").Write(w)
}
