package http

import (
	"errors"
	"net/http"
	"strings"

	"spendchart/internal/core"
	"spendchart/internal/log"
)

// handleChartData returns category totals and the daily trend in the shape
// the chart layer binds to.
func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := s.svc.ChartData(ctx)
	if err != nil {
		s.logFailure(r, "Failed to compute chart data", err, log.OpRead)
		InternalServerError("Failed to load expenses").Write(w)
		return
	}
	NewJSONResponse().Body(toChartPayload(data)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Unparseable request body",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldOperation, log.OpParse)
		BadRequestError("Invalid request body").Write(w)
		return
	}
	in := p.ExpenseInput()

	exp, err := s.svc.Create(r.Context(), in.Description, in.Amount, in.Date, in.Category)
	if err != nil {
		s.logFailure(r, "Failed to save expense", err, log.OpCreate)
		InternalServerError("Failed to save expense").Write(w)
		return
	}
	s.appMetrics.expensesCreated.Add(1)

	NewJSONResponse().Body(resultBody{Success: true, Expense: exp}).Write(w)
}

// handleDeleteExpense removes by chronological index, read from the body
// (form or JSON) or the query string.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Unparseable request body",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldOperation, log.OpParse)
		BadRequestError("Invalid request body").Write(w)
		return
	}
	index, err := p.Index()
	if err != nil {
		log.FromContext(r.Context()).InfoContext(r.Context(), "Rejected delete",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeValidation,
			log.FieldOperation, log.OpDelete)
		BadRequestError("Invalid index").Write(w)
		return
	}

	if _, err := s.svc.Delete(r.Context(), index); err != nil {
		s.writeDeleteError(w, r, err)
		return
	}
	s.appMetrics.expensesDeleted.Add(1)
	SuccessResponse().Write(w)
}

func (s *Server) handleDeleteExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if _, err := s.svc.DeleteByID(r.Context(), id); err != nil {
		s.writeDeleteError(w, r, err)
		return
	}
	s.appMetrics.expensesDeleted.Add(1)
	SuccessResponse().Write(w)
}

func (s *Server) writeDeleteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidIndex):
		log.FromContext(r.Context()).InfoContext(r.Context(), "Rejected delete",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeValidation)
		BadRequestError("Invalid index").Write(w)
	case errors.Is(err, core.ErrExpenseNotFound):
		log.FromContext(r.Context()).InfoContext(r.Context(), "Rejected delete",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeNotFound)
		NotFoundError("Expense not found").Write(w)
	default:
		s.logFailure(r, "Failed to delete expense", err, log.OpDelete)
		InternalServerError("Failed to delete expense").Write(w)
	}
}

func (s *Server) handleRecentExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.RecentExpenses(r.Context(), ParseLimit(r.URL.Query()))
	if err != nil {
		s.logFailure(r, "Failed to list recent expenses", err, log.OpRead)
		InternalServerError("Failed to load expenses").Write(w)
		return
	}
	NewJSONResponse().Body(toRecentPayload(items, s.svc.Categories())).Write(w)
}

// handleSummary returns the headline total, daily average and category
// count.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		s.logFailure(r, "Failed to compute summary", err, log.OpRead)
		InternalServerError("Failed to load expenses").Write(w)
		return
	}
	NewJSONResponse().Body(toSummaryPayload(sum)).Write(w)
}

// handleProcess keeps the single legacy endpoint working by dispatching on
// the method.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleChartData(w, r)
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	case http.MethodDelete:
		s.handleDeleteExpense(w, r)
	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

func (s *Server) logFailure(r *http.Request, msg string, err error, op string) {
	ctx := r.Context()
	sl := log.NewStructuredLogger(log.FromContext(ctx))
	sl.LogError(ctx, msg, err, log.ComponentExpense, op,
		log.NewFields().WithErrorType(log.ErrorTypeDatabase))
}
