package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Staff
	GetMyCurrentSalary(w http.ResponseWriter, r *http.Request)
	GetMySalaryHistory(w http.ResponseWriter, r *http.Request)

	// Admin
	PreviewSalary(w http.ResponseWriter, r *http.Request)
	LockSalary(w http.ResponseWriter, r *http.Request)
	RecordAdvance(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

func (h *payrollHandlerImpl) GetMyCurrentSalary(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetMyCurrentSalary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetMySalaryHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetMySalaryHistory(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) PreviewSalary(w http.ResponseWriter, r *http.Request) {
	period, ok := parseMonthQuery(w, r)
	if !ok {
		return
	}

	req := payroll.SalaryPeriodRequest{
		StaffID: chi.URLParam(r, "staffID"),
		Year:    period.Year,
		Month:   period.Month,
	}

	result, err := h.payrollService.PreviewSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) LockSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.SalaryPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("LockSalary decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.StaffID = chi.URLParam(r, "staffID")

	result, err := h.payrollService.LockSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary locked successfully", result)
}

func (h *payrollHandlerImpl) RecordAdvance(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RecordAdvance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.StaffID = chi.URLParam(r, "staffID")

	result, err := h.payrollService.RecordAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary advance recorded", result)
}
