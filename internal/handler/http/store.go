package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/handler/http/response"
)

// maxCalendarUpload bounds multipart holiday imports.
const maxCalendarUpload = 2 << 20

type StoreHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SetFrozen(w http.ResponseWriter, r *http.Request)
	ReplaceHolidays(w http.ResponseWriter, r *http.Request)
	ImportHolidays(w http.ResponseWriter, r *http.Request)
}

type storeHandlerImpl struct {
	storeService store.StoreService
}

func NewStoreHandler(storeService store.StoreService) StoreHandler {
	return &storeHandlerImpl{
		storeService: storeService,
	}
}

func (h *storeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.storeService.ListStores(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stores)
}

func (h *storeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.storeService.GetStore(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *storeHandlerImpl) SetFrozen(w http.ResponseWriter, r *http.Request) {
	var req store.FreezeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetFrozen decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.StoreID = chi.URLParam(r, "storeID")

	result, err := h.storeService.SetAttendanceFrozen(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Attendance unfrozen"
	if result.AttendanceFrozen {
		message = "Attendance frozen"
	}
	response.SuccessWithMessage(w, message, result)
}

func (h *storeHandlerImpl) ReplaceHolidays(w http.ResponseWriter, r *http.Request) {
	var req store.UpdateHolidaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReplaceHolidays decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.StoreID = chi.URLParam(r, "storeID")

	result, err := h.storeService.ReplaceHolidays(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holidays updated", result)
}

// ImportHolidays accepts either a raw text/calendar body or a multipart form with a "calendar" file.
func (h *storeHandlerImpl) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	body := http.MaxBytesReader(w, r.Body, maxCalendarUpload)

	calendar := body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = body
		if err := r.ParseMultipartForm(maxCalendarUpload); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		file, _, err := r.FormFile("calendar")
		if err != nil {
			if err == http.ErrMissingFile {
				response.BadRequest(w, "Calendar file is required", nil)
				return
			}
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		defer file.Close()
		calendar = file
	}

	result, err := h.storeService.ImportHolidays(r.Context(), storeID, calendar)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holidays imported", result)
}
