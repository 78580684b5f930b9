package http

import (
	"net/http"

	"github.com/staffdesk/timeclock-backend-go/internal/domain/timerecord"
	"github.com/staffdesk/timeclock-backend-go/internal/handler/http/response"
)

type TimeclockHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	MarkAbsent(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type timeclockHandlerImpl struct {
	timeclockService timerecord.TimeclockService
}

func NewTimeclockHandler(timeclockService timerecord.TimeclockService) TimeclockHandler {
	return &timeclockHandlerImpl{
		timeclockService: timeclockService,
	}
}

// Status implements TimeclockHandler.
func (h *timeclockHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeclockService.Status(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn implements TimeclockHandler.
func (h *timeclockHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeclockService.CheckIn(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in successful", result)
}

// CheckOut implements TimeclockHandler.
func (h *timeclockHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeclockService.CheckOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out successful", result)
}

// MarkAbsent implements TimeclockHandler.
func (h *timeclockHandlerImpl) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeclockService.MarkAbsent(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence recorded", result)
}

// History implements TimeclockHandler.
func (h *timeclockHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	filter := timerecord.HistoryFilter{}

	if v := r.URL.Query().Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		filter.EndDate = &v
	}

	result, err := h.timeclockService.History(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
