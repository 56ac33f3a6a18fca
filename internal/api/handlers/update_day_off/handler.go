package update_day_off

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glowup-team/booking-service/internal/api/handlers"
	"github.com/glowup-team/booking-service/internal/service/schedule"
)

const (
	msgInvalidMasterID = "некорректный ID мастера"
	msgInvalidDayOffID = "некорректный ID выходного"
	msgInvalidBody     = "некорректное тело запроса"
	msgDayOffNotFound  = "выходной не найден"
	msgDuplicateDayOff = "на эту дату уже назначен выходной"
)

// Handler обработчик управления выходными днями мастера
type Handler struct {
	scheduleService ScheduleService
	logger          Logger
}

// NewHandler создает новый обработчик управления выходными днями
func NewHandler(scheduleService ScheduleService, logger Logger) *Handler {
	return &Handler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// HandleCreate обрабатывает POST /api/v1/masters/{masterId}/day-offs
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	masterID, err := strconv.ParseInt(mux.Vars(r)["masterId"], 10, 64)
	if err != nil || masterID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	var req DayOffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.scheduleService.CreateDayOff(r.Context(), req.ToServiceRequest(masterID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrDuplicateDayOff):
			handlers.RespondError(w, http.StatusConflict, msgDuplicateDayOff)
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("CreateDayOff handler: master=%d: %v", masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// HandleDelete обрабатывает DELETE /api/v1/masters/{masterId}/day-offs/{dayOffId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	masterID, err := strconv.ParseInt(mux.Vars(r)["masterId"], 10, 64)
	if err != nil || masterID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	dayOffID, err := strconv.ParseInt(mux.Vars(r)["dayOffId"], 10, 64)
	if err != nil || dayOffID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidDayOffID)
		return
	}

	if err := h.scheduleService.DeleteDayOff(r.Context(), masterID, dayOffID); err != nil {
		if errors.Is(err, schedule.ErrDayOffNotFound) {
			handlers.RespondNotFound(w, msgDayOffNotFound)
			return
		}
		h.logger.Error("DeleteDayOff handler: master=%d: %v", masterID, err)
		handlers.RespondInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
