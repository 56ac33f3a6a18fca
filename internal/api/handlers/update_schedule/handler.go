package update_schedule

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
	msgInvalidRuleID   = "некорректный ID правила"
	msgInvalidBody     = "некорректное тело запроса"
	msgRuleNotFound    = "правило расписания не найдено"
	msgRuleOverlap     = "правило пересекается с существующим правилом на этот день недели"
)

// Handler обработчик управления недельными правилами расписания
type Handler struct {
	scheduleService ScheduleService
	logger          Logger
}

// NewHandler создает новый обработчик управления правилами расписания
func NewHandler(scheduleService ScheduleService, logger Logger) *Handler {
	return &Handler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// HandleCreate обрабатывает POST /api/v1/masters/{masterId}/schedule/rules
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	masterID, ok := h.masterID(w, r)
	if !ok {
		return
	}

	var req RuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.scheduleService.CreateRule(r.Context(), req.ToServiceRequest(masterID))
	if err != nil {
		h.respondError(w, masterID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// HandleUpdate обрабатывает PUT /api/v1/masters/{masterId}/schedule/rules/{ruleId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	masterID, ok := h.masterID(w, r)
	if !ok {
		return
	}

	ruleID, err := strconv.ParseInt(mux.Vars(r)["ruleId"], 10, 64)
	if err != nil || ruleID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	var req RuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.scheduleService.UpdateRule(r.Context(), ruleID, req.ToServiceRequest(masterID))
	if err != nil {
		h.respondError(w, masterID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleDelete обрабатывает DELETE /api/v1/masters/{masterId}/schedule/rules/{ruleId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	masterID, ok := h.masterID(w, r)
	if !ok {
		return
	}

	ruleID, err := strconv.ParseInt(mux.Vars(r)["ruleId"], 10, 64)
	if err != nil || ruleID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	if err := h.scheduleService.DeleteRule(r.Context(), masterID, ruleID); err != nil {
		h.respondError(w, masterID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) masterID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	masterID, err := strconv.ParseInt(mux.Vars(r)["masterId"], 10, 64)
	if err != nil || masterID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return 0, false
	}
	return masterID, true
}

func (h *Handler) respondError(w http.ResponseWriter, masterID int64, err error) {
	switch {
	case errors.Is(err, schedule.ErrRuleNotFound):
		handlers.RespondNotFound(w, msgRuleNotFound)
	case errors.Is(err, schedule.ErrRuleOverlap):
		handlers.RespondError(w, http.StatusConflict, msgRuleOverlap)
	case errors.Is(err, schedule.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())
	default:
		h.logger.Error("schedule rules handler: master=%d: %v", masterID, err)
		handlers.RespondInternalError(w)
	}
}
