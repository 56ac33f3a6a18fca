package get_master_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/glowup-team/booking-service/internal/api/handlers"
	"github.com/glowup-team/booking-service/internal/domain"
	"github.com/glowup-team/booking-service/internal/service/schedule"
)

const (
	msgInvalidMasterID = "некорректный ID мастера"
	msgInvalidPeriod   = "некорректный период, ожидается YYYY-MM-DD"
)

// Окно выходных по умолчанию, когда границы периода не заданы.
const defaultPeriodDays = 30

// Handler обработчик получения расписания мастера
type Handler struct {
	scheduleService ScheduleService
	logger          Logger
}

// NewHandler создает новый обработчик получения расписания мастера
func NewHandler(scheduleService ScheduleService, logger Logger) *Handler {
	return &Handler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// Handle обрабатывает GET /api/v1/masters/{masterId}/schedule
//
// Query параметры:
//   - from — начало периода выходных (YYYY-MM-DD), по умолчанию сегодня
//   - to   — конец периода выходных (YYYY-MM-DD), по умолчанию from + 30 дней
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	masterID, err := strconv.ParseInt(mux.Vars(r)["masterId"], 10, 64)
	if err != nil || masterID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	from := time.Now().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
	}

	to := from.AddDate(0, 0, defaultPeriodDays)
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
	}

	if to.Before(from) {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	resp, err := h.scheduleService.GetMasterSchedule(r.Context(), masterID, from, to)
	if err != nil {
		h.logger.Error("GetMasterSchedule handler: master=%d: %v", masterID, err)
		if errors.Is(err, schedule.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
