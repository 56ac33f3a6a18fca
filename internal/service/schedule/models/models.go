package models

import (
	"errors"
	"time"

	"github.com/glowup-team/booking-service/internal/domain"
	"github.com/glowup-team/booking-service/pkg/timegrid"
)

var (
	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("invalid time format, expected HH:MM")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrInvalidBreak возвращается, когда указана только одна граница перерыва
	ErrInvalidBreak = errors.New("break requires both start and end times")
)

// Request модели

// UpsertRuleRequest запрос на создание или обновление правила расписания.
// Времена в формате "HH:MM", перерыв опционален (обе границы вместе)
type UpsertRuleRequest struct {
	MasterID       int64   `json:"masterId"`
	Weekday        int     `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	BreakStartTime *string `json:"breakStartTime,omitempty"`
	BreakEndTime   *string `json:"breakEndTime,omitempty"`
	Active         bool    `json:"active"`
}

// ToDomain конвертирует запрос в domain модель с разбором времени
func (r *UpsertRuleRequest) ToDomain() (*domain.WeeklyRule, error) {
	start, err := timegrid.ParseClock(r.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	end, err := timegrid.ParseClock(r.EndTime)
	if err != nil {
		return nil, ErrInvalidTime
	}

	rule := &domain.WeeklyRule{
		MasterID:    r.MasterID,
		Weekday:     r.Weekday,
		StartMinute: start,
		EndMinute:   end,
		Active:      r.Active,
	}

	if (r.BreakStartTime == nil) != (r.BreakEndTime == nil) {
		return nil, ErrInvalidBreak
	}
	if r.BreakStartTime != nil {
		breakStart, err := timegrid.ParseClock(*r.BreakStartTime)
		if err != nil {
			return nil, ErrInvalidTime
		}
		breakEnd, err := timegrid.ParseClock(*r.BreakEndTime)
		if err != nil {
			return nil, ErrInvalidTime
		}
		rule.BreakStartMinute = &breakStart
		rule.BreakEndMinute = &breakEnd
	}

	return rule, nil
}

// CreateDayOffRequest запрос на создание выходного дня
type CreateDayOffRequest struct {
	MasterID int64  `json:"masterId"`
	Date     string `json:"date"` // "2026-03-08"
	Reason   string `json:"reason,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateDayOffRequest) ToDomain() (*domain.DayOff, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	return &domain.DayOff{
		MasterID: r.MasterID,
		Date:     date,
		Reason:   r.Reason,
	}, nil
}

// Response модели

// RuleResponse ответ с данными правила расписания
type RuleResponse struct {
	ID             int64   `json:"id"`
	MasterID       int64   `json:"masterId"`
	Weekday        int     `json:"weekday"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	BreakStartTime *string `json:"breakStartTime,omitempty"`
	BreakEndTime   *string `json:"breakEndTime,omitempty"`
	Active         bool    `json:"active"`
}

// DayOffResponse ответ с данными выходного дня
type DayOffResponse struct {
	ID       int64  `json:"id"`
	MasterID int64  `json:"masterId"`
	Date     string `json:"date"`
	Reason   string `json:"reason,omitempty"`
}

// ScheduleResponse полное расписание мастера: недельные правила и выходные
type ScheduleResponse struct {
	MasterID int64            `json:"masterId"`
	Rules    []RuleResponse   `json:"rules"`
	DayOffs  []DayOffResponse `json:"dayOffs"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(rule *domain.WeeklyRule) *RuleResponse {
	if rule == nil {
		return nil
	}

	resp := &RuleResponse{
		ID:        rule.ID,
		MasterID:  rule.MasterID,
		Weekday:   rule.Weekday,
		StartTime: timegrid.FormatClock(rule.StartMinute),
		EndTime:   timegrid.FormatClock(rule.EndMinute),
		Active:    rule.Active,
	}

	if rule.BreakStartMinute != nil && rule.BreakEndMinute != nil {
		breakStart := timegrid.FormatClock(*rule.BreakStartMinute)
		breakEnd := timegrid.FormatClock(*rule.BreakEndMinute)
		resp.BreakStartTime = &breakStart
		resp.BreakEndTime = &breakEnd
	}

	return resp
}

// FromDomainDayOff конвертирует domain модель в DTO
func FromDomainDayOff(dayOff *domain.DayOff) *DayOffResponse {
	if dayOff == nil {
		return nil
	}

	return &DayOffResponse{
		ID:       dayOff.ID,
		MasterID: dayOff.MasterID,
		Date:     dayOff.Date.Format(domain.DateFormat),
		Reason:   dayOff.Reason,
	}
}

// FromDomainSchedule собирает полное расписание мастера
func FromDomainSchedule(masterID int64, rules []*domain.WeeklyRule, dayOffs []*domain.DayOff) *ScheduleResponse {
	resp := &ScheduleResponse{
		MasterID: masterID,
		Rules:    make([]RuleResponse, 0, len(rules)),
		DayOffs:  make([]DayOffResponse, 0, len(dayOffs)),
	}

	for _, rule := range rules {
		if ruleResp := FromDomainRule(rule); ruleResp != nil {
			resp.Rules = append(resp.Rules, *ruleResp)
		}
	}
	for _, dayOff := range dayOffs {
		if dayOffResp := FromDomainDayOff(dayOff); dayOffResp != nil {
			resp.DayOffs = append(resp.DayOffs, *dayOffResp)
		}
	}

	return resp
}
