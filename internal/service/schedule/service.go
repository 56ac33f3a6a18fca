package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowup-team/booking-service/internal/domain"
	scheduleRepo "github.com/glowup-team/booking-service/internal/infra/storage/schedule"
	"github.com/glowup-team/booking-service/internal/service/schedule/models"
	"github.com/glowup-team/booking-service/pkg/timegrid"
)

// Service сервис управления расписаниями мастеров: недельные правила
// работы и выходные дни
type Service struct {
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// GetMasterSchedule получает полное расписание мастера: все недельные
// правила и выходные в заданном периоде
func (s *Service) GetMasterSchedule(ctx context.Context, masterID int64, from, to time.Time) (*models.ScheduleResponse, error) {
	s.logger.Info("GetMasterSchedule: fetching schedule for master=%d", masterID)

	rules, err := s.scheduleRepo.GetRulesByMaster(ctx, masterID)
	if err != nil {
		s.logger.Error("GetMasterSchedule: repository error for master=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: GetMasterSchedule - rules: %v", ErrInternal, err)
	}

	dayOffs, err := s.scheduleRepo.GetDayOffsByMaster(ctx, masterID, from, to)
	if err != nil {
		s.logger.Error("GetMasterSchedule: repository error for master=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: GetMasterSchedule - day offs: %v", ErrInternal, err)
	}

	s.logger.Info("GetMasterSchedule: master=%d has %d rules and %d day offs", masterID, len(rules), len(dayOffs))
	return models.FromDomainSchedule(masterID, rules, dayOffs), nil
}

// CreateRule создает недельное правило расписания.
// Отклоняет правило, пересекающееся с активным правилом мастера на тот же
// день недели: пересечение правил делает расписание неоднозначным.
func (s *Service) CreateRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("CreateRule: creating rule for master=%d, weekday=%d", req.MasterID, req.Weekday)

	rule, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateRule: invalid request for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := rule.Validate(); err != nil {
		s.logger.Warn("CreateRule: validation failed for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkRuleOverlap(ctx, rule); err != nil {
		return nil, err
	}

	created, err := s.scheduleRepo.CreateRule(ctx, rule)
	if err != nil {
		s.logger.Error("CreateRule: repository error for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: CreateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateRule: created rule id=%d for master=%d", created.ID, created.MasterID)
	return models.FromDomainRule(created), nil
}

// UpdateRule обновляет недельное правило расписания
func (s *Service) UpdateRule(ctx context.Context, ruleID int64, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpdateRule: updating rule id=%d for master=%d", ruleID, req.MasterID)

	existing, err := s.scheduleRepo.GetRuleByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			s.logger.Warn("UpdateRule: rule id=%d not found", ruleID)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateRule: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: UpdateRule - repository error: %v", ErrInternal, err)
	}

	rule, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("UpdateRule: invalid request for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rule.ID = existing.ID
	rule.MasterID = existing.MasterID

	if err := rule.Validate(); err != nil {
		s.logger.Warn("UpdateRule: validation failed for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkRuleOverlap(ctx, rule); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.UpdateRule(ctx, rule); err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			return nil, ErrRuleNotFound
		}
		s.logger.Error("UpdateRule: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: UpdateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateRule: updated rule id=%d", ruleID)
	return models.FromDomainRule(rule), nil
}

// DeleteRule удаляет недельное правило расписания
func (s *Service) DeleteRule(ctx context.Context, masterID, ruleID int64) error {
	s.logger.Info("DeleteRule: deleting rule id=%d for master=%d", ruleID, masterID)

	if err := s.scheduleRepo.DeleteRule(ctx, masterID, ruleID); err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			s.logger.Warn("DeleteRule: rule id=%d not found", ruleID)
			return ErrRuleNotFound
		}
		s.logger.Error("DeleteRule: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: DeleteRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteRule: deleted rule id=%d", ruleID)
	return nil
}

// CreateDayOff создает выходной день мастера
// На одну дату допускается только один выходной
func (s *Service) CreateDayOff(ctx context.Context, req *models.CreateDayOffRequest) (*models.DayOffResponse, error) {
	s.logger.Info("CreateDayOff: creating day off for master=%d, date=%s", req.MasterID, req.Date)

	dayOff, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateDayOff: invalid request for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.scheduleRepo.CreateDayOff(ctx, dayOff)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDuplicateDayOff) {
			s.logger.Warn("CreateDayOff: duplicate day off for master=%d on %s", req.MasterID, req.Date)
			return nil, ErrDuplicateDayOff
		}
		s.logger.Error("CreateDayOff: repository error for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: CreateDayOff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateDayOff: created day off id=%d for master=%d", created.ID, created.MasterID)
	return models.FromDomainDayOff(created), nil
}

// DeleteDayOff удаляет выходной день мастера
func (s *Service) DeleteDayOff(ctx context.Context, masterID, dayOffID int64) error {
	s.logger.Info("DeleteDayOff: deleting day off id=%d for master=%d", dayOffID, masterID)

	if err := s.scheduleRepo.DeleteDayOff(ctx, masterID, dayOffID); err != nil {
		if errors.Is(err, scheduleRepo.ErrDayOffNotFound) {
			s.logger.Warn("DeleteDayOff: day off id=%d not found", dayOffID)
			return ErrDayOffNotFound
		}
		s.logger.Error("DeleteDayOff: repository error for day off id=%d: %v", dayOffID, err)
		return fmt.Errorf("%w: DeleteDayOff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteDayOff: deleted day off id=%d", dayOffID)
	return nil
}

// checkRuleOverlap проверяет, что рабочий интервал правила не пересекается
// с другими активными правилами мастера на тот же день недели
func (s *Service) checkRuleOverlap(ctx context.Context, rule *domain.WeeklyRule) error {
	existing, err := s.scheduleRepo.GetRulesByMaster(ctx, rule.MasterID)
	if err != nil {
		s.logger.Error("checkRuleOverlap: repository error for master=%d: %v", rule.MasterID, err)
		return fmt.Errorf("%w: checkRuleOverlap - repository error: %v", ErrInternal, err)
	}

	for _, other := range existing {
		if other.ID == rule.ID || other.Weekday != rule.Weekday || !other.Active {
			continue
		}
		if timegrid.Overlaps(rule.WorkingInterval(), other.WorkingInterval()) {
			s.logger.Warn("checkRuleOverlap: rule for master=%d overlaps rule id=%d", rule.MasterID, other.ID)
			return ErrRuleOverlap
		}
	}

	return nil
}
