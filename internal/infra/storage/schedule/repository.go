package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/glowup-team/booking-service/internal/domain"
	"github.com/glowup-team/booking-service/pkg/dbmetrics"
	"github.com/glowup-team/booking-service/pkg/psqlbuilder"
)

// pqUniqueViolation код ошибки PostgreSQL для нарушения уникальности
const pqUniqueViolation = "23505"

// Repository репозиторий для работы с расписанием мастеров:
// еженедельные правила (weekly_rules) и исключительные выходные (day_offs)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// --- Weekly rules ---

// CreateRule создает правило еженедельного расписания
func (r *Repository) CreateRule(ctx context.Context, rule *domain.WeeklyRule) (*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("weekly_rules").
		Columns(
			"master_id",
			"weekday",
			"start_minute",
			"end_minute",
			"break_start_minute",
			"break_end_minute",
			"active",
		).
		Values(
			rule.MasterID,
			rule.Weekday,
			rule.StartMinute,
			rule.EndMinute,
			rule.BreakStartMinute,
			rule.BreakEndMinute,
			rule.Active,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// UpdateRule обновляет правило еженедельного расписания
func (r *Repository) UpdateRule(ctx context.Context, rule *domain.WeeklyRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("weekly_rules").
		Set("weekday", rule.Weekday).
		Set("start_minute", rule.StartMinute).
		Set("end_minute", rule.EndMinute).
		Set("break_start_minute", rule.BreakStartMinute).
		Set("break_end_minute", rule.BreakEndMinute).
		Set("active", rule.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rule.ID, "master_id": rule.MasterID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateRule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateRule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateRule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// DeleteRule удаляет правило еженедельного расписания
func (r *Repository) DeleteRule(ctx context.Context, masterID, ruleID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_rules").
		Where(squirrel.Eq{"id": ruleID, "master_id": masterID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteRule - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteRule - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteRule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// GetRuleByID получает правило по ID
func (r *Repository) GetRuleByID(ctx context.Context, id int64) (*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := ruleSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRuleByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRuleByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// GetRulesByMaster получает все правила мастера, упорядоченные по дню недели
func (r *Repository) GetRulesByMaster(ctx context.Context, masterID int64) ([]*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := ruleSelect().
		Where(squirrel.Eq{"master_id": masterID}).
		OrderBy("weekday ASC, start_minute ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByMaster - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByMaster - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// GetActiveRulesForWeekday получает активные правила мастера на день недели.
// Именно этот метод питает Schedule Resolver: правил может быть ноль,
// одно или несколько.
func (r *Repository) GetActiveRulesForWeekday(ctx context.Context, masterID int64, weekday int) ([]*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := ruleSelect().
		Where(squirrel.Eq{"master_id": masterID, "weekday": weekday, "active": true}).
		OrderBy("start_minute ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveRulesForWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveRulesForWeekday - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// --- Day offs ---

// CreateDayOff создает исключительный выходной.
// На одну дату у мастера может быть только один выходной.
func (r *Repository) CreateDayOff(ctx context.Context, dayOff *domain.DayOff) (*domain.DayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("day_offs").
		Columns("master_id", "day_off_date", "reason").
		Values(dayOff.MasterID, dayOff.Date, dayOff.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateDayOff - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&dayOff.ID, &createdAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateDayOff
		}
		return nil, fmt.Errorf("%w: CreateDayOff - execute insert: %v", ErrExecQuery, err)
	}

	dayOff.CreatedAt = createdAt.Time

	return dayOff, nil
}

// DeleteDayOff удаляет выходной мастера
func (r *Repository) DeleteDayOff(ctx context.Context, masterID, dayOffID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("day_offs").
		Where(squirrel.Eq{"id": dayOffID, "master_id": masterID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteDayOff - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteDayOff - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteDayOff - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrDayOffNotFound
	}

	return nil
}

// GetDayOff получает выходной мастера на конкретную дату
func (r *Repository) GetDayOff(ctx context.Context, masterID int64, date time.Time) (*domain.DayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "master_id", "day_off_date", "reason", "created_at").
		From("day_offs").
		Where(squirrel.Eq{"master_id": masterID, "day_off_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOff - build select query: %v", ErrBuildQuery, err)
	}

	var dayOff domain.DayOff
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&dayOff.ID,
		&dayOff.MasterID,
		&dayOff.Date,
		&dayOff.Reason,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDayOffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOff - scan day off: %v", ErrScanRow, err)
	}

	dayOff.CreatedAt = createdAt.Time

	return &dayOff, nil
}

// GetDayOffsByMaster получает выходные мастера в диапазоне дат
func (r *Repository) GetDayOffsByMaster(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.DayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "master_id", "day_off_date", "reason", "created_at").
		From("day_offs").
		Where(squirrel.Eq{"master_id": masterID}).
		Where(squirrel.GtOrEq{"day_off_date": from}).
		Where(squirrel.LtOrEq{"day_off_date": to}).
		OrderBy("day_off_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOffsByMaster - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOffsByMaster - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dayOffs := make([]*domain.DayOff, 0)
	for rows.Next() {
		var dayOff domain.DayOff
		var createdAt sql.NullTime

		if err := rows.Scan(&dayOff.ID, &dayOff.MasterID, &dayOff.Date, &dayOff.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetDayOffsByMaster - scan row: %v", ErrScanRow, err)
		}

		dayOff.CreatedAt = createdAt.Time
		dayOffs = append(dayOffs, &dayOff)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetDayOffsByMaster - rows error: %v", ErrScanRow, err)
	}

	return dayOffs, nil
}

// --- helpers ---

func ruleSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"master_id",
		"weekday",
		"start_minute",
		"end_minute",
		"break_start_minute",
		"break_end_minute",
		"active",
		"created_at",
		"updated_at",
	).From("weekly_rules")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRuleFrom(s rowScanner) (*domain.WeeklyRule, error) {
	var rule domain.WeeklyRule
	var breakStart, breakEnd sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := s.Scan(
		&rule.ID,
		&rule.MasterID,
		&rule.Weekday,
		&rule.StartMinute,
		&rule.EndMinute,
		&breakStart,
		&breakEnd,
		&rule.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if breakStart.Valid {
		v := int(breakStart.Int64)
		rule.BreakStartMinute = &v
	}
	if breakEnd.Valid {
		v := int(breakEnd.Int64)
		rule.BreakEndMinute = &v
	}
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}

func scanRule(row *sql.Row) (*domain.WeeklyRule, error) {
	return scanRuleFrom(row)
}

func scanRules(rows *sql.Rows) ([]*domain.WeeklyRule, error) {
	rules := make([]*domain.WeeklyRule, 0)

	for rows.Next() {
		rule, err := scanRuleFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
