package salary

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *SalaryRecord) error
	FindByID(ctx context.Context, id string) (*SalaryRecord, error)
	FindActive(ctx context.Context, employeeID string, month time.Time) (*SalaryRecord, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error)

	// ListHistory returns up to limit active records strictly before
	// month, most recent first. This is the snapshot fed to the anomaly
	// detector.
	ListHistory(ctx context.Context, employeeID string, before time.Time, limit int) ([]SalaryRecord, error)

	// MarkSuperseded retires a record in favor of its corrective
	// re-entry. Guarded so a record is only superseded once; returns
	// false when a concurrent correction got there first.
	MarkSuperseded(ctx context.Context, id, successorID string) (bool, error)

	// UpdateAssessment rewrites the advisory anomaly fields only.
	UpdateAssessment(ctx context.Context, id string, flag bool, summary *string) error

	// CountAnomalies counts the employee's active flagged records.
	CountAnomalies(ctx context.Context, employeeID string) (int, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, rec *SalaryRecord) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO salary_records
				(id, employee_id, month, basic_salary, deductions, net_pay,
				 anomaly_flag, anomaly_summary, superseded, entered_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9, NOW(), NOW())
		`, rec.ID, rec.EmployeeID, rec.Month, rec.BasicSalary, rec.Deductions,
			rec.NetPay, rec.AnomalyFlag, rec.AnomalySummary, rec.EnteredBy)
		return err
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindActive(ctx context.Context, employeeID string, month time.Time) (*SalaryRecord, error) {
	if r.tx != nil {
		var rec SalaryRecord
		var summary sql.NullString
		err := r.tx.QueryRowContext(ctx, `
			SELECT id, employee_id, month, basic_salary, deductions, net_pay,
			       anomaly_flag, anomaly_summary, superseded, entered_by
			FROM salary_records
			WHERE employee_id = $1 AND month = $2 AND superseded = false AND deleted_at IS NULL
		`, employeeID, month).Scan(
			&rec.ID, &rec.EmployeeID, &rec.Month, &rec.BasicSalary, &rec.Deductions,
			&rec.NetPay, &rec.AnomalyFlag, &summary, &rec.Superseded, &rec.EnteredBy,
		)
		if err == sql.ErrNoRows {
			return nil, gorm.ErrRecordNotFound
		}
		if err != nil {
			return nil, err
		}
		if summary.Valid {
			rec.AnomalySummary = &summary.String
		}
		return &rec, nil
	}

	var rec SalaryRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		Where("superseded = false").
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error) {
	var records []SalaryRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("month DESC, created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) ListHistory(ctx context.Context, employeeID string, before time.Time, limit int) ([]SalaryRecord, error) {
	var records []SalaryRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("month < ?", before).
		Where("superseded = false").
		Order("month DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *repository) MarkSuperseded(ctx context.Context, id, successorID string) (bool, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
			UPDATE salary_records
			SET superseded = true, superseded_by = $1, updated_at = NOW()
			WHERE id = $2 AND superseded = false AND deleted_at IS NULL
		`, successorID, id)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		return affected == 1, err
	}

	res := r.db.WithContext(ctx).
		Model(&SalaryRecord{}).
		Where("id = ?", id).
		Where("superseded = false").
		Updates(map[string]any{"superseded": true, "superseded_by": successorID})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) CountAnomalies(ctx context.Context, employeeID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SalaryRecord{}).
		Where("employee_id = ?", employeeID).
		Where("superseded = false").
		Where("anomaly_flag = true").
		Count(&count).Error
	return int(count), err
}

func (r *repository) UpdateAssessment(ctx context.Context, id string, flag bool, summary *string) error {
	return r.db.WithContext(ctx).
		Model(&SalaryRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"anomaly_flag": flag, "anomaly_summary": summary}).Error
}
