package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	instDomain "bms-loan-engine/internal/domain/installment"
)

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, list []instDomain.Installment) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&list).Error
}

func (r *InstallmentRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]instDomain.Installment, error) {
	var out []instDomain.Installment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("number ASC").
		Find(&out)
	return out, res.Error
}

func (r *InstallmentRepository) GetByLoanAndNumber(ctx context.Context, loanNumericID uint64, number int) (*instDomain.Installment, error) {
	var out instDomain.Installment
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND number = ?", loanNumericID, number).
		First(&out)
	return &out, res.Error
}

func (r *InstallmentRepository) CountByLoanAndStatus(ctx context.Context, loanNumericID uint64, status instDomain.Status) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&instDomain.Installment{}).
		Where("loan_id = ? AND status = ?", loanNumericID, status).
		Count(&n)
	return n, res.Error
}

func (r *InstallmentRepository) SumPaidAmount(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	res := r.db.WithContext(ctx).
		Model(&instDomain.Installment{}).
		Where("status = ?", instDomain.StatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total)
	return total, res.Error
}

func (r *InstallmentRepository) Save(ctx context.Context, i *instDomain.Installment) error {
	return r.db.WithContext(ctx).Save(i).Error
}
