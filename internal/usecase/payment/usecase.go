// Package payment owns a disbursed loan's schedule after generation:
// settling installments, late detection and the automatic transitions to
// closed and defaulted that follow from schedule state.
package payment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bms-loan-engine/internal/domain/installment"
	"bms-loan-engine/internal/domain/ledger"
	"bms-loan-engine/internal/domain/loan"
	"bms-loan-engine/internal/domain/uow"
	"bms-loan-engine/pkg/clock"
)

type Usecase struct {
	uow    uow.UnitOfWork
	loans  loan.Repository
	insts  installment.Repository
	ledger ledger.AccountLedger
	clk    clock.Clock

	// defaultAfterLate is the delinquency threshold: a disbursed loan
	// with at least this many late installments is marked defaulted
	// during the overdue sweep. Zero disables the automatic transition.
	defaultAfterLate int
}

func NewUsecase(tx uow.UnitOfWork, loans loan.Repository, insts installment.Repository, lg ledger.AccountLedger, clk clock.Clock, defaultAfterLate int) *Usecase {
	return &Usecase{uow: tx, loans: loans, insts: insts, ledger: lg, clk: clk, defaultAfterLate: defaultAfterLate}
}

// Pay settles one installment in full. Any pending or late installment is
// payable by number, not just the earliest due; out-of-order payment is
// the intended policy, enforced order is the caller's business. The debit
// request and the status flip commit or roll back together.
func (u *Usecase) Pay(ctx context.Context, loanID string, number int, paymentDate time.Time) (*InstallmentDTO, error) {
	var dto *InstallmentDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.State != loan.StateDisbursed {
			return loan.ErrLoanNotActive
		}

		inst, err := r.Installments.GetByLoanAndNumber(ctx, l.ID, number)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return installment.ErrNotFound
			}
			return err
		}
		if err := inst.MarkPaid(paymentDate); err != nil {
			return err
		}

		if err := u.ledger.Debit(ctx, ledger.DebitRequest{
			EventID:           uuid.New(),
			LoanID:            l.LoanID,
			AccountID:         l.LinkedAccountID,
			InstallmentNumber: inst.Number,
			Amount:            inst.TotalAmount,
		}); err != nil {
			return err
		}
		if err := r.Installments.Save(ctx, inst); err != nil {
			return err
		}

		// Last unpaid installment settled → the loan closes itself.
		unpaid, err := u.countUnpaid(ctx, r, l.ID)
		if err != nil {
			return err
		}
		if unpaid == 0 {
			if err := l.Close(u.clk.Now()); err != nil {
				return err
			}
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
		}

		d := toDTO(inst)
		dto = &d
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// MarkOverdue flips pending installments with a due date before asOf to
// late. Idempotent: re-running with the same asOf changes nothing. When
// the late count reaches the delinquency threshold the loan is marked
// defaulted in the same transaction.
func (u *Usecase) MarkOverdue(ctx context.Context, loanID string, asOf time.Time) (int, error) {
	marked := 0
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.State != loan.StateDisbursed {
			return nil
		}
		list, err := r.Installments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		late := 0
		for i := range list {
			if list[i].MarkLate(asOf) {
				if err := r.Installments.Save(ctx, &list[i]); err != nil {
					return err
				}
				marked++
			}
			if list[i].Status == installment.StatusLate {
				late++
			}
		}
		if u.defaultAfterLate > 0 && late >= u.defaultAfterLate {
			if err := l.MarkDefaulted(u.clk.Now()); err != nil {
				return err
			}
			return r.Loans.Save(ctx, l)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, loan.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return marked, nil
}

// SweepOverdue runs MarkOverdue across every disbursed loan. Per-loan
// failures are logged and skipped so one bad loan does not stall the
// sweep.
func (u *Usecase) SweepOverdue(ctx context.Context, asOf time.Time) (int, error) {
	list, err := u.loans.ListByState(ctx, loan.StateDisbursed)
	if err != nil {
		return 0, err
	}
	total := 0
	for i := range list {
		n, err := u.MarkOverdue(ctx, list[i].LoanID, asOf)
		if err != nil {
			log.Printf("overdue sweep: loan %s: %v", list[i].LoanID, err)
			continue
		}
		total += n
	}
	return total, nil
}

// Pending returns the loan's payable installments (pending and late),
// ordered by installment number, for the pay-EMI selector.
func (u *Usecase) Pending(ctx context.Context, loanID string) ([]InstallmentDTO, error) {
	list, err := u.schedule(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]InstallmentDTO, 0, len(list))
	for i := range list {
		if list[i].Payable() {
			out = append(out, toDTO(&list[i]))
		}
	}
	return out, nil
}

// Schedule returns the loan's full installment list ordered by number.
func (u *Usecase) Schedule(ctx context.Context, loanID string) ([]InstallmentDTO, error) {
	list, err := u.schedule(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]InstallmentDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i]))
	}
	return out, nil
}

func (u *Usecase) schedule(ctx context.Context, loanID string) ([]installment.Installment, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return u.insts.ListByLoanID(ctx, l.ID)
}

func (u *Usecase) countUnpaid(ctx context.Context, r uow.Repos, loanNumericID uint64) (int64, error) {
	pending, err := r.Installments.CountByLoanAndStatus(ctx, loanNumericID, installment.StatusPending)
	if err != nil {
		return 0, err
	}
	late, err := r.Installments.CountByLoanAndStatus(ctx, loanNumericID, installment.StatusLate)
	if err != nil {
		return 0, err
	}
	return pending + late, nil
}
