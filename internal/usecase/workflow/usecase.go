package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bms-loan-engine/internal/domain/ledger"
	"bms-loan-engine/internal/domain/loan"
	"bms-loan-engine/internal/domain/uow"
	"bms-loan-engine/pkg/clock"
)

// Usecase drives the approval/disbursement state machine. Every mutation
// runs under the loan row lock so concurrent admin actions on the same
// loan serialize.
type Usecase struct {
	uow    uow.UnitOfWork
	ledger ledger.AccountLedger
	clk    clock.Clock
}

func NewUsecase(tx uow.UnitOfWork, lg ledger.AccountLedger, clk clock.Clock) *Usecase {
	return &Usecase{uow: tx, ledger: lg, clk: clk}
}

// Approve moves a pending application to approved.
func (u *Usecase) Approve(ctx context.Context, loanID string) error {
	return u.withLoan(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.Approve(u.clk.Now()); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
}

// Reject moves a pending application to rejected, storing the mandatory
// reason.
func (u *Usecase) Reject(ctx context.Context, loanID, reason string) error {
	return u.withLoan(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.Reject(reason, u.clk.Now()); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
}

// Disburse releases an approved loan: it generates the installment
// schedule exactly once, requests the principal credit from the account
// ledger and moves the loan to disbursed. A ledger refusal aborts the
// whole transaction, so a failed disbursement leaves no schedule behind.
func (u *Usecase) Disburse(ctx context.Context, loanID string, disbursementDate time.Time) error {
	return u.withLoan(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		existing, err := r.Installments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return loan.ErrAlreadyDisbursed
		}
		if err := l.Disburse(disbursementDate, u.clk.Now()); err != nil {
			return err
		}

		rows, err := buildSchedule(l, disbursementDate)
		if err != nil {
			return err
		}
		if err := r.Installments.CreateBatch(ctx, rows); err != nil {
			return err
		}

		if err := u.ledger.Credit(ctx, ledger.CreditRequest{
			EventID:   uuid.New(),
			LoanID:    l.LoanID,
			AccountID: l.LinkedAccountID,
			Amount:    l.Principal,
		}); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
}

// Close settles a disbursed loan manually (early settlement). The
// automatic transition on final payment lives in the payment usecase.
func (u *Usecase) Close(ctx context.Context, loanID string) error {
	return u.withLoan(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.Close(u.clk.Now()); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
}

// MarkDefaulted moves a disbursed loan to defaulted at an administrator's
// direct request. The automatic delinquency-driven transition lives in
// the payment usecase's overdue sweep.
func (u *Usecase) MarkDefaulted(ctx context.Context, loanID string) error {
	return u.withLoan(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.MarkDefaulted(u.clk.Now()); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
}

func (u *Usecase) withLoan(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	err := u.uow.WithinLoanTx(ctx, loanID, fn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loan.ErrNotFound
	}
	return err
}
