package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bms-loan-engine/internal/domain/installment"
	ledgerdomain "bms-loan-engine/internal/domain/ledger"
	"bms-loan-engine/internal/domain/loan"
	"bms-loan-engine/internal/domain/uow"
	"bms-loan-engine/internal/testutil/installmentmock"
	"bms-loan-engine/internal/testutil/ledgermock"
	"bms-loan-engine/internal/testutil/loanmock"
	"bms-loan-engine/internal/testutil/uowmock"
	"bms-loan-engine/pkg/clock"
)

const testLoanID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

var (
	testNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	payDate = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
)

func disbursedLoan() *loan.Loan {
	return &loan.Loan{
		ID:              7,
		LoanID:          testLoanID,
		BorrowerID:      "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		LinkedAccountID: "cccccccccccccccccccccccccccccccc",
		State:           loan.StateDisbursed,
	}
}

func inst(number int, status installment.Status, due time.Time) *installment.Installment {
	return &installment.Installment{
		LoanID:      7,
		Number:      number,
		DueDate:     due,
		TotalAmount: decimal.NewFromFloat(1000.00),
		Status:      status,
	}
}

// tracker builds a payment usecase over a fixed loan and schedule held in
// memory, backed by the function mocks.
func tracker(t *testing.T, l *loan.Loan, schedule []*installment.Installment, lg *ledgermock.Ledger, threshold int) (*Usecase, *loanmock.Repo) {
	t.Helper()
	insts := &installmentmock.Repo{
		GetByLoanAndNumberFn: func(ctx context.Context, id uint64, number int) (*installment.Installment, error) {
			for _, s := range schedule {
				if s.Number == number {
					return s, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
		ListByLoanIDFn: func(ctx context.Context, id uint64) ([]installment.Installment, error) {
			out := make([]installment.Installment, 0, len(schedule))
			for _, s := range schedule {
				out = append(out, *s)
			}
			return out, nil
		},
		CountByLoanAndStatusFn: func(ctx context.Context, id uint64, status installment.Status) (int64, error) {
			var n int64
			for _, s := range schedule {
				if s.Status == status {
					n++
				}
			}
			return n, nil
		},
		SaveFn: func(ctx context.Context, i *installment.Installment) error {
			for _, s := range schedule {
				if s.Number == i.Number {
					*s = *i
					return nil
				}
			}
			return gorm.ErrRecordNotFound
		},
	}
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, id string) (*loan.Loan, error) {
			if id == l.LoanID {
				return l, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		ListByStateFn: func(ctx context.Context, state loan.State) ([]loan.Loan, error) {
			if l.State == state {
				return []loan.Loan{*l}, nil
			}
			return nil, nil
		},
	}
	tx := &uowmock.UoW{
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(r uow.Repos, got *loan.Loan) error) error {
			if loanID != l.LoanID {
				return gorm.ErrRecordNotFound
			}
			return fn(uow.Repos{Loans: loans, Installments: insts}, l)
		},
	}
	return NewUsecase(tx, loans, insts, lg, clock.Fixed{T: testNow}, threshold), loans
}

func TestPay_Success(t *testing.T) {
	l := disbursedLoan()
	schedule := []*installment.Installment{
		inst(1, installment.StatusPaid, payDate.AddDate(0, -1, 0)),
		inst(2, installment.StatusLate, payDate.AddDate(0, 0, -10)),
		inst(3, installment.StatusPending, payDate.AddDate(0, 1, 0)),
	}
	lg := &ledgermock.Ledger{}
	uc, _ := tracker(t, l, schedule, lg, 0)

	dto, err := uc.Pay(context.Background(), testLoanID, 2, payDate)
	if err != nil {
		t.Fatalf("Pay err: %v", err)
	}
	if dto.Status != string(installment.StatusPaid) {
		t.Fatalf("dto status = %s", dto.Status)
	}
	if schedule[1].Status != installment.StatusPaid || schedule[1].PaidOnDate == nil {
		t.Fatalf("installment not settled: %+v", schedule[1])
	}
	if len(lg.Debits) != 1 {
		t.Fatalf("debits = %d, want 1", len(lg.Debits))
	}
	d := lg.Debits[0]
	if d.LoanID != testLoanID || d.InstallmentNumber != 2 || !d.Amount.Equal(decimal.NewFromFloat(1000.00)) {
		t.Fatalf("debit request = %+v", d)
	}
	// one installment still pending, loan stays disbursed
	if l.State != loan.StateDisbursed {
		t.Fatalf("loan state = %s, want disbursed", l.State)
	}
}

func TestPay_OutOfOrderIsAllowed(t *testing.T) {
	l := disbursedLoan()
	schedule := []*installment.Installment{
		inst(1, installment.StatusPending, payDate.AddDate(0, 0, -1)),
		inst(2, installment.StatusPending, payDate.AddDate(0, 1, 0)),
	}
	uc, _ := tracker(t, l, schedule, &ledgermock.Ledger{}, 0)

	// paying #2 while #1 is still open is a supported, deliberate policy
	if _, err := uc.Pay(context.Background(), testLoanID, 2, payDate); err != nil {
		t.Fatalf("Pay out of order err: %v", err)
	}
	if schedule[0].Status != installment.StatusPending {
		t.Fatalf("installment 1 touched: %+v", schedule[0])
	}
}

func TestPay_LastInstallmentClosesLoan(t *testing.T) {
	l := disbursedLoan()
	schedule := []*installment.Installment{
		inst(1, installment.StatusPaid, payDate.AddDate(0, -2, 0)),
		inst(2, installment.StatusLate, payDate.AddDate(0, -1, 0)),
	}
	uc, _ := tracker(t, l, schedule, &ledgermock.Ledger{}, 0)

	if _, err := uc.Pay(context.Background(), testLoanID, 2, payDate); err != nil {
		t.Fatalf("Pay err: %v", err)
	}
	if l.State != loan.StateClosed {
		t.Fatalf("loan state = %s, want closed", l.State)
	}
}

func TestPay_AlreadyPaidKeepsPaidOnDate(t *testing.T) {
	l := disbursedLoan()
	original := payDate.AddDate(0, -1, 0)
	paid := inst(1, installment.StatusPaid, original)
	paid.PaidOnDate = &original
	schedule := []*installment.Installment{paid, inst(2, installment.StatusPending, payDate.AddDate(0, 1, 0))}
	lg := &ledgermock.Ledger{}
	uc, _ := tracker(t, l, schedule, lg, 0)

	_, err := uc.Pay(context.Background(), testLoanID, 1, payDate)
	if !errors.Is(err, installment.ErrAlreadyPaid) {
		t.Fatalf("err = %v, want ErrAlreadyPaid", err)
	}
	if !paid.PaidOnDate.Equal(original) {
		t.Fatalf("paid date changed to %s", paid.PaidOnDate)
	}
	if len(lg.Debits) != 0 {
		t.Fatalf("no debit should be emitted, got %d", len(lg.Debits))
	}
}

func TestPay_Failures(t *testing.T) {
	t.Run("unknown installment", func(t *testing.T) {
		l := disbursedLoan()
		uc, _ := tracker(t, l, []*installment.Installment{inst(1, installment.StatusPending, payDate)}, &ledgermock.Ledger{}, 0)
		if _, err := uc.Pay(context.Background(), testLoanID, 99, payDate); !errors.Is(err, installment.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("loan not disbursed", func(t *testing.T) {
		l := disbursedLoan()
		l.State = loan.StateApproved
		uc, _ := tracker(t, l, nil, &ledgermock.Ledger{}, 0)
		if _, err := uc.Pay(context.Background(), testLoanID, 1, payDate); !errors.Is(err, loan.ErrLoanNotActive) {
			t.Fatalf("err = %v, want ErrLoanNotActive", err)
		}
	})

	t.Run("unknown loan", func(t *testing.T) {
		l := disbursedLoan()
		uc, _ := tracker(t, l, nil, &ledgermock.Ledger{}, 0)
		if _, err := uc.Pay(context.Background(), "ffffffffffffffffffffffffffffffff", 1, payDate); !errors.Is(err, loan.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("ledger refusal leaves installment unpaid", func(t *testing.T) {
		l := disbursedLoan()
		refused := errors.New("insufficient balance")
		schedule := []*installment.Installment{inst(1, installment.StatusPending, payDate.AddDate(0, 1, 0))}
		lg := &ledgermock.Ledger{
			DebitFn: func(ctx context.Context, req ledgerdomain.DebitRequest) error { return refused },
		}
		uc, _ := tracker(t, l, schedule, lg, 0)
		if _, err := uc.Pay(context.Background(), testLoanID, 1, payDate); !errors.Is(err, refused) {
			t.Fatalf("err = %v, want refusal", err)
		}
	})
}

func TestMarkOverdue(t *testing.T) {
	l := disbursedLoan()
	schedule := []*installment.Installment{
		inst(1, installment.StatusPaid, payDate.AddDate(0, -3, 0)),
		inst(2, installment.StatusPending, payDate.AddDate(0, -1, 0)),
		inst(3, installment.StatusPending, payDate),             // due today, not yet late
		inst(4, installment.StatusPending, payDate.AddDate(0, 1, 0)),
	}
	uc, _ := tracker(t, l, schedule, &ledgermock.Ledger{}, 0)

	n, err := uc.MarkOverdue(context.Background(), testLoanID, payDate)
	if err != nil {
		t.Fatalf("MarkOverdue err: %v", err)
	}
	if n != 1 {
		t.Fatalf("marked = %d, want 1", n)
	}
	if schedule[1].Status != installment.StatusLate {
		t.Fatalf("installment 2 = %s, want late", schedule[1].Status)
	}
	if schedule[2].Status != installment.StatusPending || schedule[3].Status != installment.StatusPending {
		t.Fatalf("future installments touched")
	}
	if schedule[0].Status != installment.StatusPaid {
		t.Fatalf("paid installment touched")
	}

	// idempotent: a second run with the same asOf marks nothing new
	n, err = uc.MarkOverdue(context.Background(), testLoanID, payDate)
	if err != nil {
		t.Fatalf("MarkOverdue (2nd) err: %v", err)
	}
	if n != 0 {
		t.Fatalf("second run marked = %d, want 0", n)
	}
}

func TestMarkOverdue_DelinquencyThresholdDefaults(t *testing.T) {
	l := disbursedLoan()
	schedule := []*installment.Installment{
		inst(1, installment.StatusPending, payDate.AddDate(0, -3, 0)),
		inst(2, installment.StatusPending, payDate.AddDate(0, -2, 0)),
		inst(3, installment.StatusLate, payDate.AddDate(0, -1, 0)),
		inst(4, installment.StatusPending, payDate.AddDate(0, 1, 0)),
	}
	uc, _ := tracker(t, l, schedule, &ledgermock.Ledger{}, 3)

	if _, err := uc.MarkOverdue(context.Background(), testLoanID, payDate); err != nil {
		t.Fatalf("MarkOverdue err: %v", err)
	}
	if l.State != loan.StateDefaulted {
		t.Fatalf("loan state = %s, want defaulted", l.State)
	}
}

func TestMarkOverdue_ThresholdDisabled(t *testing.T) {
	l := disbursedLoan()
	schedule := []*installment.Installment{
		inst(1, installment.StatusPending, payDate.AddDate(0, -3, 0)),
		inst(2, installment.StatusPending, payDate.AddDate(0, -2, 0)),
		inst(3, installment.StatusPending, payDate.AddDate(0, -1, 0)),
	}
	uc, _ := tracker(t, l, schedule, &ledgermock.Ledger{}, 0)

	if _, err := uc.MarkOverdue(context.Background(), testLoanID, payDate); err != nil {
		t.Fatalf("MarkOverdue err: %v", err)
	}
	if l.State != loan.StateDisbursed {
		t.Fatalf("loan state = %s, want disbursed", l.State)
	}
}

func TestSweepOverdue(t *testing.T) {
	l := disbursedLoan()
	schedule := []*installment.Installment{
		inst(1, installment.StatusPending, payDate.AddDate(0, -1, 0)),
		inst(2, installment.StatusPending, payDate.AddDate(0, 1, 0)),
	}
	uc, _ := tracker(t, l, schedule, &ledgermock.Ledger{}, 0)

	n, err := uc.SweepOverdue(context.Background(), payDate)
	if err != nil {
		t.Fatalf("SweepOverdue err: %v", err)
	}
	if n != 1 {
		t.Fatalf("marked = %d, want 1", n)
	}
}

func TestPendingAndSchedule(t *testing.T) {
	l := disbursedLoan()
	schedule := []*installment.Installment{
		inst(1, installment.StatusPaid, payDate.AddDate(0, -2, 0)),
		inst(2, installment.StatusLate, payDate.AddDate(0, -1, 0)),
		inst(3, installment.StatusPending, payDate.AddDate(0, 1, 0)),
	}
	uc, _ := tracker(t, l, schedule, &ledgermock.Ledger{}, 0)

	pending, err := uc.Pending(context.Background(), testLoanID)
	if err != nil {
		t.Fatalf("Pending err: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].Number != 2 || pending[1].Number != 3 {
		t.Fatalf("pending order = %d,%d", pending[0].Number, pending[1].Number)
	}

	full, err := uc.Schedule(context.Background(), testLoanID)
	if err != nil {
		t.Fatalf("Schedule err: %v", err)
	}
	if len(full) != 3 {
		t.Fatalf("schedule = %d, want 3", len(full))
	}
}
