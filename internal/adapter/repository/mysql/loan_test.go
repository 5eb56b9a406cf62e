package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	loanDomain "bms-loan-engine/internal/domain/loan"
	"bms-loan-engine/pkg/id"
)

// --- SQLite-friendly schema only for tests (no ENUM) ---

type loanSQLite struct {
	ID                uint64         `gorm:"primaryKey;column:id"`
	LoanID            string         `gorm:"size:32;column:loan_id"`
	BorrowerID        string         `gorm:"size:32;column:borrower_id"`
	LinkedAccountID   string         `gorm:"size:32;column:linked_account_id"`
	Category          string         `gorm:"column:category"`
	Principal         float64        `gorm:"column:principal"`
	AnnualRatePercent float64        `gorm:"column:annual_rate_percent"`
	TermMonths        int            `gorm:"column:term_months"`
	InstallmentAmount float64        `gorm:"column:installment_amount"`
	TotalPayable      float64        `gorm:"column:total_payable"`
	State             string         `gorm:"type:text;column:state"` // ← no enum
	RejectionReason   string         `gorm:"column:rejection_reason"`
	StartDate         *time.Time     `gorm:"column:start_date"`
	StateUpdatedAt    time.Time      `gorm:"column:state_updated_at"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type installmentSQLite struct {
	ID                      uint64     `gorm:"primaryKey;column:id"`
	LoanID                  uint64     `gorm:"column:loan_id"`
	Number                  int        `gorm:"column:number"`
	DueDate                 time.Time  `gorm:"column:due_date"`
	PrincipalPortion        float64    `gorm:"column:principal_portion"`
	InterestPortion         float64    `gorm:"column:interest_portion"`
	TotalAmount             float64    `gorm:"column:total_amount"`
	RemainingPrincipalAfter float64    `gorm:"column:remaining_principal_after"`
	Status                  string     `gorm:"type:text;column:status"` // ← no enum
	PaidOnDate              *time.Time `gorm:"column:paid_on_date"`
	CreatedAt               time.Time  `gorm:"column:created_at"`
	UpdatedAt               time.Time  `gorm:"column:updated_at"`
}

func (installmentSQLite) TableName() string { return "installments" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// IMPORTANT: migrate the sqlite-safe models, NOT the domain models.
	if err := db.AutoMigrate(&loanSQLite{}, &installmentSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(loanID, borrowerID string) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:            loanID,
		BorrowerID:        borrowerID,
		LinkedAccountID:   "cccccccccccccccccccccccccccccccc",
		Category:          loanDomain.CategoryPersonal,
		Principal:         decimal.NewFromInt(100000),
		AnnualRatePercent: decimal.NewFromFloat(12.0),
		TermMonths:        12,
		InstallmentAmount: decimal.NewFromFloat(8884.88),
		TotalPayable:      decimal.NewFromFloat(106618.50),
		State:             loanDomain.StatePending,
		StateUpdatedAt:    time.Now().UTC(),
	}
}

func TestCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	borrower := id.NewID32()

	l := makeLoan(loanID, borrower)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LoanID != loanID || got.BorrowerID != borrower {
		t.Errorf("unexpected loan: %+v", got)
	}
	if !got.Principal.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("principal round-trip: %s", got.Principal)
	}
}

func TestSaveUpdatesState(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, "dddddddddddddddddddddddddddddddd")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := l.Approve(time.Now().UTC()); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.State != loanDomain.StateApproved {
		t.Errorf("state not updated, got=%s", got.State)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGetOpenLoanByBorrowerID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	b1 := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	now := time.Now().UTC()

	// Seed loans:
	// - borrower b1 with a rejected loan (should NOT match)
	if err := db.Create(&loanSQLite{
		LoanID:     "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		BorrowerID: b1, Principal: 100_000, AnnualRatePercent: 12,
		State: "rejected", StateUpdatedAt: now.Add(-3 * time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	// - borrower b1 with a closed loan (should NOT match)
	if err := db.Create(&loanSQLite{
		LoanID:     "cccccccccccccccccccccccccccccccc",
		BorrowerID: b1, Principal: 150_000, AnnualRatePercent: 12,
		State: "closed", StateUpdatedAt: now.Add(-2 * time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	// - borrower b1 with a disbursed loan => should be returned
	wantID := "dddddddddddddddddddddddddddddddd"
	if err := db.Create(&loanSQLite{
		LoanID:     wantID,
		BorrowerID: b1, Principal: 200_000, AnnualRatePercent: 9.5,
		State: "disbursed", StateUpdatedAt: now.Add(-1 * time.Hour),
	}).Error; err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetOpenLoanByBorrowerID(ctx, b1)
	if err != nil {
		t.Fatalf("GetOpenLoanByBorrowerID: %v", err)
	}
	if got == nil || got.LoanID != wantID || got.State != loanDomain.StateDisbursed {
		t.Fatalf("unexpected loan: %+v", got)
	}

	// borrower with only settled loans
	if _, err := repo.GetOpenLoanByBorrowerID(ctx, "ffffffffffffffffffffffffffffffff"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for borrower without open loans, got %v", err)
	}
}

func TestListByState(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	for i, st := range []string{"pending", "pending", "approved"} {
		if err := db.Create(&loanSQLite{
			LoanID:     id.NewID32(),
			BorrowerID: id.NewID32(),
			Principal:  float64(100_000 + i),
			State:      st, StateUpdatedAt: time.Now().UTC(),
		}).Error; err != nil {
			t.Fatal(err)
		}
	}

	pending, err := repo.ListByState(ctx, loanDomain.StatePending)
	if err != nil {
		t.Fatalf("ListByState: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending count = %d, want 2", len(pending))
	}
	if pending[0].ID > pending[1].ID {
		t.Fatalf("expected ascending id order, got %d then %d", pending[0].ID, pending[1].ID)
	}
}

func TestCountByState(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	for _, st := range []string{"pending", "pending", "disbursed", "closed"} {
		if err := db.Create(&loanSQLite{
			LoanID:     id.NewID32(),
			BorrowerID: id.NewID32(),
			State:      st, StateUpdatedAt: time.Now().UTC(),
		}).Error; err != nil {
			t.Fatal(err)
		}
	}

	counts, err := repo.CountByState(ctx)
	if err != nil {
		t.Fatalf("CountByState: %v", err)
	}
	if counts[loanDomain.StatePending] != 2 || counts[loanDomain.StateDisbursed] != 1 || counts[loanDomain.StateClosed] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestSumPrincipalByStates(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	seed := []struct {
		state     string
		principal float64
	}{
		{"pending", 50_000},
		{"disbursed", 100_000},
		{"closed", 200_000},
		{"defaulted", 25_000},
		{"rejected", 75_000},
	}
	for _, s := range seed {
		if err := db.Create(&loanSQLite{
			LoanID:     id.NewID32(),
			BorrowerID: id.NewID32(),
			Principal:  s.principal,
			State:      s.state, StateUpdatedAt: time.Now().UTC(),
		}).Error; err != nil {
			t.Fatal(err)
		}
	}

	total, err := repo.SumPrincipalByStates(ctx,
		loanDomain.StateDisbursed, loanDomain.StateClosed, loanDomain.StateDefaulted)
	if err != nil {
		t.Fatalf("SumPrincipalByStates: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(325_000)) {
		t.Fatalf("total = %s, want 325000", total)
	}

	// no matching loans sums to zero, not an error
	none, err := repo.SumPrincipalByStates(ctx, loanDomain.StateApproved)
	if err != nil {
		t.Fatalf("SumPrincipalByStates empty: %v", err)
	}
	if !none.IsZero() {
		t.Fatalf("empty total = %s, want 0", none)
	}
}

func TestListByBorrowerID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	b := id.NewID32()
	for _, st := range []string{"rejected", "closed", "disbursed"} {
		if err := db.Create(&loanSQLite{
			LoanID:     id.NewID32(),
			BorrowerID: b,
			State:      st, StateUpdatedAt: time.Now().UTC(),
		}).Error; err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.ListByBorrowerID(ctx, b)
	if err != nil {
		t.Fatalf("ListByBorrowerID: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("count = %d, want 3", len(list))
	}
	// newest first
	if list[0].State != loanDomain.StateDisbursed {
		t.Fatalf("first = %s, want disbursed", list[0].State)
	}
}
