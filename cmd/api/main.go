package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "bms-loan-engine/internal/adapter/http"
	ledgeradp "bms-loan-engine/internal/adapter/ledger"
	"bms-loan-engine/internal/adapter/middleware"
	"bms-loan-engine/internal/adapter/repository/mysql"
	"bms-loan-engine/internal/config"
	"bms-loan-engine/internal/domain/rate"
	"bms-loan-engine/internal/infrastructure/cache"
	"bms-loan-engine/internal/infrastructure/db"
	loanUC "bms-loan-engine/internal/usecase/loan"
	paymentUC "bms-loan-engine/internal/usecase/payment"
	workflowUC "bms-loan-engine/internal/usecase/workflow"
	"bms-loan-engine/pkg/clock"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	clk := clock.System{}
	rates := rate.Table{Strict: cfg.StrictCategories}

	loanRepo := mysql.NewLoanRepository(gdb)
	instRepo := mysql.NewInstallmentRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	accountLedger := ledgeradp.NewLogLedger()

	loans := loanUC.NewUsecase(loanRepo, instRepo, rates, clk)
	workflow := workflowUC.NewUsecase(tx, accountLedger, clk)
	payments := paymentUC.NewUsecase(tx, loanRepo, instRepo, accountLedger, clk, cfg.DefaultAfterLate)

	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(loans)
	workflowH := httpadp.NewWorkflowHandler(workflow, clk)
	paymentH := httpadp.NewPaymentHandler(payments, clk)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	e.POST("/loans", loanH.ApplyLoan, idemp)
	e.GET("/loans", loanH.ListLoans)
	e.GET("/loans/pending", loanH.PendingLoans)
	e.GET("/loans/statistics", loanH.Statistics)
	e.POST("/loans/preview", loanH.PreviewEMI)
	e.GET("/loans/:loan_id", loanH.GetLoan)

	e.GET("/loans/:loan_id/schedule", paymentH.Schedule)
	e.GET("/loans/:loan_id/installments/pending", paymentH.PendingInstallments)
	e.POST("/loans/:loan_id/pay-emi", paymentH.PayEMI, idemp)
	e.POST("/loans/overdue-sweep", paymentH.SweepOverdue)

	e.POST("/loans/:loan_id/approve", workflowH.ApproveLoan, idemp)
	e.POST("/loans/:loan_id/reject", workflowH.RejectLoan, idemp)
	e.POST("/loans/:loan_id/disburse", workflowH.DisburseLoan, idemp)
	e.POST("/loans/:loan_id/close", workflowH.CloseLoan, idemp)
	e.POST("/loans/:loan_id/mark-defaulted", workflowH.MarkDefaulted, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
