package main

import (
	"github.com/sirupsen/logrus"

	"financas/internal/domain/card"
	"financas/internal/domain/expense"
	"financas/internal/domain/invoice"
	"financas/internal/infrastructure/postgres"
	httphandlers "financas/internal/interfaces/http"
	"financas/internal/shared/auth"
	"financas/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler    *httphandlers.AuthHandler
	UserHandler    *httphandlers.UserHandler
	CardHandler    *httphandlers.CardHandler
	ExpenseHandler *httphandlers.ExpenseHandler
	InvoiceHandler *httphandlers.InvoiceHandler

	// Auth
	JWT *auth.JWT
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config, logger *logrus.Logger) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	if err := postgres.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	cardRepo := postgres.NewCardRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)

	// Domain services. The expense repository doubles as the installment
	// source for card limits and invoice aggregation; the card repository
	// doubles as the billing-day lookup for the installment scheduler.
	cardService := card.NewService(cardRepo, expenseRepo)
	expenseService := expense.NewService(expenseRepo, cardRepo, logger)
	invoiceAggregator := invoice.NewAggregator(expenseRepo)

	jwt := auth.NewJWT(cfg.JWT.Secret)

	return &Dependencies{
		DB:             db,
		AuthHandler:    httphandlers.NewAuthHandler(userRepo, jwt),
		UserHandler:    httphandlers.NewUserHandler(userRepo),
		CardHandler:    httphandlers.NewCardHandler(cardService),
		ExpenseHandler: httphandlers.NewExpenseHandler(expenseService),
		InvoiceHandler: httphandlers.NewInvoiceHandler(invoiceAggregator),
		JWT:            jwt,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
