package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	httphandlers "financas/internal/interfaces/http"
	"financas/internal/shared/config"
	"financas/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))

	mux.Handle("/api/cards", authMiddleware(http.HandlerFunc(deps.CardHandler.HandleCards)))
	mux.Handle("/api/cards/limits", authMiddleware(http.HandlerFunc(deps.CardHandler.HandleCardLimits)))
	mux.Handle("/api/cards/{id}", authMiddleware(http.HandlerFunc(deps.CardHandler.HandleCardByID)))
	mux.Handle("/api/cards/{id}/limit", authMiddleware(http.HandlerFunc(deps.CardHandler.HandleCardLimit)))

	mux.Handle("/api/expenses", authMiddleware(http.HandlerFunc(deps.ExpenseHandler.HandleExpenses)))
	mux.Handle("/api/expenses/purchases", authMiddleware(http.HandlerFunc(deps.InvoiceHandler.HandlePurchases)))
	mux.Handle("/api/expenses/{id}/toggle", authMiddleware(http.HandlerFunc(deps.ExpenseHandler.HandleToggleStatus)))
	mux.Handle("/api/expenses/{idCompra}", authMiddleware(http.HandlerFunc(deps.ExpenseHandler.HandleExpensesByPurchase)))

	mux.Handle("/api/invoices/{cardId}", authMiddleware(http.HandlerFunc(deps.InvoiceHandler.HandleStatements)))
	mux.Handle("/api/invoices/{cardId}/summary", authMiddleware(http.HandlerFunc(deps.InvoiceHandler.HandleSummary)))

	// Apply global middleware
	handler := middleware.Logging(middleware.Tracing(middleware.CORS(cfg.Server.AllowedHosts)(mux)))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		logrus.Info("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
