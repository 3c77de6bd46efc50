package main

import (
	"log"
	"net/http"

	httphandlers "contas/internal/interfaces/http"
	"contas/internal/shared/config"
	"contas/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("POST /api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h))
	}

	protected("GET /api/users/me", deps.UserHandler.HandleMe)

	protected("GET /api/transactions", deps.TransactionHandler.HandleList)
	protected("POST /api/transactions", deps.TransactionHandler.HandleCreate)
	protected("GET /api/transactions/summary", deps.TransactionHandler.HandleSummary)
	protected("GET /api/transactions/{id}", deps.TransactionHandler.HandleGet)
	protected("GET /api/reports/categories", deps.TransactionHandler.HandleCategoryReport)

	protected("GET /api/goals", deps.GoalHandler.HandleList)
	protected("POST /api/goals", deps.GoalHandler.HandleCreate)
	protected("POST /api/goals/{id}/deposit", deps.GoalHandler.HandleDeposit)
	protected("DELETE /api/goals/{id}", deps.GoalHandler.HandleDelete)

	protected("GET /api/bills", deps.BillHandler.HandleList)
	protected("POST /api/bills", deps.BillHandler.HandleCreate)
	protected("POST /api/bills/{id}/pay", deps.BillHandler.HandleMarkPaid)
	protected("POST /api/bills/{id}/schedule-reminders", deps.BillHandler.HandleScheduleReminders)
	protected("GET /api/bills/{id}/reminders", deps.BillHandler.HandleListReminders)
	protected("DELETE /api/bills/{id}", deps.BillHandler.HandleDelete)

	protected("GET /api/budgets", deps.BudgetHandler.HandleList)
	protected("POST /api/budgets", deps.BudgetHandler.HandleCreate)
	protected("PUT /api/budgets/{id}", deps.BudgetHandler.HandleUpdate)
	protected("DELETE /api/budgets/{id}", deps.BudgetHandler.HandleDelete)

	protected("POST /api/notifications/register-device", deps.NotificationHandler.HandleRegisterDevice)
	protected("GET /api/notifications/preferences", deps.NotificationHandler.HandleGetPreferences)
	protected("PUT /api/notifications/preferences", deps.NotificationHandler.HandleUpdatePreferences)
	protected("GET /api/notifications", deps.NotificationHandler.HandleList)
	protected("POST /api/notifications/{id}/open", deps.NotificationHandler.HandleMarkOpened)

	protected("GET /api/quiz", deps.QuizHandler.HandleQuestions)
	protected("POST /api/quiz", deps.QuizHandler.HandleSubmit)

	// Apply global middleware
	handler := middleware.Logging(middleware.Telemetry(middleware.CORS(cfg.Server.AllowedHosts)(mux)))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
