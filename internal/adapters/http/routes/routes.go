package routes

import (
	"pustaka-backend/internal/adapters/http/handlers"
	"pustaka-backend/internal/adapters/persistence/repositories"
	"pustaka-backend/internal/config"
	"pustaka-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	bookRepo := repositories.NewBookRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	penaltyRepo := repositories.NewPenaltyRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	loanGateway := repositories.NewLoanGateway(db)

	// Initialize services
	bookService := services.NewBookService(bookRepo)
	memberService := services.NewMemberService(memberRepo)
	penaltyService := services.NewPenaltyService(penaltyRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	loanService := services.NewLoanService(loanGateway)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	bookHandler := handlers.NewBookHandler(bookService)
	memberHandler := handlers.NewMemberHandler(memberService, penaltyService)
	penaltyHandler := handlers.NewPenaltyHandler(penaltyService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	loanHandler := handlers.NewLoanHandler(loanService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupBookRoutes(apiV1.Group("/books"), bookHandler, loanHandler)
	setupMemberRoutes(apiV1.Group("/members"), memberHandler)
	setupPenaltyRoutes(apiV1.Group("/penalties"), penaltyHandler)
	setupCategoryRoutes(apiV1.Group("/categories"), categoryHandler)
}

// setupBookRoutes configures book routes, including the loan transitions
func setupBookRoutes(router fiber.Router, handler *handlers.BookHandler, loanHandler *handlers.LoanHandler) {
	// Loan lifecycle and code lookup (registered before /:id so the paths
	// don't collide)
	router.Post("/borrow", loanHandler.Borrow)
	router.Post("/return", loanHandler.Return)
	router.Get("/code/:code", handler.GetByCode)

	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Post("/", handler.Create)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupMemberRoutes configures member routes
func setupMemberRoutes(router fiber.Router, handler *handlers.MemberHandler) {
	// Code lookup before /:id so the paths don't collide
	router.Get("/code/:code", handler.GetByCode)

	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Post("/", handler.Create)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
	router.Get("/:id/penalties", handler.GetPenalties)
}

// setupPenaltyRoutes configures administrative penalty routes
func setupPenaltyRoutes(router fiber.Router, handler *handlers.PenaltyHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupCategoryRoutes configures category master routes
func setupCategoryRoutes(router fiber.Router, handler *handlers.CategoryHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Post("/", handler.Create)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}
