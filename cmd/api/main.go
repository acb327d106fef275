package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/albadr/lighting-pos/internal/backup"
	"github.com/albadr/lighting-pos/internal/config"
	"github.com/albadr/lighting-pos/internal/handler"
	"github.com/albadr/lighting-pos/internal/middleware"
	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/notify"
	"github.com/albadr/lighting-pos/internal/repository"
	"github.com/albadr/lighting-pos/internal/service"
	"github.com/albadr/lighting-pos/pkg/database"
	"github.com/albadr/lighting-pos/pkg/jwt"
)

func main() {
	// 1. Load env and config. A missing .env is fine outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := newLogger(cfg.LogLevel)

	// 2. Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := db.AutoMigrate(
		&model.Product{}, &model.Category{}, &model.Customer{},
		&model.Sale{}, &model.SaleItem{},
		&model.Expense{},
		&model.Order{}, &model.OrderItem{},
		&model.Warranty{}, &model.WarrantyClaim{}, &model.WarrantyExtension{},
		&model.Company{}, &model.CompanyDebt{}, &model.DebtPayment{}, &model.DebtInteraction{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// 3. Repositories
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	warrantyRepo := repository.NewWarrantyRepo(db)
	debtRepo := repository.NewDebtRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 4. Seed default privileges, roles, and the initial admin
	if err := seedDefaults(privilegeRepo, roleRepo, userRepo, log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	// 5. Shared infrastructure
	tokens := jwt.NewManager(cfg.JWTSecret)
	telegram := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, log)
	backupManager := backup.NewManager(db, cfg.BackupDir, cfg.SQLitePath, log)

	// 6. Services
	invService := service.NewInventoryService(productRepo, categoryRepo, db, log)
	customerService := service.NewCustomerService(customerRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, customerRepo, warrantyRepo, expenseRepo, db, telegram, log)
	expenseService := service.NewExpenseService(expenseRepo, telegram, log)
	orderService := service.NewOrderService(orderRepo, productRepo, db, telegram, log)
	warrantyService := service.NewWarrantyService(warrantyRepo, productRepo, db, log)
	debtService := service.NewDebtService(debtRepo, telegram, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	// 7. Handlers
	invHandler := handler.NewInventoryHandler(invService)
	customerHandler := handler.NewCustomerHandler(customerService)
	saleHandler := handler.NewSaleHandler(saleService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	orderHandler := handler.NewOrderHandler(orderService)
	warrantyHandler := handler.NewWarrantyHandler(warrantyService)
	debtHandler := handler.NewDebtHandler(debtService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	backupHandler := handler.NewBackupHandler(backupManager, cfg.BackupDir)
	telegramHandler := handler.NewTelegramHandler(telegram)

	// 8. Fiber
	app := fiber.New(fiber.Config{
		AppName: "Lighting POS v1.0",
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/logout", middleware.RequireAuth(tokens, userRepo), authHandler.Logout)

	// Customer-facing order intake stays open so the storefront can
	// submit without a session.
	api.Post("/orders", orderHandler.CreateOrder)

	// Everything below requires a session
	protected := api.Group("", middleware.RequireAuth(tokens, userRepo))

	// Products
	protected.Get("/products", invHandler.GetProducts)
	protected.Get("/products/qr/:code", invHandler.GetProductByQR)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), invHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), invHandler.DeleteProduct)
	protected.Post("/products/:id/adjust", middleware.RequirePrivilege("product:update"), invHandler.AdjustStock)

	// Categories
	protected.Get("/categories", invHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege("product:create"), invHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequirePrivilege("product:update"), invHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequirePrivilege("product:delete"), invHandler.DeleteCategory)

	// Customers
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Post("/customers", customerHandler.CreateCustomer)
	protected.Put("/customers/:id", customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", customerHandler.DeleteCustomer)

	// Sales
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), saleHandler.GetSales)
	protected.Get("/sales/report", middleware.RequirePrivilege("report:view"), saleHandler.Report)
	protected.Post("/sales/daily-summary", middleware.RequirePrivilege("report:view"), saleHandler.SendDailySummary)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), saleHandler.GetSale)
	protected.Post("/sales", middleware.RequirePrivilege("sale:create"), saleHandler.CreateSale)
	protected.Delete("/sales/:id", middleware.RequirePrivilege("sale:delete"), saleHandler.DeleteSale)

	// Expenses
	protected.Get("/expenses", middleware.RequirePrivilege("expense:view"), expenseHandler.GetExpenses)
	protected.Get("/expenses/report", middleware.RequirePrivilege("report:view"), expenseHandler.Report)
	protected.Get("/expenses/:id", middleware.RequirePrivilege("expense:view"), expenseHandler.GetExpense)
	protected.Post("/expenses", middleware.RequirePrivilege("expense:create"), expenseHandler.CreateExpense)
	protected.Put("/expenses/:id", middleware.RequirePrivilege("expense:update"), expenseHandler.UpdateExpense)
	protected.Delete("/expenses/:id", middleware.RequirePrivilege("expense:delete"), expenseHandler.DeleteExpense)

	// Orders (management side)
	protected.Get("/orders", middleware.RequirePrivilege("order:view"), orderHandler.GetOrders)
	protected.Get("/orders/:id", middleware.RequirePrivilege("order:view"), orderHandler.GetOrder)
	protected.Put("/orders/:id/status", middleware.RequirePrivilege("order:update"), orderHandler.UpdateStatus)
	protected.Delete("/orders/:id", middleware.RequirePrivilege("order:delete"), orderHandler.DeleteOrder)

	// Warranties
	protected.Get("/warranties", middleware.RequirePrivilege("warranty:view"), warrantyHandler.GetWarranties)
	protected.Get("/warranties/expiring", middleware.RequirePrivilege("warranty:view"), warrantyHandler.Expiring)
	protected.Get("/warranties/stats", middleware.RequirePrivilege("warranty:view"), warrantyHandler.Stats)
	protected.Get("/warranties/:id", middleware.RequirePrivilege("warranty:view"), warrantyHandler.GetWarranty)
	protected.Post("/warranties", middleware.RequirePrivilege("warranty:create"), warrantyHandler.CreateWarranty)
	protected.Put("/warranties/:id", middleware.RequirePrivilege("warranty:update"), warrantyHandler.UpdateWarranty)
	protected.Post("/warranties/:id/claim", middleware.RequirePrivilege("warranty:claim"), warrantyHandler.Claim)
	protected.Post("/warranties/:id/extend", middleware.RequirePrivilege("warranty:update"), warrantyHandler.Extend)
	protected.Delete("/warranties/:id", middleware.RequirePrivilege("warranty:update"), warrantyHandler.Void)

	// Companies and debts
	protected.Get("/companies", middleware.RequirePrivilege("debt:view"), debtHandler.GetCompanies)
	protected.Get("/companies/summary", middleware.RequirePrivilege("debt:view"), debtHandler.CompanySummaries)
	protected.Get("/companies/:id", middleware.RequirePrivilege("debt:view"), debtHandler.GetCompany)
	protected.Post("/companies", middleware.RequirePrivilege("debt:create"), debtHandler.CreateCompany)
	protected.Put("/companies/:id", middleware.RequirePrivilege("debt:create"), debtHandler.UpdateCompany)

	protected.Get("/debts", middleware.RequirePrivilege("debt:view"), debtHandler.GetDebts)
	protected.Get("/debts/report", middleware.RequirePrivilege("report:view"), debtHandler.Report)
	protected.Get("/debts/:id", middleware.RequirePrivilege("debt:view"), debtHandler.GetDebt)
	protected.Post("/debts", middleware.RequirePrivilege("debt:create"), debtHandler.CreateDebt)
	protected.Get("/debts/:id/payments", middleware.RequirePrivilege("debt:view"), debtHandler.GetPayments)
	protected.Post("/debts/:id/payments", middleware.RequirePrivilege("debt:pay"), debtHandler.RecordPayment)
	protected.Get("/debts/:id/interactions", middleware.RequirePrivilege("debt:view"), debtHandler.GetInteractions)

	// User management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdatePrivileges)

	// Roles and privileges
	protected.Get("/roles", func(c *fiber.Ctx) error {
		roles, err := roleRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roles"})
		}
		return c.JSON(roles)
	})
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// Backups
	protected.Post("/backups", middleware.RequirePrivilege("backup:create"), backupHandler.CreateBackup)
	protected.Get("/backups", middleware.RequirePrivilege("backup:create"), backupHandler.ListBackups)
	protected.Post("/backups/cleanup", middleware.RequirePrivilege("backup:create"), backupHandler.Cleanup)
	protected.Post("/backups/restore", middleware.RequirePrivilege("backup:restore"), backupHandler.Restore)

	// Telegram settings
	protected.Get("/telegram/settings", middleware.RequireAnyPrivilege("backup:create", "report:view"), telegramHandler.GetSettings)
	protected.Post("/telegram/settings", middleware.RequirePrivilege("backup:create"), telegramHandler.UpdateSettings)
	protected.Post("/telegram/test", middleware.RequirePrivilege("backup:create"), telegramHandler.SendTest)

	// 9. Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// seedDefaults provisions privileges, roles with their grants, and the
// first admin account. The admin is only created when ADMIN_EMAIL and
// ADMIN_PASSWORD are both present; there are no baked-in credentials.
func seedDefaults(
	privilegeRepo repository.PrivilegeRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	log zerolog.Logger,
) error {
	if err := privilegeRepo.SeedDefaults(); err != nil {
		return err
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		return err
	}

	// Role grants: admin and manager get the full set, the narrow roles
	// get their code lists.
	all, err := privilegeRepo.FindAll()
	if err != nil {
		return err
	}
	grants := map[string][]model.Privilege{
		model.RoleAdmin:   all,
		model.RoleManager: withoutCodes(all, "user:create", "user:delete", "user:update_privilege", "backup:restore"),
	}
	if cashier, err := privilegeRepo.FindByCodes(model.CashierPrivileges); err == nil {
		grants[model.RoleCashier] = cashier
	}
	if warehouse, err := privilegeRepo.FindByCodes(model.WarehousePrivileges); err == nil {
		grants[model.RoleWarehouse] = warehouse
	}
	for code, privileges := range grants {
		role, err := roleRepo.FindByCode(code)
		if err != nil {
			return err
		}
		if len(role.Privileges) == 0 {
			if err := roleRepo.ReplacePrivileges(role, privileges); err != nil {
				return err
			}
		}
	}

	// Initial admin
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}
	if existing, _ := userRepo.FindByEmail(adminEmail); existing != nil {
		return nil
	}

	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:      adminEmail,
		FullName:   "Administrator",
		RoleID:     &adminRole.ID,
		IsActive:   true,
		Privileges: adminRole.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}
	log.Info().Str("email", adminEmail).Msg("admin account created")
	return nil
}

func withoutCodes(privileges []model.Privilege, excluded ...string) []model.Privilege {
	skip := make(map[string]bool, len(excluded))
	for _, code := range excluded {
		skip[code] = true
	}
	out := make([]model.Privilege, 0, len(privileges))
	for _, p := range privileges {
		if !skip[p.Code] {
			out = append(out, p)
		}
	}
	return out
}
