package main

import (
	"context"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"contas/internal/domain/bill"
	"contas/internal/domain/budget"
	"contas/internal/domain/goal"
	"contas/internal/domain/notification"
	"contas/internal/domain/reminder"
	"contas/internal/domain/transaction"
	"contas/internal/infrastructure/firebase"
	"contas/internal/infrastructure/postgres"
	"contas/internal/infrastructure/redis"
	httphandlers "contas/internal/interfaces/http"
	"contas/internal/interfaces/scheduler"
	"contas/internal/shared/auth"
	"contas/internal/shared/config"
	"contas/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB          *postgres.DB
	RedisClient *goredis.Client

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	UserHandler         *httphandlers.UserHandler
	TransactionHandler  *httphandlers.TransactionHandler
	GoalHandler         *httphandlers.GoalHandler
	BillHandler         *httphandlers.BillHandler
	BudgetHandler       *httphandlers.BudgetHandler
	NotificationHandler *httphandlers.NotificationHandler
	QuizHandler         *httphandlers.QuizHandler

	// Auth
	JWT *auth.JWT

	// Reminder delivery
	ReminderService *reminder.Service
	WorkerPool      *scheduler.WorkerPool
	Dispatcher      *scheduler.Dispatcher
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database and apply migrations
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	billRepo := postgres.NewBillRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	// Redis summary cache is optional; a miss on connect degrades to
	// uncached summaries.
	var redisClient *goredis.Client
	var summaryCache transaction.SummaryCache
	if cfg.Redis.Enabled {
		redisClient, err = redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Warning: failed to connect to Redis, summaries will not be cached: %v", err)
		} else {
			summaryCache = redis.NewSummaryCache(redisClient, cfg.Redis.SummaryTTL)
			log.Println("Connected to Redis")
		}
	}

	// FCM is optional; without it notifications are stored but not pushed.
	var messenger notification.Messenger
	if cfg.Firebase.Enabled {
		fcmClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateToken)
		if err != nil {
			log.Printf("Warning: failed to initialize Firebase, push delivery disabled: %v", err)
		} else {
			messenger = fcmClient
			log.Println("Firebase messaging initialized")
		}
	}

	// Initialize domain services
	msgs := messages.Default()
	notificationService := notification.NewService(notificationRepo, messenger)
	reminderService := reminder.NewService(reminderRepo, notificationService, msgs, reminder.SystemClock(), reminder.NewTimerSet())
	transactionService := transaction.NewService(transactionRepo, summaryCache)
	goalService := goal.NewService(goalRepo, notificationService, msgs)
	billService := bill.NewService(billRepo, reminderService)
	budgetService := budget.NewService(budgetRepo, transactionRepo, notificationService, msgs)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Reminder delivery pipeline: a worker pool drains due events claimed
	// by the dispatcher. With WORKER_COUNT=0 the dispatcher delivers
	// inline on each poll instead.
	var pool *scheduler.WorkerPool
	var dispatcher *scheduler.Dispatcher
	if cfg.Reminder.Enabled {
		if cfg.Reminder.WorkerCount > 0 {
			pool = scheduler.NewWorkerPool(cfg.Reminder.WorkerCount, cfg.Reminder.JobDelay, cfg.Reminder.QueueSize)
		}
		dispatcher = scheduler.NewDispatcher(reminderService, pool, cfg.Reminder.PollInterval, cfg.Reminder.QueueSize)
	} else {
		log.Println("Reminder dispatcher is disabled")
	}

	return &Dependencies{
		DB:                  db,
		RedisClient:         redisClient,
		AuthHandler:         httphandlers.NewAuthHandler(userRepo, jwt),
		UserHandler:         httphandlers.NewUserHandler(userRepo),
		TransactionHandler:  httphandlers.NewTransactionHandler(transactionService, budgetService),
		GoalHandler:         httphandlers.NewGoalHandler(goalService),
		BillHandler:         httphandlers.NewBillHandler(billService, reminderService),
		BudgetHandler:       httphandlers.NewBudgetHandler(budgetService),
		NotificationHandler: httphandlers.NewNotificationHandler(notificationService),
		QuizHandler:         httphandlers.NewQuizHandler(userRepo),
		JWT:                 jwt,
		ReminderService:     reminderService,
		WorkerPool:          pool,
		Dispatcher:          dispatcher,
	}, nil
}

// Start launches the background reminder delivery pipeline.
func (d *Dependencies) Start() {
	if d.WorkerPool != nil {
		d.WorkerPool.Start()
	}
	if d.Dispatcher != nil {
		d.Dispatcher.Start()
	}
}

// Close releases all resources held by dependencies. Ordered so that no
// component outlives one it depends on.
func (d *Dependencies) Close() {
	if d.Dispatcher != nil {
		d.Dispatcher.Stop()
	}
	if d.WorkerPool != nil {
		d.WorkerPool.ShutdownWithTimeout(30 * time.Second)
	}
	if d.ReminderService != nil {
		d.ReminderService.Shutdown()
	}
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
