package bootstrap

import (
	"context"
	"log"

	"offline-traffic-bot/internal/config"
	"offline-traffic-bot/internal/constant"
	"offline-traffic-bot/internal/controller"
	"offline-traffic-bot/internal/entity"
	"offline-traffic-bot/internal/pkg/logger"
	"offline-traffic-bot/internal/repository/implementation"
	"offline-traffic-bot/internal/repository/memory"
	"offline-traffic-bot/internal/service"
	"offline-traffic-bot/internal/telegram"
	"offline-traffic-bot/pkg/extract"
	"offline-traffic-bot/pkg/stt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	ReviewController controller.IReviewController

	// Background services, exposed for main.go to run.
	AnalyticsService service.IAnalyticsService
	TelegramBot      *telegram.Bot

	Logger logger.ILogger
}

func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Repositories
	sessionRepo := memory.NewSessionRepository()
	fallbackRepo := implementation.NewLocalFallbackRepository(cfg.Storage.FailedSavesPath)
	analyticsRepo := implementation.NewFileAnalyticsRepository(cfg.Storage.AnalyticsPath)

	rowStore, err := implementation.NewSheetsRowStore(
		ctx,
		cfg.Sheets.CredentialsPath,
		cfg.Sheets.SpreadsheetID,
		cfg.Sheets.SheetName,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Sheets store: %v", err)
	}

	// 4. Services
	publisherService := service.NewPublisherService(constant.VisitEventsTopic, pubSub)
	analyticsService := service.NewAnalyticsService(
		pubSub,
		constant.VisitEventsTopic,
		analyticsRepo,
		sysLogger,
	)

	visitService := service.NewVisitService(
		sessionRepo,
		rowStore,
		fallbackRepo,
		publisherService,
		sysLogger,
		cfg.Sheets.SaveAttempts,
	)

	// 5. External clients
	sttClient := stt.NewClient(cfg.Stt.BaseURL, cfg.Stt.Model, cfg.Stt.APIKey)
	extractor := extract.NewGeminiExtractor(
		cfg.Keys.GoogleGemini,
		map[string][]string{
			entity.ColTypeOfClient:    entity.ClientTypes,
			entity.ColBehavior:        entity.Behaviors,
			entity.ColPurchaseStatus:  entity.Statuses,
			entity.ColReasonNotBuying: entity.Reasons,
			entity.ColSource:          entity.Sources,
		},
		[]string{entity.ColTicketAmount, entity.ColCostPrice, entity.ColQuantity},
	)

	// 6. Transport
	bot, err := telegram.New(
		cfg.Telegram.Token,
		cfg.Telegram.Debug,
		visitService,
		sttClient,
		extractor,
		sysLogger,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Telegram bot: %v", err)
	}

	return &Container{
		ReviewController: controller.NewReviewController(fallbackRepo, analyticsService, sysLogger),
		AnalyticsService: analyticsService,
		TelegramBot:      bot,
		Logger:           sysLogger,
	}
}
