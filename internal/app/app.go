// Package app wires configuration, storage, clients, and services into a
// runnable pipeline.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/bobmcallan/pulse/internal/clients/gemini"
	"github.com/bobmcallan/pulse/internal/clients/mail"
	"github.com/bobmcallan/pulse/internal/clients/yahoo"
	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
	"github.com/bobmcallan/pulse/internal/services/market"
	"github.com/bobmcallan/pulse/internal/services/portfolio"
	"github.com/bobmcallan/pulse/internal/services/report"
	"github.com/bobmcallan/pulse/internal/storage"
)

// App holds all initialized services and clients for one process.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteClient      interfaces.QuoteClient
	NarrativeClient  interfaces.NarrativeClient
	MailClient       interfaces.MailClient
	MarketService    interfaces.MarketService
	PortfolioService interfaces.PortfolioService
	ReportService    interfaces.ReportService
}

// NewApp initializes all services, clients, and storage from config.
// configPath may be empty, in which case PULSE_CONFIG and then
// "config/pulse.toml" are tried.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("PULSE_CONFIG")
	}
	if configPath == "" {
		configPath = "config/pulse.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	quoteClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	var narrativeClient interfaces.NarrativeClient
	if config.Clients.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client — narrative will use placeholder")
		} else {
			narrativeClient = geminiClient
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured — narrative will use placeholder")
	}

	mailClient := mail.NewClient(config.Mail, mail.WithLogger(logger))

	aliases := models.NewAliasMap(config.Aliases)
	marketService := market.NewService(quoteClient, aliases, config.Report.LookbackDays, logger)
	portfolioService := portfolio.NewService(storageManager, config.Report.HistoryWindow, logger)
	reportService := report.NewService(
		storageManager,
		marketService,
		portfolioService,
		narrativeClient,
		config.Report.HistoryWindow,
		config.Location(),
		logger,
	)

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuoteClient:      quoteClient,
		NarrativeClient:  narrativeClient,
		MailClient:       mailClient,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		ReportService:    reportService,
	}, nil
}

// Run executes one pipeline pass: generate the report and deliver it.
// With dryRun set the email send is skipped; the ledger is still written,
// matching the pipeline's persist-then-notify ordering.
func (a *App) Run(ctx context.Context, dryRun bool) error {
	rep, err := a.ReportService.GenerateReport(ctx)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	if dryRun {
		a.Logger.Info().Str("subject", rep.Subject).Int("html_bytes", len(rep.HTML)).
			Msg("Dry run — skipping email delivery")
		return nil
	}

	if err := a.MailClient.SendHTML(ctx, rep.Subject, rep.HTML, rep.ChartPNG); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	return nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
