package main

import (
	"fmt"
	"os"

	"github.com/nurpe/gigledger/internal/auth"
	"github.com/nurpe/gigledger/internal/cache"
	"github.com/nurpe/gigledger/internal/config"
	"github.com/nurpe/gigledger/internal/db"
	"github.com/nurpe/gigledger/internal/excel"
	httphandler "github.com/nurpe/gigledger/internal/http"
	"github.com/nurpe/gigledger/internal/http/middleware"
	"github.com/nurpe/gigledger/internal/logger"
	"github.com/nurpe/gigledger/internal/pdf"
	"github.com/nurpe/gigledger/internal/repository"
	"github.com/nurpe/gigledger/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	// One cache instance shared by the read paths and invalidated by the
	// payment engine.
	readCache := cache.New(cfg.Cache.TTL)

	contractRepo := repository.NewContractRepository(database)
	jobRepo := repository.NewJobRepository(database)
	profileRepo := repository.NewProfileRepository(database)
	reportRepo := repository.NewReportRepository(database)

	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	contractService := service.NewContractService(contractRepo, readCache)
	jobService := service.NewJobService(jobRepo, readCache)
	profileService := service.NewProfileService(profileRepo)
	reportService := service.NewReportService(reportRepo, excelGenerator, pdfGenerator, cfg.Report.MaxClients)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, jobService, profileService, reportService, readCache, log)
	authMiddleware := middleware.Auth(tokenParser, profileService, log)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting ledger service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
