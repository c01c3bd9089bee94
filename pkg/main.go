package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	pkg "github.com/wavelet-im/wavelet/pkg/internal"
	"github.com/wavelet-im/wavelet/pkg/internal/cache"
	"github.com/wavelet-im/wavelet/pkg/internal/connections"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/http"
	"github.com/wavelet-im/wavelet/pkg/internal/http/api"
	"github.com/wavelet-im/wavelet/pkg/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.CyanString(" __        __          _      _\n \\ \\      / /_ ___   _(_)___ | | ___| |_\n  \\ \\ /\\ / / _` \\ \\ / / / _ \\| |/ _ \\ __|\n   \\ V  V / (_| |\\ V /| |  __/| |  __/ |_\n    \\_/\\_/ \\__,_| \\_/ |_|\\___||_|\\___|\\__|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiCyan).Add(color.Bold).Sprintf("Wavelet"), pkg.AppVersion)
	fmt.Printf("The real-time social delivery service\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Prepare the in-process cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when setting up the cache store.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Wire the live delivery layer
	registry := connections.NewRegistry()
	router := connections.NewRouter(registry)
	api.Registry = registry
	api.Router = router

	// Configure timed tasks
	publisher := services.NewPublisher(services.GormPostStore{DB: database.C})
	publisher.OnPublished = func(ids []uint) {
		services.NotifyPostsPublished(router, ids)
	}

	interval := viper.GetString("publisher.interval")
	if len(interval) == 0 {
		interval = "@every 1m"
	}

	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc(interval, publisher.Run)
	quartz.Start()

	// Server
	go http.NewServer().Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
