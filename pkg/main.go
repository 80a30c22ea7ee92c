package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pkg "git.solsynth.dev/hypernet/quickpoll/pkg/internal"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/cache"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/database"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/export"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/http"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/http/admin"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/services"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/storage"
	"github.com/fatih/color"
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
	fmt.Println(color.YellowString("  ___        _      _    ____       _ _\n / _ \\ _   _(_) ___| | _|  _ \\ ___ | | |\n| | | | | | | |/ __| |/ / |_) / _ \\| | |\n| |_| | |_| | | (__|   <|  __/ (_) | | |\n \\__\\_\\\\__,_|_|\\___|_|\\_\\_|   \\___/|_|_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.QuickPoll"), pkg.AppVersion)
	fmt.Printf("The live polling service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("QUICKPOLL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Panic().Err(err).Msg("An error occurred when loading settings.")
		}
		log.Warn().Msg("No settings file found, running with defaults and environment.")
	}

	// Connect to database
	var repo storage.Repository
	if len(viper.GetString("database.dsn")) == 0 {
		log.Warn().Msg("No database configured, polls will be kept in memory only.")
		repo = storage.NewMemoryRepository()
	} else if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	} else {
		repo = storage.NewGormRepository(database.C)
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	polls := services.NewPollService(repo, services.ReadConfig(), cache.S)
	hub := realtime.NewHub()
	grpcServer := grpc.NewGrpc()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(viper.GetString("polls.sweep_interval"), func() {
		polls.DoExpirySweep(func(poll models.Poll, previous models.PollStatus) {
			hub.StatusChanged(poll.ID, previous, poll.Status)
		})
	}); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling the expiry sweep.")
	}
	if _, err := quartz.AddFunc(viper.GetString("health.probe_interval"), func() {
		_ = grpcServer.Probe(context.Background(), repo)
	}); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling the health probe.")
	}
	quartz.Start()
	_ = grpcServer.Probe(context.Background(), repo)

	// Server
	server := http.NewServer(
		api.NewController(polls, hub, export.NewWorkbook()),
		admin.NewController(polls, hub, viper.GetString("security.admin_token")),
	)
	go server.Listen()

	go func() {
		if err := grpcServer.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	log.Info().Str("storage", repo.Kind()).Str("bind", viper.GetString("bind")).Msg("QuickPoll is ready.")

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	grpcServer.Stop()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
}

func setDefaults() {
	viper.SetDefault("bind", "0.0.0.0:8445")
	viper.SetDefault("grpc_bind", "0.0.0.0:7445")
	viper.SetDefault("cors_origins", "*")
	viper.SetDefault("database.prefix", "quickpoll_")
	viper.SetDefault("polls.require_complete", true)
	viper.SetDefault("polls.default_duration", "24h")
	viper.SetDefault("polls.code_length", 6)
	viper.SetDefault("polls.code_attempts", 10)
	viper.SetDefault("polls.sweep_interval", "@every 1m")
	viper.SetDefault("polls.detect_language", true)
	viper.SetDefault("realtime.send_buffer", 16)
	viper.SetDefault("realtime.ping_interval", "15s")
	viper.SetDefault("cache.results_ttl", "5m")
	viper.SetDefault("health.probe_interval", "@every 30s")
}
