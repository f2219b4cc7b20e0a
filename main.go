package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cameroncuttingedge/chess_relay/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const releaseVersion = "0.1.0"

func main() {
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func run(cfg *Config) error {
	InitializeLogger(cfg.logFile)
	log.Info().Msg("Starting App")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.Start(ctx, api.Options{
		Addr:           cfg.addr(),
		TLSCert:        cfg.tlsCert,
		TLSKey:         cfg.tlsKey,
		AllowedOrigins: cfg.allowedOrigins,
	})
}

func InitializeLogger(logFile string) {
	if logFile == "" {
		log.Logger = log.Output(os.Stdout)
	} else {
		runLogFile, err := os.OpenFile(
			logFile,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0664,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}
		multi := zerolog.MultiLevelWriter(runLogFile, os.Stdout)
		log.Logger = zerolog.New(multi).With().Timestamp().Logger()
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
