package main

import (
	"net/http"
	"os"

	"github.com/edvin/cms/internal/config"
	"github.com/edvin/cms/internal/gateway"
	"github.com/edvin/cms/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	router, err := gateway.NewRouter(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build router")
	}

	logger.Info().
		Str("listen_addr", cfg.ListenAddr).
		Str("api_url", cfg.APIBaseURL).
		Str("static_dir", cfg.StaticDir).
		Msg("admin UI gateway starting")

	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
