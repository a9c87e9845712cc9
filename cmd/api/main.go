package main

import (
	"net/http"
	"os"
	"time"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/platform/logger"
	"github.com/LuizzSiqueira/harmony-pets-system/internal/router"
)

func main() {
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: logger.ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    "harmony-pets",
	})

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{Log: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("servidor no ar", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("erro no servidor", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
