package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/editionssen/bookstore/internal/config"
	"github.com/editionssen/bookstore/internal/handler"
	"github.com/editionssen/bookstore/internal/payment"
	"github.com/editionssen/bookstore/internal/storage"
	"github.com/editionssen/bookstore/internal/sweeper"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

type Server struct {
	config   config.Config
	mux      chi.Router
	server   *http.Server
	storage  storage.Storage
	sweeper  *sweeper.Sweeper
	payments *payment.Client
}

func NewServer(config config.Config, storage storage.Storage, sweeper *sweeper.Sweeper, payments *payment.Client) *Server {
	mux := chi.NewMux()

	return &Server{
		config:   config,
		mux:      mux,
		storage:  storage,
		sweeper:  sweeper,
		payments: payments,
		server: &http.Server{
			Addr:              config.Address,
			Handler:           mux,
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      5 * time.Second,
			IdleTimeout:       5 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	s.setupRoutes(handler.NewHandler(s.storage, s.sweeper, s.payments))

	zap.L().Info("starting server", zap.String("address", s.config.Address))

	if err := s.server.ListenAndServe(); err != nil {
		return fmt.Errorf("error starting server: %w", err)
	}

	return nil
}

func (s *Server) Stop() error {
	zap.L().Info("stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error stopping server: %w", err)
	}

	return nil
}
