package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dcevallos/mercadillo/internal/carrito"
	"github.com/dcevallos/mercadillo/internal/config"
	"github.com/dcevallos/mercadillo/internal/db"
	"github.com/dcevallos/mercadillo/internal/handler"
	"github.com/dcevallos/mercadillo/internal/pedido"
	"github.com/dcevallos/mercadillo/internal/producto"
	"github.com/dcevallos/mercadillo/internal/sesion"
	"github.com/dcevallos/mercadillo/internal/transport"
	"github.com/dcevallos/mercadillo/internal/usuario"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "mercadillo").Logger()

	log.Info().Msg("Mercadillo backend starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dbConn, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	sqlxConn, err := db.ConnectSQLX(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open catalog database connection")
	}
	defer sqlxConn.Close()

	sesiones := sesion.NewRedisStore(cfg.Redis.Addr, cfg.Redis.SesionTTL)

	pedidos := pedido.NewService(pedido.NewRepository(dbConn.Pool))
	usuarios := usuario.NewService(usuario.NewRepository(dbConn.Pool))
	productos := producto.NewService(producto.NewPostgresRepository(sqlxConn))
	carritos := carrito.NewService(carrito.NewPostgresRepository(sqlxConn), productos, pedidos)

	router := transport.NewRouter(transport.Handlers{
		Auth:      handler.NewAuthHandler(usuarios, sesiones),
		Pedidos:   handler.NewPedidoHandler(pedidos),
		Productos: handler.NewProductoHandler(productos),
		Carrito:   handler.NewCarritoHandler(carritos),
		Sesiones:  sesiones,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
