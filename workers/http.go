package workers

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TokenIQ-X/tokeniq-relay/config"
	"github.com/TokenIQ-X/tokeniq-relay/relay"
	"github.com/TokenIQ-X/tokeniq-relay/workers/handlers"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Worker_HTTP(rl *relay.Relay) {
	log.Printf("Starting HTTP service")

	handlers.Init(rl)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Options("/*", CORSHeaders)

	r.Get("/state", handlers.State)
	r.Handle("/metrics", promhttp.Handler())

	// outbound dispatch
	r.Post("/send", handlers.Send)
	// the transport's single inbound callback entry point
	r.Post("/deliver", handlers.Deliver)
	// shared fee reserve top-up
	r.Post("/fund", handlers.FundReserve)

	// read-only observability
	r.Get("/received/last", handlers.LastReceived)
	r.Get("/processed/{id}", handlers.Processed)
	r.Get("/allowlist/{set}/{member}", handlers.AllowlistMember)
	r.Get("/balance/{asset}", handlers.CustodyBalance)
	r.Get("/events", handlers.Events)

	// admin surface, gated by the X-Admin-Key capability header
	r.Post("/admin/allowlist/{set}", handlers.SetAllowlist)
	r.Post("/admin/feeasset", handlers.SetFeeAsset)
	r.Post("/admin/transport", handlers.SetTransport)
	r.Post("/admin/withdraw", handlers.Withdraw)

	var server *http.Server

	if config.Config.Server.UseSSL {
		cert, _ := tls.LoadX509KeyPair("certchain.pem", "privatekey.pem")
		server = &http.Server{
			Addr:    ":443",
			Handler: r,
			TLSConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			},
		}
	} else {
		server = &http.Server{
			Addr:    fmt.Sprintf(":%d", config.Config.Server.Port),
			Handler: r,
		}
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if config.Config.Server.UseSSL {
			if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
				log.Fatalf("error listening to: %s", err)
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("error listening to: %s", err)
			}
		}
	}()
	log.Print("HTTP service started")

	<-done
	log.Print("HTTP service stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP service shutdown error: %+v", err)
	}
	log.Print("HTTP service shutdown normal")
}

func CORSHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Origin, X-Requested-With, X-Admin-Key")
}
