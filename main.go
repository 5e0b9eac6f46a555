package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Plantroom/internal/auth"
	"Plantroom/internal/calc/drainage"
	"Plantroom/internal/calc/expansion"
	"Plantroom/internal/calc/heating"
	"Plantroom/internal/calc/hydraulics"
	"Plantroom/internal/calc/psychro"
	"Plantroom/internal/calc/report"
	"Plantroom/internal/calc/units"
	"Plantroom/internal/calc/ventilation"
	"Plantroom/internal/config"
	"Plantroom/internal/fluids"
	"Plantroom/internal/metrics"
	"Plantroom/internal/refdata"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"engineer": auth.Login(r.Context()),
			"took":     time.Since(start),
		}).Debug("request")
	})
}

func HandleList(mux *mux.Router, cfg *config.Config, ref *refdata.Set, m *metrics.Metrics) error {
	engineers, err := auth.ParseEngineers(cfg.Engineers)
	if err != nil {
		return err
	}
	if len(engineers) == 0 && !cfg.AuthDisabled {
		log.Warn("no engineers configured, every login will be refused")
	}
	table, err := fluids.NewTable(ref.Fluids)
	if err != nil {
		return err
	}

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Engineers: engineers, Disabled: cfg.AuthDisabled}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	mux.Use(m.Middleware)
	mux.Handle("/metrics", m.Handler()).Methods("GET")
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")

	secureApi := api.NewRoute().Subrouter()
	secureApi.Use(authEnv.AuthMiddleware, logRequests)

	secureApi.HandleFunc("/refdata", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ref)
	}).Methods("GET")

	heatingH := &heating.Handler{Fluids: table}
	reportH := &report.Handler{}
	expansionH := &expansion.Handler{Ref: ref}
	drainageH := &drainage.Handler{Ref: ref}
	pipesH := &hydraulics.Handler{Sizer: &hydraulics.Sizer{Ref: ref, Fluids: table}}
	unitsH := &units.Handler{Conv: units.NewConverter(ref)}
	ventH := &ventilation.Handler{Ducts: &ventilation.DuctSizer{Fluids: table}}
	psychroH := &psychro.Handler{}

	tools := secureApi.PathPrefix("/tools").Subrouter()
	tools.HandleFunc("/calorifier", heatingH.Calc).Methods("POST")
	tools.HandleFunc("/calorifier/pdf", reportH.Calorifier).Methods("POST")
	tools.HandleFunc("/heat-transfer", heatingH.Transfer).Methods("POST")
	tools.HandleFunc("/expansion-vessel", expansionH.Calc).Methods("POST")

	tools.HandleFunc("/stack", drainageH.Stack).Methods("POST")
	tools.HandleFunc("/gradient", drainageH.Gradient).Methods("POST")
	tools.HandleFunc("/pipe-volume", drainageH.PipeVolume).Methods("POST")
	tools.HandleFunc("/pipe-volume/import", drainageH.ImportPipeRun).Methods("POST")
	tools.HandleFunc("/pipe-volume/export", drainageH.ExportPipeRun).Methods("POST")

	tools.HandleFunc("/pipes", pipesH.Calc).Methods("POST")
	tools.HandleFunc("/pipes/materials", pipesH.Materials).Methods("GET")
	tools.HandleFunc("/pipes/schedule/import", pipesH.ImportSchedule).Methods("POST")
	tools.HandleFunc("/pipes/schedule/export", pipesH.ExportSchedule).Methods("POST")

	tools.HandleFunc("/units", unitsH.Calc).Methods("POST")
	tools.HandleFunc("/units/list", unitsH.Units).Methods("GET")

	tools.HandleFunc("/air-changes", ventH.AirChanges).Methods("POST")
	tools.HandleFunc("/duct", ventH.Duct).Methods("POST")
	tools.HandleFunc("/louvre", ventH.Louvre).Methods("POST")

	tools.HandleFunc("/psychro/point", psychroH.Point).Methods("POST")
	return nil
}

func main() {
	fs := config.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatal(err)
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}
	ref, err := refdata.Load(cfg.RefdataDir)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mux := mux.NewRouter()
	if err := HandleList(mux, cfg, ref, metrics.New()); err != nil {
		log.Fatal(err)
	}
	if cfg.AuthDisabled {
		log.Warn("authentication disabled")
	}
	log.WithField("addr", cfg.Addr).Info("Starting server")

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: CORS(mux),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, closing active connections")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped")

	wg.Wait()
}
