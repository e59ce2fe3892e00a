package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpadp "debtsify-backend/internal/adapter/http"
	idemp "debtsify-backend/internal/adapter/middleware"
	"debtsify-backend/internal/adapter/repository/gormrepo"
	"debtsify-backend/internal/config"
	"debtsify-backend/internal/infrastructure/cache"
	"debtsify-backend/internal/infrastructure/db"
	instuc "debtsify-backend/internal/usecase/installment"
	ledgeruc "debtsify-backend/internal/usecase/ledger"
	loanuc "debtsify-backend/internal/usecase/loan"
	"debtsify-backend/internal/usecase/payment"
	"debtsify-backend/internal/usecase/report"
	"debtsify-backend/pkg/clock"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(cfg.LogLevel)

	gdb, err := openDB(cfg, log)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.DBDriver).Fatal("database unavailable")
	}
	if cfg.AutoMigrate {
		if err := gormrepo.Migrate(gdb); err != nil {
			log.WithError(err).Fatal("migrate")
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("database handle")
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Fatal("redis unavailable")
	}
	defer rdb.Close()

	// wiring
	c := clock.System{}
	tx := gormrepo.NewGormUoW(gdb)
	loans := gormrepo.NewLoanRepository(gdb)
	items := instuc.NewUsecase(loans, gormrepo.NewInstallmentRepository(gdb), c)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(requestLogger(log), middleware.Recover())

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:       httpadp.NewHandler(sqlDB.PingContext),
		Loans:        httpadp.NewLoanHandler(loanuc.NewUsecase(loans, tx, c, log), items),
		Installments: httpadp.NewInstallmentHandler(items, payment.NewUsecase(tx, c, log)),
		Ledger: httpadp.NewLedgerHandler(
			ledgeruc.NewUsecase(gormrepo.NewLedgerRepository(gdb), c, log),
			report.NewUsecase(tx, log),
		),
	}, idemp.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("bye")
}

func openDB(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return db.OpenSQLite(cfg.SQLitePath, log)
	}
	return db.OpenGorm(cfg.MySQLDSN(), log)
}

// requestLogger writes one structured line per request.
func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
			})
			switch {
			case v.Error != nil:
				entry.WithError(v.Error).Error("request failed")
			case v.Status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}
