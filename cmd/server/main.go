package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-auth-service/product"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	app, err := buildApp(cfg, db)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	waitExitSignal()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func buildApp(cfg *Config, db *bun.DB) (*fiber.App, error) {
	logger := appLogger{}

	repos := auth.NewRepositoryManager(db)
	repos.MustValidate()

	auther := auth.NewAuthenticator(repos.Users(), cfg).WithLogger(logger)

	app := fiber.New(fiber.Config{
		AppName:               "go-auth-service",
		DisableStartupMessage: false,
	})

	auth.RegisterAuthRoutes(app, auth.NewAuthController(auther, auth.WithControllerLogger(logger)))

	protect := auth.GuardFactory(auth.GuardConfig{
		TokenService: auther.TokenService(),
		Policy:       auth.DefaultPolicy(),
		ContextKey:   cfg.GetContextKey(),
		AuthScheme:   cfg.GetAuthScheme(),
		Logger:       logger,
	}, product.Resource)

	products := product.NewController(product.NewRepository(db), logger)
	product.RegisterRoutes(app, products, protect)

	return app, nil
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*auth.User)(nil),
		(*product.Product)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func waitExitSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}

// appLogger adapts the process log to the auth.Logger interface
type appLogger struct{}

func (appLogger) Debug(format string, args ...any) { logWith("DBG", format, args...) }
func (appLogger) Info(format string, args ...any)  { logWith("INF", format, args...) }
func (appLogger) Warn(format string, args ...any)  { logWith("WRN", format, args...) }
func (appLogger) Error(format string, args ...any) { logWith("ERR", format, args...) }

func logWith(level, format string, args ...any) {
	out := make([]any, 0, len(args)+2)
	out = append(out, "["+level+"]", format)
	out = append(out, args...)
	log.Println(out...)
}
