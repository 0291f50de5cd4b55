package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"freight-tracking-service/internal/adapters/cache"
	"freight-tracking-service/internal/adapters/events"
	"freight-tracking-service/internal/adapters/filestore"
	"freight-tracking-service/internal/adapters/repositories"
	"freight-tracking-service/internal/api"
	"freight-tracking-service/internal/api/live"
	"freight-tracking-service/internal/config"
	"freight-tracking-service/internal/platform/db"
)

// main is the application composition root. It wires concrete adapters
// (Postgres, Redis, AMQP, disk storage) behind ports and starts the HTTP
// server. Redis and AMQP are optional; leaving them unconfigured disables
// the status cache and the status-update publisher.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(getEnvDefault("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	if err := repositories.InitSchema(database); err != nil {
		log.Fatal(err)
	}

	deps := api.Deps{
		Locations: repositories.NewPostgresLocationRepository(database),
		Carriers:  repositories.NewPostgresCarrierRepository(database),
		Contacts:  repositories.NewPostgresContactRepository(database),
		Drivers:   repositories.NewPostgresDriverRepository(database),
		Vehicles:  repositories.NewPostgresVehicleRepository(database),
		Assets:    repositories.NewPostgresAssetRepository(database),
		Shipments: repositories.NewPostgresShipmentRepository(database),
		Tracking:  repositories.NewPostgresTrackingRepository(database),
		Files:     filestore.NewDiskStore(cfg.AttachmentDir),
		Hub:       live.NewHub(),
	}

	annotations := repositories.NewPostgresAnnotationRepository(database)
	deps.Notes = annotations
	deps.Attachments = annotations
	deps.Checker = annotations

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		deps.Cache = cache.NewRedisStatusCache(client, cfg.StatusTTL)
		log.Printf("status cache enabled addr=%s ttl=%s", cfg.RedisAddr, cfg.StatusTTL)
	}

	if cfg.AMQPURL != "" {
		pub, err := events.NewAMQPStatusPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pub.Close()
		deps.Publisher = pub
		log.Println("status publisher enabled")
	}

	router := api.NewRouter(deps)

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
