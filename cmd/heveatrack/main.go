package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lakmal/heveatrack/internal/api"
	"github.com/lakmal/heveatrack/internal/ingest"
	"github.com/lakmal/heveatrack/internal/satellite"
	"github.com/lakmal/heveatrack/internal/store"
)

var cli struct {
	DB           string        `name:"db" default:"data/heveatrack.db" env:"HEVEATRACK_DB" help:"Path to SQLite database."`
	Port         string        `name:"port" default:"8080" env:"PORT" help:"HTTP server port."`
	PollInterval time.Duration `name:"poll-interval" default:"24h" env:"POLL_INTERVAL" help:"Interval between satellite analysis sweeps."`
	FeedURL      string        `name:"feed-url" env:"SATELLITE_FEED_URL" help:"Satellite analysis feed base URL. Empty means simulated readings."`
	FeedAPIKey   string        `name:"feed-api-key" env:"SATELLITE_API_KEY" help:"API key for the satellite analysis feed."`
	NoPoll       bool          `name:"no-poll" help:"Disable the analysis scheduler (server only, for local dev)."`
	Seed         bool          `name:"seed" help:"Seed demo plantation data into an empty database."`
	AnalyzeOnce  bool          `name:"analyze-once" help:"Analyze every block once and exit."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("heveatrack"),
		kong.Description("Rubber plantation operations tracker and yield-forecast engine."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if cli.Seed {
		if err := st.Seed(rng, time.Now()); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Println("demo data seeded")
	}

	var analyzer satellite.Analyzer
	if cli.FeedURL != "" {
		analyzer = satellite.NewClient(cli.FeedURL, cli.FeedAPIKey)
		log.Printf("using satellite feed at %s", cli.FeedURL)
	} else {
		analyzer = satellite.NewSimulator(rng)
		log.Println("no satellite feed configured, using simulated readings")
	}

	scheduler := ingest.NewScheduler(st, analyzer, cli.PollInterval)

	if cli.AnalyzeOnce {
		log.Println("running single analysis sweep")
		scheduler.AnalyzeAll()
		log.Println("done")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !cli.NoPoll {
		go scheduler.Run(ctx)
	} else {
		log.Println("analysis scheduler disabled (--no-poll)")
	}

	server := api.NewServer(st, analyzer, cli.Port)
	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
