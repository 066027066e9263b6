// Command migrate applies the database schema and seeds the fixed
// account allow-list. Seeding is idempotent; running it against a
// populated database is a no-op.
package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/go-kit/kit/log"
	_ "github.com/lib/pq"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	gallery "github.com/naszahistoria/gallery"
	"github.com/naszahistoria/gallery/internal/pg"
)

func main() {
	var err error

	var logger log.Logger
	{
		logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	}

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	{
		fs.String("pg.conn-string", "", "Postgres connection string")
		fs.Bool("seed.photos", false, "Seed the starter photo catalog")

		err = fs.Parse(os.Args[1:])
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		if err != nil {
			logger.Log("message", "failed to parse cli flags", "error", err, "source", "cmd/migrate")
			os.Exit(1)
		}
	}
	if err = viper.BindPFlags(fs); err != nil {
		logger.Log("message", "failed to load cli flags", "error", err, "source", "cmd/migrate")
		os.Exit(1)
	}

	var pgDB *sql.DB
	{
		pgDB, err = sql.Open("postgres", viper.GetString("pg.conn-string"))
		if err != nil {
			logger.Log("message", "postgres connection failed", "error", err, "source", "cmd/migrate")
			os.Exit(1)
		}
		if err = pgDB.Ping(); err != nil {
			logger.Log("message", "postgres did not respond", "error", err, "source", "cmd/migrate")
			os.Exit(1)
		}
		defer pgDB.Close()
	}

	if _, err = pgDB.Exec(gallery.Schema); err != nil {
		logger.Log("message", "failed to apply schema", "error", err, "source", "cmd/migrate")
		os.Exit(1)
	}
	logger.Log("message", "schema applied", "source", "cmd/migrate")

	repoMngr := pg.NewClient(
		pg.WithLogger(logger),
		pg.WithDB(pgDB),
	)

	ctx := context.Background()
	for _, username := range gallery.AllowedUsers {
		user, err := repoMngr.User().Upsert(ctx, username)
		if err != nil {
			logger.Log(
				"message", "failed to seed user",
				"username", username,
				"error", err,
				"source", "cmd/migrate",
			)
			os.Exit(1)
		}
		logger.Log("message", "user seeded", "username", user.Username, "source", "cmd/migrate")
	}

	if viper.GetBool("seed.photos") {
		count, err := repoMngr.Photo().Count(ctx)
		if err != nil {
			logger.Log("message", "failed to count photos", "error", err, "source", "cmd/migrate")
			os.Exit(1)
		}
		if count > 0 {
			logger.Log("message", "photos already seeded, skipping", "source", "cmd/migrate")
			return
		}

		for _, photo := range seedPhotos {
			p := photo
			if err = repoMngr.Photo().Create(ctx, &p); err != nil {
				logger.Log("message", "failed to seed photo", "error", err, "source", "cmd/migrate")
				os.Exit(1)
			}
		}
		logger.Log("message", "photos seeded", "count", len(seedPhotos), "source", "cmd/migrate")
	}
}

// seedPhotos is the starter catalog for a fresh deployment.
var seedPhotos = []gallery.Photo{
	{
		Src:     "/photos/polaroid-pierwsza-randka.jpeg",
		Date:    "25 sierpnia 2023",
		Message: "Tu wszystko się zaczęło...",
		Section: "polaroid",
	},
	{
		Src:     "/photos/polaroid-nad-morzem.jpeg",
		Date:    "14 lipca 2024",
		Message: "Nasz pierwszy wspólny wyjazd <3",
		Section: "polaroid",
	},
	{
		Src:     "/photos/film-pierwsza-klatka.jpeg",
		Date:    "3 maja 2025",
		Message: "Pierwsza klatka z analoga",
		Section: "film",
	},
}
