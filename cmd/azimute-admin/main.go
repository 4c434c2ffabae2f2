// Command azimute-admin runs operator tasks against the Azimute database:
// schema migration, spreadsheet imports and password resets.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"azimute/internal/app"
	"azimute/internal/config"
	"azimute/internal/database/migration"
	"azimute/internal/logging"
)

func main() {
	cfg := config.Load()
	log, err := logging.New(cfg.Log, cfg.Location())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	root := newRootCmd(liveLoader(cfg, log))
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// liveLoader connects to the configured database and object storage.
func liveLoader(cfg *config.AppConfig, log *zap.Logger) loader {
	return func(ctx context.Context, needStorage bool) (*deps, error) {
		a, err := app.New(ctx, cfg, log, app.Options{SkipStorage: !needStorage})
		if err != nil {
			return nil, err
		}
		return &deps{
			accounts: a.Services.Accounts,
			imports:  a.Services.Imports,
			migrate: func(ctx context.Context) error {
				return migration.EnsureMigrated(ctx, a.DB, log, cfg.Database.Host)
			},
			close: a.Close,
		}, nil
	}
}
