package postgres

import (
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// Migrate applies all pending migrations from cfg.MigrationPath.
// It uses a separate database/sql connection via the pgx stdlib adapter
// because golang-migrate does not speak the native pgx pool.
func Migrate(cfg config.DatabaseConfig, log logging.Logger) error {
	db, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open migration connection")
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+cfg.MigrationPath, cfg.DBName, driver)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to initialize migrator")
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Info("database schema up to date")
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to apply migrations")
	}

	version, dirty, _ := m.Version()
	log.Info("database migrations applied",
		logging.Int("version", int(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}
