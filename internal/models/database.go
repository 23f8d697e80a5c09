package models

import (
	"context"
	"regexp"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/releasarr/releasarr/internal/errors"
)

var dsnCredentials = regexp.MustCompile(`:[^:@/]+@`)

// RedactDSN strips the password from a connection string so it can be
// logged or attached to errors.
func RedactDSN(dsn string) string {
	return dsnCredentials.ReplaceAllString(dsn, ":***@")
}

// Database wraps the gorm connection pool for the games store.
// The service never creates or migrates the production schema.
type Database struct {
	db  *gorm.DB
	dsn string
}

// NewDatabase opens a connection pool and verifies it with a ping.
func NewDatabase(dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("open", err, RedactDSN(dsn))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperrors.NewDatabaseError("open", err, RedactDSN(dsn))
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(20 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, apperrors.NewDatabaseError("ping", err, RedactDSN(dsn))
	}

	return &Database{db: db, dsn: dsn}, nil
}

// DB exposes the underlying gorm handle for repositories.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Ping verifies the pool is still reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return apperrors.NewDatabaseError("ping", err, RedactDSN(d.dsn))
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
