package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/streamingfast/logging"
	"go.uber.org/zap"
)

var zlog, tracer = logging.PackageLogger("db", "github.com/streamingfast/record-inserter/db")

// Database is the connection-owning side of the inserter: it opens the pool
// from a DSN, picks the dialect from the driver and is the only one allowed to
// close it.
type Database struct {
	*sql.DB

	dsn     *DSN
	dialect Dialect
	logger  *zap.Logger
}

func Open(ctx context.Context, dsn *DSN, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zlog
	}

	sqlDB, err := sql.Open(dsn.Driver(), dsn.ConnString())
	if err != nil {
		return nil, fmt.Errorf("open db connection: %w", err)
	}

	dialect, err := DialectForDriver(sqlDB.Driver())
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("get dialect: %w", err)
	}

	if reachable, err := isDatabaseReachable(ctx, sqlDB); !reachable {
		sqlDB.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}

	logger.Info("opened database",
		zap.String("driver", dsn.Driver()),
		zap.String("database", dsn.Database()),
		zap.String("schema", dsn.Schema()),
		zap.String("user", dsn.Username()),
		zap.Stringer("password", obfuscatedString(dsn.password)),
		zap.String("host", dsn.Host()),
		zap.Int64("port", dsn.Port()),
		zap.String("dialect", dialect.Name()),
	)

	return &Database{
		DB:      sqlDB,
		dsn:     dsn,
		dialect: dialect,
		logger:  logger,
	}, nil
}

func (d *Database) Dialect() Dialect {
	return d.dialect
}

func (d *Database) Schema() string {
	return d.dsn.Schema()
}

// GetIdentifier returns <database>/<schema> suitable for user presentation
func (d *Database) GetIdentifier() string {
	return fmt.Sprintf("%s/%s", d.dsn.Database(), d.dsn.Schema())
}

// NewInserter returns a RecordInserter speaking this database's dialect.
func (d *Database) NewInserter() *RecordInserter {
	return NewRecordInserter(d.dialect, d.logger)
}

// InsertValue inserts value in tableName using the pool as the connection.
func (d *Database) InsertValue(ctx context.Context, tableName string, value int64) (int64, error) {
	return d.NewInserter().InsertValue(ctx, d.DB, tableName, value)
}

func isDatabaseReachable(ctx context.Context, db *sql.DB) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	err := db.PingContext(ctx)
	if err != nil {
		return false, err
	}
	return true, nil
}

type obfuscatedString string

func (s obfuscatedString) String() string {
	if len(s) == 0 {
		return "<unset>"
	}

	return "********"
}
