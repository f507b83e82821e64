package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Preparer is the borrowed connection of an insert, satisfied by *sql.DB,
// *sql.Conn and *sql.Tx. The inserter never closes it.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// RecordInserter executes single value parameterized inserts. It holds no
// connection and is safe for concurrent use, synchronizing access to a shared
// connection is up to the caller.
type RecordInserter struct {
	dialect Dialect
	logger  *zap.Logger
}

func NewRecordInserter(dialect Dialect, logger *zap.Logger) *RecordInserter {
	if dialect == nil {
		dialect = GenericDialect{}
	}
	if logger == nil {
		logger = zlog
	}

	return &RecordInserter{
		dialect: dialect,
		logger:  logger.Named("inserter"),
	}
}

var defaultInserter = NewRecordInserter(GenericDialect{}, zap.NewNop())

// InsertValue runs `INSERT INTO <tableName> VALUES (?)` on conn with value
// bound, using the generic dialect.
func InsertValue(ctx context.Context, conn Preparer, tableName string, value int64) (int64, error) {
	return defaultInserter.InsertValue(ctx, conn, tableName, value)
}

// InsertValue validates tableName, then inserts value in it and returns the
// number of rows affected. Nothing reaches conn when the name is invalid.
func (i *RecordInserter) InsertValue(ctx context.Context, conn Preparer, tableName string, value int64) (int64, error) {
	table, err := NewTargetTable(tableName)
	if err != nil {
		InvalidIdentifierCount.Inc()
		i.logger.Debug("rejected table name", zap.String("table", tableName), zap.Error(err))
		return 0, err
	}

	return i.Insert(ctx, conn, InsertRequest{Table: table, Value: value})
}

// Insert runs the insert of an already validated table. When the dialect only
// sends rows on commit and conn can begin a transaction (*sql.DB, *sql.Conn),
// the insert runs in its own transaction which is committed before returning.
// A *sql.Tx is used as-is, committing it is the caller's job.
func (i *RecordInserter) Insert(ctx context.Context, conn Preparer, request InsertRequest) (rowsAffected int64, err error) {
	if request.Table.IsZero() {
		InvalidIdentifierCount.Inc()
		return 0, &InvalidIdentifierError{}
	}

	beginner, canBegin := conn.(TxBeginner)
	if i.dialect.RequiresCommit() && canBegin {
		rowsAffected, err = i.insertInTx(ctx, beginner, request)
	} else {
		rowsAffected, err = i.exec(ctx, conn, request)
	}
	if err != nil {
		return 0, err
	}

	InsertCount.Inc()
	return rowsAffected, nil
}

// TxBeginner is implemented by the connections able to start a transaction.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func (i *RecordInserter) insertInTx(ctx context.Context, beginner TxBeginner, request InsertRequest) (int64, error) {
	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return 0, i.failed(request.Table, "begin", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			i.logger.Warn("rolling back insert transaction", zap.Stringer("table", request.Table), zap.Error(err))
		}
	}()

	rowsAffected, err := i.exec(ctx, tx, request)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, i.failed(request.Table, "commit", err)
	}
	committed = true

	return rowsAffected, nil
}

func (i *RecordInserter) exec(ctx context.Context, conn Preparer, request InsertRequest) (rowsAffected int64, err error) {
	query := i.insertQuery(request.Table)
	if tracer.Enabled() {
		i.logger.Debug("inserting value", zap.Stringer("table", request.Table), zap.Int64("value", request.Value), zap.String("query", query))
	}

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return 0, i.failed(request.Table, "prepare", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			i.logger.Warn("closing insert statement", zap.Stringer("table", request.Table), zap.Error(closeErr))
		}
	}()

	result, err := stmt.ExecContext(ctx, request.Value)
	if err != nil {
		return 0, i.failed(request.Table, "exec", err)
	}

	if !i.dialect.DriverSupportRowsAffected() {
		return 1, nil
	}

	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return 0, i.failed(request.Table, "rows affected", err)
	}
	return rowsAffected, nil
}

func (i *RecordInserter) insertQuery(table TargetTable) string {
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, i.dialect.Placeholder(1))
}

func (i *RecordInserter) failed(table TargetTable, op string, err error) error {
	ExecutionErrorCount.Inc()
	i.logger.Debug("insert failed", zap.Stringer("table", table), zap.String("op", op), zap.Error(err))
	return &ExecutionError{Table: table.String(), Op: op, Err: err}
}
