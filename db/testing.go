package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
)

// TestDriver is an in-memory database/sql driver recording what the inserter
// does with the connection. Failures are injected through the *Err fields.
//
// With BatchUntilCommit set, executed values only become rows once the
// transaction they ran in is committed, values executed outside of a
// transaction are dropped. This is how the ClickHouse std driver behaves.
type TestDriver struct {
	PrepareErr       error
	ExecErr          error
	RowsAffectedErr  error
	CloseStmtErr     error
	BeginErr         error
	CommitErr        error
	RowsAffected     int64
	BatchUntilCommit bool

	mu          sync.Mutex
	queries     []string
	args        [][]driver.Value
	rows        []driver.Value
	prepared    int
	closedStmts int
	closedConns int
	commits     int
	rollbacks   int
}

func NewTestDriver() *TestDriver {
	return &TestDriver{RowsAffected: 1}
}

// OpenDB returns a pool backed by this driver. It is owned by the test.
func (d *TestDriver) OpenDB() *sql.DB {
	return sql.OpenDB(testConnector{driver: d})
}

func (d *TestDriver) Queries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.queries...)
}

func (d *TestDriver) Args() [][]driver.Value {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]driver.Value(nil), d.args...)
}

// Rows are the values persisted so far.
func (d *TestDriver) Rows() []driver.Value {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]driver.Value(nil), d.rows...)
}

func (d *TestDriver) Commits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commits
}

func (d *TestDriver) Rollbacks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rollbacks
}

func (d *TestDriver) PreparedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prepared
}

// OpenStatements is the number of prepared statements not closed yet.
func (d *TestDriver) OpenStatements() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prepared - d.closedStmts
}

func (d *TestDriver) ClosedConnections() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closedConns
}

type testConnector struct {
	driver *TestDriver
}

func (c testConnector) Connect(context.Context) (driver.Conn, error) {
	return &testConn{driver: c.driver}, nil
}

func (c testConnector) Driver() driver.Driver {
	return testDriverAdapter{c.driver}
}

type testDriverAdapter struct {
	driver *TestDriver
}

func (a testDriverAdapter) Open(string) (driver.Conn, error) {
	return &testConn{driver: a.driver}, nil
}

type testConn struct {
	driver *TestDriver
	tx     *testTx
}

func (c *testConn) Prepare(query string) (driver.Stmt, error) {
	d := c.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	d.queries = append(d.queries, query)
	if d.PrepareErr != nil {
		return nil, d.PrepareErr
	}
	d.prepared++

	return &testStmt{driver: d, conn: c}, nil
}

func (c *testConn) Close() error {
	c.driver.mu.Lock()
	defer c.driver.mu.Unlock()
	c.driver.closedConns++
	return nil
}

func (c *testConn) Begin() (driver.Tx, error) {
	d := c.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.BeginErr != nil {
		return nil, d.BeginErr
	}
	c.tx = &testTx{conn: c}
	return c.tx, nil
}

type testTx struct {
	conn    *testConn
	pending []driver.Value
}

func (t *testTx) Commit() error {
	d := t.conn.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	t.conn.tx = nil
	if d.CommitErr != nil {
		return d.CommitErr
	}
	d.commits++
	d.rows = append(d.rows, t.pending...)
	return nil
}

func (t *testTx) Rollback() error {
	d := t.conn.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	t.conn.tx = nil
	d.rollbacks++
	return nil
}

type testStmt struct {
	driver *TestDriver
	conn   *testConn
	closed bool
}

func (s *testStmt) Close() error {
	d := s.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	if !s.closed {
		s.closed = true
		d.closedStmts++
	}
	return d.CloseStmtErr
}

func (s *testStmt) NumInput() int {
	return -1
}

func (s *testStmt) Exec(args []driver.Value) (driver.Result, error) {
	d := s.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	d.args = append(d.args, args)
	if d.ExecErr != nil {
		return nil, d.ExecErr
	}

	switch {
	case s.conn.tx != nil:
		s.conn.tx.pending = append(s.conn.tx.pending, args...)
	case !d.BatchUntilCommit:
		d.rows = append(d.rows, args...)
	}

	return testResult{rowsAffected: d.RowsAffected, err: d.RowsAffectedErr}, nil
}

func (s *testStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("test driver does not support queries")
}

type testResult struct {
	rowsAffected int64
	err          error
}

func (r testResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (r testResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.err
}
