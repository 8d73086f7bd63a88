package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const poolStatsInterval = 10 * time.Second

// Collector интерфейс сборщика метрик БД.
// Реализуется pkg/metrics, определен здесь чтобы не тянуть зависимость.
type Collector interface {
	ObserveDBQuery(service, operation string, err error, duration time.Duration)
	SetDBPoolStats(service string, stats sql.DBStats)
}

// DBExecutor общий интерфейс исполнителя запросов.
// Ему удовлетворяют и обертка над *sql.DB, и транзакция,
// поэтому репозитории работают одинаково внутри и вне транзакций.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor исполнитель запросов внутри транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// DB обертка над *sql.DB с записью метрик по каждому запросу
type DB struct {
	db        *sql.DB
	collector Collector
	service   string
}

// Wrap оборачивает *sql.DB без сбора метрик
func Wrap(db *sql.DB) *DB {
	return &DB{db: db}
}

// WrapWithDefault оборачивает *sql.DB со сбором метрик запросов
// и запускает фоновую публикацию статистики connection pool.
// Горутина останавливается при закрытии stopCh.
func WrapWithDefault(db *sql.DB, collector Collector, serviceName string, stopCh <-chan struct{}) *DB {
	wrapped := &DB{db: db, collector: collector, service: serviceName}

	go func() {
		ticker := time.NewTicker(poolStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				collector.SetDBPoolStats(serviceName, db.Stats())
			case <-stopCh:
				return
			}
		}
	}()

	return wrapped
}

func (d *DB) observe(operation string, err error, start time.Time) {
	if d.collector == nil {
		return
	}
	d.collector.ObserveDBQuery(d.service, operation, err, time.Since(start))
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(operationFromQuery(query), err, start)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(operationFromQuery(query), err, start)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(operationFromQuery(query), nil, start)
	return row
}

// BeginTx открывает транзакцию, запросы внутри нее тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, opts)
	d.observe("BEGIN", err, start)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, parent: d}, nil
}

// Ping проверяет соединение с БД
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Tx транзакция с записью метрик по каждому запросу
type Tx struct {
	tx     *sql.Tx
	parent *DB
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.parent.observe(operationFromQuery(query), err, start)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.parent.observe(operationFromQuery(query), err, start)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.parent.observe(operationFromQuery(query), nil, start)
	return row
}

func (t *Tx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.parent.observe("COMMIT", err, start)
	return err
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// operationFromQuery извлекает тип операции (SELECT, INSERT, ...) для label метрики
func operationFromQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(fields[0])
}

type ctxKey int

const txCtxKey ctxKey = iota

// WithTransaction кладет транзакцию в контекст.
// Используется менеджером транзакций, репозитории достают ее через GetExecutor.
func WithTransaction(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txCtxKey, tx)
}

// GetExecutor возвращает исполнителя запросов: транзакцию из контекста,
// если она там есть, иначе переданный по умолчанию
func GetExecutor(ctx context.Context, def DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txCtxKey).(TxExecutor); ok {
		return tx
	}
	return def
}

// IsInTransaction сообщает, выполняется ли контекст внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey).(TxExecutor)
	return ok
}
