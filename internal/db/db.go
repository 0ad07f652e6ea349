package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"

	"fleetflow/internal/domain"
)

// Queryer is satisfied by *sql.DB and *sql.Tx so repositories can run the
// same statements inside or outside a transaction.
type Queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isConnErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// Wrap classifies store errors. Connectivity failures become Unavailable so
// they are never misreported as NotFound; everything else passes through.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if isConnErr(err) {
		return domain.UnavailableError{Err: err}
	}
	return err
}
