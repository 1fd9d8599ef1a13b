package rdb

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// Classify wraps a storage failure into a *domain.StorageError. Errors that
// are already classified pass through unchanged; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.AsStorageError(err); ok {
		return err
	}
	return classify(err)
}

func classify(err error) *domain.StorageError {
	se := &domain.StorageError{Kind: domain.KindUnknown, Message: err.Error(), Err: err}

	var pgErr *pgconn.PgError
	var myErr *mysql.MySQLError
	var liteErr sqlite3.Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		se.Kind = domain.KindNotFound
		se.Code = "not_found"
		se.Message = "record not found"

	case errors.As(err, &pgErr):
		se.Kind = postgresKind(pgErr.Code)
		se.Code = pgErr.Code
		se.Message = pgErr.Message
		se.Details = details(
			"table", pgErr.TableName,
			"column", pgErr.ColumnName,
			"constraint", pgErr.ConstraintName,
			"detail", pgErr.Detail,
		)

	case errors.As(err, &myErr):
		se.Kind = mysqlKind(myErr.Number)
		se.Code = strconv.Itoa(int(myErr.Number))
		se.Message = myErr.Message

	case errors.As(err, &liteErr):
		se.Kind = sqliteKind(liteErr)
		se.Code = strconv.Itoa(int(liteErr.ExtendedCode))
		se.Message = liteErr.Error()

	case errors.Is(err, gorm.ErrDuplicatedKey):
		se.Kind = domain.KindUniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		se.Kind = domain.KindForeignKeyViolation
	case errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidValue),
		errors.Is(err, gorm.ErrInvalidValueOfLength),
		errors.Is(err, gorm.ErrPrimaryKeyRequired):
		se.Kind = domain.KindInvalidData
	}
	return se
}

// postgresKind maps SQLSTATE classes 22 (data exception) and 23 (integrity
// constraint violation) to client kinds.
func postgresKind(code string) domain.StorageErrorKind {
	switch {
	case code == "23505":
		return domain.KindUniqueViolation
	case code == "23503":
		return domain.KindForeignKeyViolation
	case strings.HasPrefix(code, "23"):
		return domain.KindConstraintViolation
	case strings.HasPrefix(code, "22"):
		return domain.KindInvalidData
	default:
		return domain.KindUnknown
	}
}

func mysqlKind(number uint16) domain.StorageErrorKind {
	switch number {
	case 1062, 1586:
		return domain.KindUniqueViolation
	case 1216, 1217, 1451, 1452:
		return domain.KindForeignKeyViolation
	case 1048, 1364, 3819:
		return domain.KindConstraintViolation
	case 1264, 1292, 1366, 1406:
		return domain.KindInvalidData
	default:
		return domain.KindUnknown
	}
}

func sqliteKind(err sqlite3.Error) domain.StorageErrorKind {
	switch err.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return domain.KindUniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return domain.KindForeignKeyViolation
	case sqlite3.ErrConstraintTrigger:
		// ON DELETE RESTRICT fires as a trigger constraint.
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return domain.KindForeignKeyViolation
		}
	}
	switch err.Code {
	case sqlite3.ErrConstraint:
		return domain.KindConstraintViolation
	case sqlite3.ErrMismatch, sqlite3.ErrTooBig, sqlite3.ErrRange:
		return domain.KindInvalidData
	default:
		return domain.KindUnknown
	}
}

func details(kv ...string) map[string]string {
	var out map[string]string
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[kv[i]] = kv[i+1]
	}
	return out
}
