package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/surf-tools/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// migrateHint is appended to diagnostics that a schema migration fixes.
const migrateHint = " (run `surfctl migrate`)"

// ErrCode reports the Code carried by err, or Other.
//
// Raw *pgconn.PgError values are mapped on the fly so callers do not
// need to convert first. An upstream *errs.StatusError is mapped through
// its Code, which PostgREST fills with the SQLSTATE.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	var statusErr *errs.StatusError
	if errors.As(err, &statusErr) {
		return MapCode(statusErr.Code)
	}
	return Other
}

// ConvertPgError converts a raw PostgreSQL error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Diagnose explains a failed read or write in operator terms, or returns
// "" when err is not a database error it recognizes.
//
//	break_id FK violation   -> "The referenced Break does not exist"
//	missing conflict target -> "No unique constraint matches the upsert conflict columns (run `surfctl migrate`)"
func Diagnose(err error) string {
	sqlErr := describeError(err)
	if sqlErr == nil {
		return ""
	}

	switch sqlErr.Code {
	case ForeignKeyViolation, UniqueViolation, NotNullViolation, CheckViolation:
		return formatUserFriendlyMessage(sqlErr)
	case InvalidConflictSpec:
		return "No unique constraint matches the upsert conflict columns" + migrateHint
	case UndefinedTable:
		return "The table does not exist" + migrateHint
	case UndefinedColumn:
		return "The table is missing a column" + migrateHint
	case InsufficientPriv:
		if sqlErr.TableName != "" {
			return fmt.Sprintf("The database role may not write to %s", sqlErr.TableName)
		}
		return "The database role lacks the required privileges"
	case ConnectionFailure:
		return "The database connection was lost"
	default:
		return ""
	}
}

// describeError normalizes err into an *Error, or nil when it carries no SQLSTATE.
func describeError(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}
	var statusErr *errs.StatusError
	if errors.As(err, &statusErr) && MapCode(statusErr.Code) != Other {
		return &Error{
			Code:         MapCode(statusErr.Code),
			Severity:     SeverityError,
			DatabaseCode: statusErr.Code,
			Message:      statusErr.Body,
			driverErr:    statusErr,
		}
	}
	return nil
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)
	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)
	case CheckViolation:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"
	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers an "_id" column ("break_id" -> "Break"), then the
// singular table name, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a database error into an *errs.HTTPError.
//
// The server only reads, so the cases are few:
//   - *errs.HTTPError passes through unchanged
//   - pgx.ErrNoRows / sql.ErrNoRows become 404s
//   - everything else becomes a generic 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
