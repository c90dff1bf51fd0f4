package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/sqldb"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/util"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var listingColumns = []string{
	"country", "country_code", "room_type", "property_type", "host_name",
	"price", "availability_365", "review_scores",
}

// SQLListingRepository reads and writes listings in a Postgres or SQLite table.
type SQLListingRepository struct {
	db     *sql.DB
	driver string
	table  string
}

// NewSQLListingRepository binds a repository to one table. The table name is interpolated
// into statements, so it must be a plain identifier.
func NewSQLListingRepository(db *sql.DB, driver, table string) (*SQLListingRepository, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLListingRepository{db: db, driver: driver, table: table}, nil
}

// CreateTable creates the listings table if it doesn't exist.
func (r *SQLListingRepository) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id               BIGINT PRIMARY KEY,
		country          TEXT,
		country_code     TEXT,
		room_type        TEXT,
		property_type    TEXT,
		host_name        TEXT,
		price            DOUBLE PRECISION,
		availability_365 INTEGER,
		review_scores    DOUBLE PRECISION
	)`, r.table)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

// FetchAll loads every listing ordered by id. NULL columns become missing values.
func (r *SQLListingRepository) FetchAll(ctx context.Context) ([]model.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(listingColumns, ", "), r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var result []model.Listing
	for rows.Next() {
		var (
			country, code, roomType, propertyType, host sql.NullString
			price, reviews                              sql.NullFloat64
			availability                                sql.NullInt64
		)
		if err := rows.Scan(&country, &code, &roomType, &propertyType, &host, &price, &availability, &reviews); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		l := model.Listing{
			Country:      country.String,
			CountryCode:  code.String,
			RoomType:     roomType.String,
			PropertyType: propertyType.String,
			HostName:     host.String,
		}
		if price.Valid {
			v := price.Float64
			l.Price = &v
		}
		if availability.Valid {
			v := int(availability.Int64)
			l.Availability365 = &v
		}
		if reviews.Valid {
			v := reviews.Float64
			l.ReviewScores = &v
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return result, nil
}

// ReplaceAll swaps the table contents for listings in a single transaction.
// Row ids follow slice order.
func (r *SQLListingRepository) ReplaceAll(ctx context.Context, listings []model.Listing) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", r.table)); err != nil {
		return fmt.Errorf("clear %s: %w", r.table, err)
	}

	cols := append([]string{"id"}, listingColumns...)
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table, strings.Join(cols, ", "), r.placeholders(len(cols)))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range listings {
		_, err = stmt.ExecContext(ctx, i,
			nullString(l.Country), nullString(l.CountryCode), nullString(l.RoomType),
			nullString(l.PropertyType), nullString(l.HostName),
			nullFloat(l.Price), nullInt(l.Availability365), nullFloat(l.ReviewScores))
		if err != nil {
			return fmt.Errorf("insert listing %d: %w", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of rows in the table.
func (r *SQLListingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}

func (r *SQLListingRepository) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		if r.driver == sqldb.DriverPostgres {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: !util.IsMissing(s)}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
