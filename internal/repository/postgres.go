package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sumaichat/internal/model"
	"sumaichat/internal/utils"
)

// PostgresRepository handles listing database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// CountByFilters counts listings matching a filter state. The area is a
// canonical administrative path and listing addresses start with the same
// prefecture-to-town ordering, so a prefix match covers every granularity.
func (r *PostgresRepository) CountByFilters(ctx context.Context, req model.CountRequest) (int, error) {
	whereClause, args := buildCountConditions(req)

	query := fmt.Sprintf("SELECT COUNT(*) FROM listings WHERE %s", whereClause)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// buildCountConditions translates a count request into a WHERE clause and
// its positional arguments.
func buildCountConditions(req model.CountRequest) (string, []interface{}) {
	whereClauses := []string{"price IS NOT NULL AND price > 0"}
	args := []interface{}{}
	argIndex := 1

	if req.Area != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("address LIKE $%d", argIndex))
		args = append(args, req.Area+"%")
		argIndex++
	}
	if req.MinPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *req.MinPrice)
		argIndex++
	}
	if req.MaxPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *req.MaxPrice)
		argIndex++
	}
	if req.RoomType != nil {
		patterns := utils.RoomTypePatterns(*req.RoomType)
		orClauses := make([]string, 0, len(patterns))
		for _, pattern := range patterns {
			orClauses = append(orClauses, fmt.Sprintf("floor_plan ILIKE $%d", argIndex))
			args = append(args, pattern)
			argIndex++
		}
		if len(orClauses) > 0 {
			whereClauses = append(whereClauses, "("+strings.Join(orClauses, " OR ")+")")
		}
	}

	return strings.Join(whereClauses, " AND "), args
}
