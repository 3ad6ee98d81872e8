package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
)

// PostgresStore persists role assignments in the app_users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, a *models.RoleAssignment) error {
	query := `
		INSERT INTO app_users (id, email, role, tenant_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, role = EXCLUDED.role, tenant_id = EXCLUDED.tenant_id
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.PrincipalID),
		a.Email,
		string(a.Role),
		nullTenant(a.TenantID),
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByPrincipal(ctx context.Context, principalID id.PrincipalID) (*models.RoleAssignment, error) {
	query := `SELECT id, email, role, tenant_id, created_at FROM app_users WHERE id = $1`
	a, err := scanAssignment(s.db.QueryRowContext(ctx, query, uuid.UUID(principalID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.RoleAssignment, error) {
	query := `SELECT id, email, role, tenant_id, created_at FROM app_users WHERE tenant_id = $1 ORDER BY email`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []*models.RoleAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_users WHERE tenant_id = $1`, uuid.UUID(tenantID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count memberships: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row scanner) (*models.RoleAssignment, error) {
	var (
		a         models.RoleAssignment
		principal uuid.UUID
		tenant    uuid.NullUUID
		role      string
	)
	if err := row.Scan(&principal, &a.Email, &role, &tenant, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.PrincipalID = id.PrincipalID(principal)
	a.Role = models.Role(role)
	if tenant.Valid {
		a.TenantID = id.TenantID(tenant.UUID)
	}
	return &a, nil
}

func nullTenant(tenantID id.TenantID) uuid.NullUUID {
	if tenantID.IsNil() {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(tenantID), Valid: true}
}
