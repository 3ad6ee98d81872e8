// Package membership stores role assignments (app_users rows).
package membership

import (
	"context"
	"fmt"
	"time"

	"a2admin/internal/platform/datastore"
	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
)

var columns = []string{"id", "email", "role", "tenant_id", "created_at"}

// TableStore keeps role assignments in a datastore.Store.
type TableStore struct {
	ds datastore.Store
}

func NewTableStore(ds datastore.Store) *TableStore {
	return &TableStore{ds: ds}
}

// Upsert inserts the assignment or replaces the row with the same principal.
func (s *TableStore) Upsert(ctx context.Context, a *models.RoleAssignment) error {
	row := toRow(a)
	set := datastore.Row{"email": row["email"], "role": row["role"], "tenant_id": row["tenant_id"]}
	n, err := s.ds.Update(ctx, datastore.TableAppUsers, set, datastore.Eq("id", a.PrincipalID.String()))
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := s.ds.Insert(ctx, datastore.TableAppUsers, row); err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	return nil
}

func (s *TableStore) FindByPrincipal(ctx context.Context, principalID id.PrincipalID) (*models.RoleAssignment, error) {
	rows, err := s.ds.Select(ctx, datastore.TableAppUsers, columns, datastore.Eq("id", principalID.String()))
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	if len(rows) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return fromRow(rows[0])
}

func (s *TableStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.RoleAssignment, error) {
	rows, err := s.ds.Select(ctx, datastore.TableAppUsers, columns, datastore.Eq("tenant_id", tenantID.String()))
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	out := make([]*models.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		a, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *TableStore) CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error) {
	n, err := s.ds.Count(ctx, datastore.TableAppUsers, datastore.Eq("tenant_id", tenantID.String()))
	if err != nil {
		return 0, fmt.Errorf("count memberships: %w", err)
	}
	return int(n), nil
}

func toRow(a *models.RoleAssignment) datastore.Row {
	var tenantID any
	if !a.TenantID.IsNil() {
		tenantID = a.TenantID.String()
	}
	return datastore.Row{
		"id":         a.PrincipalID.String(),
		"email":      a.Email,
		"role":       string(a.Role),
		"tenant_id":  tenantID,
		"created_at": a.CreatedAt,
	}
}

// fromRow does not re-check the role invariant: a malformed row is still
// returned so callers can report it instead of treating it as missing.
func fromRow(row datastore.Row) (*models.RoleAssignment, error) {
	principalID, err := id.ParsePrincipalID(row.String("id"))
	if err != nil {
		return nil, fmt.Errorf("membership row: %w", err)
	}
	var tenantID id.TenantID
	if raw := row.String("tenant_id"); raw != "" {
		if tenantID, err = id.ParseTenantID(raw); err != nil {
			return nil, fmt.Errorf("membership row: %w", err)
		}
	}
	created, _ := row["created_at"].(time.Time)
	return &models.RoleAssignment{
		PrincipalID: principalID,
		Email:       row.String("email"),
		Role:        models.Role(row.String("role")),
		TenantID:    tenantID,
		CreatedAt:   created,
	}, nil
}
