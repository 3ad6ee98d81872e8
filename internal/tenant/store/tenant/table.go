package tenant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"a2admin/internal/platform/datastore"
	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
)

// ErrNotFound is returned when a tenant is not found.
var ErrNotFound = sentinel.ErrNotFound

var tenantColumns = []string{
	"id", "name", "email_contact", "phone", "address",
	"primary_color", "secondary_color", "status", "created_at", "updated_at",
}

// TableStore keeps tenants in a datastore.Store. Used with the in-memory
// datastore so the deletion cascade and the tenant service share one copy
// of the data.
type TableStore struct {
	ds datastore.Store
	// create is serialized because the name check and insert are two calls.
	createMu sync.Mutex
}

func NewTableStore(ds datastore.Store) *TableStore {
	return &TableStore{ds: ds}
}

// CreateIfNameAvailable creates the tenant if the name is not already taken (case-insensitive).
func (s *TableStore) CreateIfNameAvailable(ctx context.Context, t *models.Tenant) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	if _, err := s.FindByName(ctx, t.Name); err == nil {
		return fmt.Errorf("tenant name must be unique: %w", sentinel.ErrAlreadyUsed)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := s.ds.Insert(ctx, datastore.TableTenants, toRow(t)); err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *TableStore) Update(ctx context.Context, t *models.Tenant) error {
	set := toRow(t)
	delete(set, "id")
	delete(set, "created_at")
	n, err := s.ds.Update(ctx, datastore.TableTenants, set, datastore.Eq("id", t.ID.String()))
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TableStore) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	rows, err := s.ds.Select(ctx, datastore.TableTenants, tenantColumns, datastore.Eq("id", tenantID.String()))
	if err != nil {
		return nil, fmt.Errorf("find tenant by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return fromRow(rows[0])
}

// FindByName scans all tenants; the club list is small enough that a
// case-insensitive match in memory is fine.
func (s *TableStore) FindByName(ctx context.Context, name string) (*models.Tenant, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// List returns tenants ordered by name.
func (s *TableStore) List(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := s.ds.Select(ctx, datastore.TableTenants, tenantColumns)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	out := make([]*models.Tenant, 0, len(rows))
	for _, row := range rows {
		t, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *models.Tenant) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

func (s *TableStore) Count(ctx context.Context) (int, error) {
	n, err := s.ds.Count(ctx, datastore.TableTenants)
	if err != nil {
		return 0, fmt.Errorf("count tenants: %w", err)
	}
	return int(n), nil
}

func toRow(t *models.Tenant) datastore.Row {
	return datastore.Row{
		"id":              t.ID.String(),
		"name":            t.Name,
		"email_contact":   t.EmailContact,
		"phone":           t.Phone,
		"address":         t.Address,
		"primary_color":   t.PrimaryColor,
		"secondary_color": t.SecondaryColor,
		"status":          string(t.Status),
		"created_at":      t.CreatedAt,
		"updated_at":      t.UpdatedAt,
	}
}

func fromRow(row datastore.Row) (*models.Tenant, error) {
	tenantID, err := id.ParseTenantID(row.String("id"))
	if err != nil {
		return nil, fmt.Errorf("tenant row: %w", err)
	}
	created, _ := row["created_at"].(time.Time)
	updated, _ := row["updated_at"].(time.Time)
	return &models.Tenant{
		ID:             tenantID,
		Name:           row.String("name"),
		EmailContact:   row.String("email_contact"),
		Phone:          row.String("phone"),
		Address:        row.String("address"),
		PrimaryColor:   row.String("primary_color"),
		SecondaryColor: row.String("secondary_color"),
		Status:         models.TenantStatus(row.String("status")),
		CreatedAt:      created,
		UpdatedAt:      updated,
	}, nil
}
