// Package datastore is a small table/filter abstraction over the console's
// relational data. The deletion cascade and tenant-scoped reads are written
// against Store so they run unchanged on Postgres and in memory.
package datastore

import (
	"context"
	"errors"
	"fmt"
)

// Table names of tenant-owned and identity-linked data.
const (
	TableTenants               = "tenants"
	TableAppUsers              = "app_users"
	TableSponsors              = "sponsors"
	TableCampaigns             = "campaigns"
	TablePledges               = "pledges"
	TableInvitations           = "invitations"
	TableEmailEvents           = "email_events"
	TableEmailTemplates        = "email_templates"
	TableEmailTemplateVersions = "email_template_versions"
	TableEmailTestLogs         = "email_test_logs"
)

var (
	// ErrUnscoped is returned for Update/Delete calls without any filter.
	ErrUnscoped = errors.New("datastore: unscoped write refused")
	// ErrUnknownIdentifier is returned for tables or columns outside the schema.
	ErrUnknownIdentifier = errors.New("datastore: unknown identifier")
)

// Row is a single record keyed by column name.
type Row map[string]any

// String returns the column value formatted as a string, "" when absent or nil.
func (r Row) String(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

type op int

const (
	opEq op = iota
	opIn
)

// Filter restricts the rows an operation touches. Filters combine with AND.
type Filter struct {
	Column string
	op     op
	values []any
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, op: opEq, values: []any{value}}
}

// In matches rows whose column is one of values. An empty In matches nothing.
func In[T any](column string, values []T) Filter {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Filter{Column: column, op: opIn, values: vs}
}

// matchesNothing reports whether the filter set can never match a row.
func matchesNothing(filters []Filter) bool {
	for _, f := range filters {
		if f.op == opIn && len(f.values) == 0 {
			return true
		}
	}
	return false
}

// Store is implemented by PostgresStore and MemoryStore.
type Store interface {
	Select(ctx context.Context, table string, columns []string, filters ...Filter) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) error
	Update(ctx context.Context, table string, set Row, filters ...Filter) (int64, error)
	Delete(ctx context.Context, table string, filters ...Filter) (int64, error)
	Count(ctx context.Context, table string, filters ...Filter) (int64, error)
}

// Schema lists the columns each table exposes. Only these identifiers ever
// reach generated SQL.
type Schema map[string][]string

// DefaultSchema describes the console tables used by the tenant services.
var DefaultSchema = Schema{
	TableTenants:               {"id", "name", "email_contact", "phone", "address", "primary_color", "secondary_color", "status", "created_at", "updated_at"},
	TableAppUsers:              {"id", "email", "role", "tenant_id", "created_at"},
	TableSponsors:              {"id", "tenant_id", "name", "email", "created_at"},
	TableCampaigns:             {"id", "tenant_id", "name", "status", "created_at"},
	TablePledges:               {"id", "campaign_id", "sponsor_id", "amount_cents", "created_at"},
	TableInvitations:           {"id", "campaign_id", "email", "status", "created_at"},
	TableEmailEvents:           {"id", "campaign_id", "event_type", "created_at"},
	TableEmailTemplates:        {"id", "tenant_id", "name", "created_at"},
	TableEmailTemplateVersions: {"id", "template_id", "subject", "body", "created_at"},
	TableEmailTestLogs:         {"id", "tenant_id", "recipient", "status", "created_at"},
}

func (s Schema) checkTable(table string) error {
	if _, ok := s[table]; !ok {
		return fmt.Errorf("table %q: %w", table, ErrUnknownIdentifier)
	}
	return nil
}

func (s Schema) checkColumns(table string, columns ...string) error {
	if err := s.checkTable(table); err != nil {
		return err
	}
	for _, c := range columns {
		found := false
		for _, known := range s[table] {
			if known == c {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("column %s.%q: %w", table, c, ErrUnknownIdentifier)
		}
	}
	return nil
}

func filterColumns(filters []Filter) []string {
	cols := make([]string, len(filters))
	for i, f := range filters {
		cols[i] = f.Column
	}
	return cols
}
