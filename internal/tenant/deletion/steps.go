package deletion

import (
	"context"
	"errors"
	"fmt"

	"a2admin/internal/platform/datastore"
	"a2admin/internal/sentinel"
	id "a2admin/pkg/domain"
)

// StepName identifies one stage of the deletion cascade.
type StepName string

const (
	StepResolvePrincipals      StepName = "resolve_principals"
	StepDeleteEmailTemplates   StepName = "delete_email_templates"
	StepDeleteCampaigns        StepName = "delete_campaigns"
	StepDeleteSponsors         StepName = "delete_sponsors"
	StepDeleteTenantLogs       StepName = "delete_tenant_logs"
	StepDeleteIdentityAccounts StepName = "delete_identity_accounts"
	StepDeleteMemberships      StepName = "delete_memberships"
	StepDeleteTenant           StepName = "delete_tenant"
)

// StepOutcome summarizes a completed step.
type StepOutcome struct {
	Step    StepName `json:"step"`
	Deleted int64    `json:"deleted"`
}

// AccountFailure is an identity account that could not be removed.
type AccountFailure struct {
	PrincipalID string `json:"principal_id"`
	Email       string `json:"email"`
	Error       string `json:"error"`
}

// StepError reports the step that aborted the cascade.
type StepError struct {
	Step StepName
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type principalRef struct {
	ID    string
	Email string
}

// run carries identifiers gathered by earlier steps.
type run struct {
	tenantID        id.TenantID
	principals      []principalRef
	accountFailures []AccountFailure
}

type step struct {
	name StepName
	exec func(ctx context.Context, r *run) (StepOutcome, error)
}

// steps returns the cascade in execution order. Children go before parents,
// except identity accounts which are removed while their app_users rows still
// carry the email needed to report them.
func (o *Orchestrator) steps() []step {
	return []step{
		{StepResolvePrincipals, o.resolvePrincipals},
		{StepDeleteEmailTemplates, o.deleteEmailTemplates},
		{StepDeleteCampaigns, o.deleteCampaigns},
		{StepDeleteSponsors, o.deleteByTenant(datastore.TableSponsors)},
		{StepDeleteTenantLogs, o.deleteByTenant(datastore.TableEmailTestLogs)},
		{StepDeleteIdentityAccounts, o.deleteIdentityAccounts},
		{StepDeleteMemberships, o.deleteByTenant(datastore.TableAppUsers)},
		{StepDeleteTenant, o.deleteTenant},
	}
}

func tenantFilter(r *run) datastore.Filter {
	return datastore.Eq("tenant_id", r.tenantID.String())
}

func (o *Orchestrator) resolvePrincipals(ctx context.Context, r *run) (StepOutcome, error) {
	rows, err := o.store.Select(ctx, datastore.TableAppUsers, []string{"id", "email"}, tenantFilter(r))
	if err != nil {
		return StepOutcome{}, err
	}
	r.principals = make([]principalRef, 0, len(rows))
	for _, row := range rows {
		r.principals = append(r.principals, principalRef{ID: row.String("id"), Email: row.String("email")})
	}
	return StepOutcome{}, nil
}

func (o *Orchestrator) deleteEmailTemplates(ctx context.Context, r *run) (StepOutcome, error) {
	templateIDs, err := o.selectIDs(ctx, datastore.TableEmailTemplates, tenantFilter(r))
	if err != nil {
		return StepOutcome{}, err
	}
	versions, err := o.store.Delete(ctx, datastore.TableEmailTemplateVersions, datastore.In("template_id", templateIDs))
	if err != nil {
		return StepOutcome{}, fmt.Errorf("template versions: %w", err)
	}
	templates, err := o.store.Delete(ctx, datastore.TableEmailTemplates, tenantFilter(r))
	if err != nil {
		return StepOutcome{}, err
	}
	return StepOutcome{Deleted: versions + templates}, nil
}

func (o *Orchestrator) deleteCampaigns(ctx context.Context, r *run) (StepOutcome, error) {
	campaignIDs, err := o.selectIDs(ctx, datastore.TableCampaigns, tenantFilter(r))
	if err != nil {
		return StepOutcome{}, err
	}
	var total int64
	for _, child := range []string{datastore.TablePledges, datastore.TableInvitations, datastore.TableEmailEvents} {
		n, err := o.store.Delete(ctx, child, datastore.In("campaign_id", campaignIDs))
		if err != nil {
			return StepOutcome{}, fmt.Errorf("%s: %w", child, err)
		}
		total += n
	}
	n, err := o.store.Delete(ctx, datastore.TableCampaigns, tenantFilter(r))
	if err != nil {
		return StepOutcome{}, err
	}
	return StepOutcome{Deleted: total + n}, nil
}

func (o *Orchestrator) deleteByTenant(table string) func(ctx context.Context, r *run) (StepOutcome, error) {
	return func(ctx context.Context, r *run) (StepOutcome, error) {
		n, err := o.store.Delete(ctx, table, tenantFilter(r))
		if err != nil {
			return StepOutcome{}, err
		}
		return StepOutcome{Deleted: n}, nil
	}
}

// deleteIdentityAccounts never fails: missing accounts count as removed and
// other errors are collected on the run.
func (o *Orchestrator) deleteIdentityAccounts(ctx context.Context, r *run) (StepOutcome, error) {
	var removed int64
	for _, p := range r.principals {
		err := o.deleteAccount(ctx, p)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, sentinel.ErrNotFound):
			o.logger.InfoContext(ctx, "identity account already absent",
				"tenant_id", r.tenantID.String(),
				"principal_id", p.ID,
			)
		default:
			o.logger.WarnContext(ctx, "identity account deletion failed",
				"tenant_id", r.tenantID.String(),
				"principal_id", p.ID,
				"error", err,
			)
			r.accountFailures = append(r.accountFailures, AccountFailure{PrincipalID: p.ID, Email: p.Email, Error: err.Error()})
		}
	}
	return StepOutcome{Deleted: removed}, nil
}

func (o *Orchestrator) deleteAccount(ctx context.Context, p principalRef) error {
	principalID, err := id.ParsePrincipalID(p.ID)
	if err != nil {
		return err
	}
	return o.accounts.DeleteAccount(ctx, principalID)
}

func (o *Orchestrator) deleteTenant(ctx context.Context, r *run) (StepOutcome, error) {
	n, err := o.store.Delete(ctx, datastore.TableTenants, datastore.Eq("id", r.tenantID.String()))
	if err != nil {
		return StepOutcome{}, err
	}
	return StepOutcome{Deleted: n}, nil
}

func (o *Orchestrator) selectIDs(ctx context.Context, table string, filter datastore.Filter) ([]string, error) {
	rows, err := o.store.Select(ctx, table, []string{"id"}, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.String("id"))
	}
	return ids, nil
}
