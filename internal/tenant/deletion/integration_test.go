//go:build integration

package deletion_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"a2admin/internal/identity"
	"a2admin/internal/platform/datastore"
	"a2admin/internal/tenant/deletion"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/testutil/containers"
)

type DeletionIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
	accounts *identity.InMemoryDirectory
	guard    *deletion.RedisGuard
	orch     *deletion.Orchestrator
}

func TestDeletionIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DeletionIntegrationSuite))
}

func (s *DeletionIntegrationSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *DeletionIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateModuleTables(ctx))
	s.Require().NoError(s.redis.Flush(ctx))

	logger := slog.New(slog.DiscardHandler)
	s.accounts = identity.NewInMemoryDirectory()
	s.guard = deletion.NewRedisGuard(s.redis.Client, time.Minute, logger)
	s.orch = deletion.New(
		datastore.NewPostgres(s.postgres.DB, datastore.DefaultSchema),
		s.accounts,
		deletion.WithGuard(s.guard),
		deletion.WithLogger(logger),
	)
}

func (s *DeletionIntegrationSuite) seed(tenantID id.TenantID) {
	ctx := context.Background()
	campaignID := s.postgres.CreateTestCampaign(ctx, s.T(), tenantID)
	sponsorID := uuid.New()
	adminID := id.PrincipalID(uuid.New())

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO sponsors (id, tenant_id, name) VALUES ($1, $2, 'Boulangerie')`, []any{sponsorID, uuid.UUID(tenantID)}},
		{`INSERT INTO pledges (id, campaign_id, sponsor_id, amount_cents) VALUES ($1, $2, $3, 5000)`, []any{uuid.New(), uuid.UUID(campaignID), sponsorID}},
		{`INSERT INTO invitations (id, campaign_id, email) VALUES ($1, $2, 'sponsor@shop.fr')`, []any{uuid.New(), uuid.UUID(campaignID)}},
		{`INSERT INTO email_events (id, campaign_id, event_type) VALUES ($1, $2, 'opened')`, []any{uuid.New(), uuid.UUID(campaignID)}},
		{`INSERT INTO app_users (id, email, role, tenant_id) VALUES ($1, 'admin@club.fr', 'club_admin', $2)`, []any{uuid.UUID(adminID), uuid.UUID(tenantID)}},
		{`INSERT INTO email_test_logs (id, tenant_id, recipient, status) VALUES ($1, $2, 'admin@club.fr', 'sent')`, []any{uuid.New(), uuid.UUID(tenantID)}},
	}
	for _, st := range stmts {
		_, err := s.postgres.Exec(ctx, st.query, st.args...)
		s.Require().NoError(err, st.query)
	}
	s.accounts.Add(identity.Account{ID: adminID, Email: "admin@club.fr", Role: "club_admin"})
}

func (s *DeletionIntegrationSuite) count(table string, tenantID id.TenantID) int {
	var n int
	query := `SELECT COUNT(*) FROM ` + table + ` WHERE tenant_id = $1`
	s.Require().NoError(s.postgres.QueryRow(context.Background(), query, uuid.UUID(tenantID)).Scan(&n))
	return n
}

func (s *DeletionIntegrationSuite) TestDeletesTenantOnPostgres() {
	ctx := context.Background()
	doomed := s.postgres.CreateTestTenant(ctx, s.T())
	kept := s.postgres.CreateTestTenant(ctx, s.T())
	s.seed(doomed)
	s.seed(kept)

	report, err := s.orch.DeleteTenant(ctx, doomed)
	s.Require().NoError(err)
	s.Empty(report.AccountFailures)

	for _, table := range []string{"sponsors", "campaigns", "app_users", "email_test_logs"} {
		s.Zero(s.count(table, doomed), table)
		s.Equal(1, s.count(table, kept), table)
	}
	var tenants int
	s.Require().NoError(s.postgres.QueryRow(ctx, `SELECT COUNT(*) FROM tenants WHERE id = $1`, uuid.UUID(doomed)).Scan(&tenants))
	s.Zero(tenants)
	var pledges int
	s.Require().NoError(s.postgres.QueryRow(ctx, `SELECT COUNT(*) FROM pledges`).Scan(&pledges))
	s.Equal(1, pledges)

	_, err = s.orch.DeleteTenant(ctx, doomed)
	s.NoError(err, "re-running a completed deletion succeeds")
}

func (s *DeletionIntegrationSuite) TestRedisLeaseRejectsConcurrentRun() {
	ctx := context.Background()
	tenantID := s.postgres.CreateTestTenant(ctx, s.T())

	release, err := s.guard.Acquire(ctx, tenantID)
	s.Require().NoError(err)

	_, err = s.orch.DeleteTenant(ctx, tenantID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	release()
	_, err = s.orch.DeleteTenant(ctx, tenantID)
	s.NoError(err)
}

func (s *DeletionIntegrationSuite) TestRedisLeaseReleaseOnlyByHolder() {
	ctx := context.Background()
	tenantID := id.NewTenantID()
	short := deletion.NewRedisGuard(s.redis.Client, 50*time.Millisecond, nil)

	releaseFirst, err := short.Acquire(ctx, tenantID)
	s.Require().NoError(err)

	time.Sleep(100 * time.Millisecond)
	releaseSecond, err := short.Acquire(ctx, tenantID)
	s.Require().NoError(err, "expired lease can be taken over")

	releaseFirst()
	_, err = short.Acquire(ctx, tenantID)
	s.ErrorIs(err, deletion.ErrDeletionInProgress, "stale holder must not release the new lease")

	releaseSecond()
}
