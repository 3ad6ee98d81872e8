// Package seeder fills the in-memory stores with a small demo tenancy so the
// console is usable without Postgres or the identity provider.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"a2admin/internal/platform/datastore"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
)

// SuperAdminEmail is the seeded platform operator.
const SuperAdminEmail = "admin@a2display.fr"

// principalNamespace scopes the name-based principal UUIDs.
var principalNamespace = uuid.MustParse("6f1f0d1e-5b0a-4c55-9c1e-a2d15a2d15a2")

// TenantStore defines methods for seeding tenants
type TenantStore interface {
	CreateIfNameAvailable(ctx context.Context, tenant *models.Tenant) error
}

// MembershipStore defines methods for seeding role assignments
type MembershipStore interface {
	Upsert(ctx context.Context, a *models.RoleAssignment) error
}

// Club is one seeded tenant and its admin.
type Club struct {
	TenantID   id.TenantID
	Name       string
	AdminID    id.PrincipalID
	AdminEmail string
}

// Result lists what SeedAll created, for logging and token minting.
type Result struct {
	SuperAdminID id.PrincipalID
	Clubs        []Club
}

// Seeder populates stores with demo data
type Seeder struct {
	tenants     TenantStore
	memberships MembershipStore
	data        datastore.Store
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a new seeder
func New(tenants TenantStore, memberships MembershipStore, data datastore.Store, logger *slog.Logger) *Seeder {
	return &Seeder{
		tenants:     tenants,
		memberships: memberships,
		data:        data,
		logger:      logger,
		now:         time.Now,
	}
}

// PrincipalFor derives a stable principal ID from an email, so tokens minted
// for the demo accounts survive restarts.
func PrincipalFor(email string) id.PrincipalID {
	return id.PrincipalID(uuid.NewSHA1(principalNamespace, []byte(email)))
}

var demoClubs = []struct {
	name       string
	adminEmail string
	sponsors   []string
	campaign   string
	pledges    []int64
}{
	{
		name:       "Demo FC",
		adminEmail: "coach@demo-fc.fr",
		sponsors:   []string{"Boulangerie Martin", "Garage du Stade"},
		campaign:   "Saison 2026",
		pledges:    []int64{25000, 12000},
	},
	{
		name:       "Rugby Club Demo",
		adminEmail: "president@rugby-demo.fr",
		sponsors:   []string{"Pharmacie Centrale"},
		campaign:   "Panneaux terrain",
		pledges:    []int64{50000},
	},
}

// SeedAll creates the super admin and every demo club.
func (s *Seeder) SeedAll(ctx context.Context) (*Result, error) {
	s.logger.Info("seeding demo data...")
	now := s.now()

	superAdmin, err := models.NewRoleAssignment(PrincipalFor(SuperAdminEmail), SuperAdminEmail, models.RoleSuperAdmin, id.TenantID{}, now)
	if err != nil {
		return nil, err
	}
	if err := s.memberships.Upsert(ctx, superAdmin); err != nil {
		return nil, fmt.Errorf("failed to seed super admin: %w", err)
	}

	res := &Result{SuperAdminID: superAdmin.PrincipalID}
	for _, demo := range demoClubs {
		club, err := s.seedClub(ctx, demo.name, demo.adminEmail, now)
		if err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", demo.name, err)
		}
		if err := s.seedActivity(ctx, club.TenantID, demo.sponsors, demo.campaign, demo.pledges, now); err != nil {
			return nil, fmt.Errorf("failed to seed activity for %s: %w", demo.name, err)
		}
		res.Clubs = append(res.Clubs, club)
	}

	s.logger.Info("demo data seeded successfully",
		"super_admin_id", res.SuperAdminID.String(),
		"super_admin_email", SuperAdminEmail,
		"clubs", len(res.Clubs),
	)
	for _, c := range res.Clubs {
		s.logger.Info("demo club",
			"tenant_id", c.TenantID.String(),
			"name", c.Name,
			"admin_id", c.AdminID.String(),
			"admin_email", c.AdminEmail,
		)
	}
	return res, nil
}

func (s *Seeder) seedClub(ctx context.Context, name, adminEmail string, now time.Time) (Club, error) {
	tenant, err := models.NewTenant(id.NewTenantID(), name, models.TenantProfile{EmailContact: adminEmail}, now)
	if err != nil {
		return Club{}, err
	}
	if err := s.tenants.CreateIfNameAvailable(ctx, tenant); err != nil {
		return Club{}, err
	}
	admin, err := models.NewRoleAssignment(PrincipalFor(adminEmail), adminEmail, models.RoleClubAdmin, tenant.ID, now)
	if err != nil {
		return Club{}, err
	}
	if err := s.memberships.Upsert(ctx, admin); err != nil {
		return Club{}, err
	}
	return Club{TenantID: tenant.ID, Name: tenant.Name, AdminID: admin.PrincipalID, AdminEmail: adminEmail}, nil
}

// seedActivity adds one campaign with a pledge and an invitation per sponsor.
func (s *Seeder) seedActivity(ctx context.Context, tenantID id.TenantID, sponsors []string, campaign string, pledges []int64, now time.Time) error {
	tid := tenantID.String()
	campaignID := uuid.NewString()
	if err := s.data.Insert(ctx, datastore.TableCampaigns, datastore.Row{
		"id": campaignID, "tenant_id": tid, "name": campaign, "status": "active", "created_at": now,
	}); err != nil {
		return err
	}
	for i, name := range sponsors {
		sponsorID := uuid.NewString()
		if err := s.data.Insert(ctx, datastore.TableSponsors, datastore.Row{
			"id": sponsorID, "tenant_id": tid, "name": name, "created_at": now,
		}); err != nil {
			return err
		}
		if err := s.data.Insert(ctx, datastore.TableInvitations, datastore.Row{
			"id": uuid.NewString(), "campaign_id": campaignID, "status": "sent", "created_at": now,
		}); err != nil {
			return err
		}
		if i < len(pledges) {
			if err := s.data.Insert(ctx, datastore.TablePledges, datastore.Row{
				"id": uuid.NewString(), "campaign_id": campaignID, "sponsor_id": sponsorID, "amount_cents": pledges[i], "created_at": now,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
