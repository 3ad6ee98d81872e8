// Package club serves tenant-scoped reads for the club currently in view.
package club

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"a2admin/internal/platform/datastore"
	id "a2admin/pkg/domain"
)

// Overview summarizes one club's data.
type Overview struct {
	TenantID    id.TenantID
	Admins      int64
	Sponsors    int64
	Campaigns   int64
	Pledges     int64
	Invitations int64
}

type Service struct {
	store datastore.Store
}

func NewService(store datastore.Store) *Service {
	return &Service{store: store}
}

// Overview counts rows owned by tenantID. Pledges and invitations hang off
// campaigns and are counted through the tenant's campaign ids, so the counts
// run in two concurrent rounds.
func (s *Service) Overview(ctx context.Context, tenantID id.TenantID) (*Overview, error) {
	scope := datastore.Eq("tenant_id", tenantID.String())
	out := &Overview{TenantID: tenantID}

	var campaignIDs []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if out.Admins, err = s.store.Count(gctx, datastore.TableAppUsers, scope); err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if out.Sponsors, err = s.store.Count(gctx, datastore.TableSponsors, scope); err != nil {
			return fmt.Errorf("count sponsors: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.Select(gctx, datastore.TableCampaigns, []string{"id"}, scope)
		if err != nil {
			return fmt.Errorf("list campaigns: %w", err)
		}
		campaignIDs = make([]string, 0, len(rows))
		for _, row := range rows {
			campaignIDs = append(campaignIDs, row.String("id"))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.Campaigns = int64(len(campaignIDs))

	byCampaign := datastore.In("campaign_id", campaignIDs)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if out.Pledges, err = s.store.Count(gctx, datastore.TablePledges, byCampaign); err != nil {
			return fmt.Errorf("count pledges: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if out.Invitations, err = s.store.Count(gctx, datastore.TableInvitations, byCampaign); err != nil {
			return fmt.Errorf("count invitations: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
