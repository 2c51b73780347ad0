package service

import (
	"context"

	"rfinder/internal/adapters/roblox"
	"rfinder/internal/core/activity"
	"rfinder/internal/core/filter"
	"rfinder/internal/services/finder/domain"
)

var (
	discoveryPolicy = activity.DiscoveryPolicy
	lookupPolicy    = activity.LookupPolicy
)

type collectOpts struct {
	policy activity.Policy
	// skipActive ends collection once the account reads as active
	skipActive bool
	logf       func(format string, a ...any)
	maxPages   int
}

func accountOf(u roblox.User) domain.Account {
	return domain.Account{
		ID:          u.ID,
		Username:    u.Name,
		DisplayName: u.DisplayName,
		Created:     u.CreatedAt(),
		Banned:      u.IsBanned,
	}
}

// collect gathers the extra signals for one account. A failed read leaves its signal unknown
// and never fails the attempt. It returns false only when skipActive cut the account.
func (s *Svc) collect(ctx context.Context, acct domain.Account, o collectOpts) (domain.Signals, bool) {
	var sig domain.Signals

	owns, err := s.remote.OwnsAsset(ctx, acct.ID, roblox.MarkerAssetID)
	if err == nil {
		sig.Verified = owns
		sig.PlaidHat = &owns
	}

	if rig, err := s.remote.AvatarRig(ctx, acct.ID); err == nil {
		sig.IsR15 = rig.IsR15()
	}

	sig.RAP, sig.RAPItems = s.rap(ctx, acct.ID, o.maxPages)

	v := activity.Evaluate(activity.Inputs{
		Username:    acct.Username,
		DisplayName: acct.DisplayName,
		CreatedYear: acct.CreatedYear(),
		PlaidHat:    sig.PlaidHat,
		IsR15:       sig.IsR15,
		RAPKnown:    sig.RAP != nil,
		RAPItems:    len(sig.RAPItems),
	}, o.policy)
	sig.Active = v.Active
	sig.ActiveReason = v.Reason()
	sig.ActiveDefaulted = v.Defaulted
	sig.DistinctDisplayName = v.DistinctDisplayName
	if o.logf != nil {
		o.logf("%d: '%s' active=%s (%s)", acct.ID, acct.Username, domain.YesNo(v.Active), sig.ActiveReason)
	}
	if o.skipActive && v.Active {
		return sig, false
	}

	sig.Hats = s.hats(ctx, acct.ID, o.maxPages)

	sig.Badges = []string{}
	if names, err := s.remote.RobloxBadges(ctx, acct.ID); err == nil {
		for _, b := range names {
			if filter.AllowedBadge(b) {
				sig.Badges = append(sig.Badges, b)
			}
		}
	}
	return sig, true
}

// rap sums the collectibles listing. Any page failure makes the whole value unknown.
func (s *Svc) rap(ctx context.Context, userID int64, maxPages int) (*int64, []domain.Item) {
	var (
		total  int64
		items  []domain.Item
		cursor string
	)
	for range maxPages {
		page, err := s.remote.Collectibles(ctx, userID, cursor)
		if err != nil {
			return nil, nil
		}
		for _, c := range page.Items {
			if c.RAP != nil {
				total += *c.RAP
			}
			items = append(items, domain.Item{Name: c.Name, AssetID: c.AssetID, RAP: c.RAP})
		}
		if page.NextCursor == "" {
			return &total, items
		}
		cursor = page.NextCursor
	}
	return nil, nil
}

// hats counts the hat inventory. Any page failure makes the count unknown.
func (s *Svc) hats(ctx context.Context, userID int64, maxPages int) *int {
	var (
		total  int
		cursor string
	)
	for range maxPages {
		page, err := s.remote.HatInventory(ctx, userID, cursor)
		if err != nil {
			return nil
		}
		total += page.Count
		if page.NextCursor == "" {
			return &total
		}
		cursor = page.NextCursor
	}
	return nil
}
