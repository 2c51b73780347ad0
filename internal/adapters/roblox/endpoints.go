package roblox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	perr "rfinder/internal/platform/errors"
)

// MarkerAssetID is the plaid hat asset; owning it is read as both "verified" and "active"
const MarkerAssetID int64 = 102611803

// UserByID fetches the account document
func (c *Client) UserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := c.getJSON(ctx, fmt.Sprintf("%s/v1/users/%d", c.opts.UsersURL, id), &u)
	return u, err
}

// UserIDByName resolves an exact username, banned accounts included
func (c *Client) UserIDByName(ctx context.Context, username string) (int64, error) {
	body := map[string]any{"usernames": []string{username}, "excludeBannedUsers": false}
	var out wireUsernames
	if err := c.sendJSON(ctx, http.MethodPost, c.opts.UsersURL+"/v1/usernames/users", body, &out); err != nil {
		return 0, err
	}
	if len(out.Data) == 0 || out.Data[0].ID == 0 {
		return 0, perr.NotFoundf("no user found with name %q", username)
	}
	return out.Data[0].ID, nil
}

// OwnsAsset reports whether the account's inventory lists assetID
func (c *Client) OwnsAsset(ctx context.Context, userID, assetID int64) (bool, error) {
	var out wireList
	u := fmt.Sprintf("%s/v1/users/%d/items/Asset/%d", c.opts.InventoryURL, userID, assetID)
	if err := c.getJSON(ctx, u, &out); err != nil {
		return false, err
	}
	return len(out.Data) > 0, nil
}

// AvatarRig reads playerAvatarType, falling back to rigType
func (c *Client) AvatarRig(ctx context.Context, userID int64) (Rig, error) {
	var out wireAvatar
	if err := c.getJSON(ctx, fmt.Sprintf("%s/v1/users/%d/avatar", c.opts.AvatarURL, userID), &out); err != nil {
		return RigUnknown, err
	}
	raw := out.PlayerAvatarType
	if raw == nil {
		raw = out.RigType
	}
	if raw == nil {
		return RigUnknown, nil
	}
	switch strings.ToUpper(strings.TrimSpace(*raw)) {
	case "R15":
		return RigR15, nil
	case "R6":
		return RigR6, nil
	default:
		return RigUnknown, nil
	}
}

// Collectibles returns one page of limited items, oldest first
func (c *Client) Collectibles(ctx context.Context, userID int64, cursor string) (CollectiblesPage, error) {
	q := url.Values{"sortOrder": {"Asc"}, "limit": {"100"}, "cursor": {cursor}}
	var out wireCollectibles
	u := fmt.Sprintf("%s/v1/users/%d/assets/collectibles?%s", c.opts.InventoryURL, userID, q.Encode())
	if err := c.getJSON(ctx, u, &out); err != nil {
		return CollectiblesPage{}, err
	}
	page := CollectiblesPage{Items: make([]Collectible, 0, len(out.Data)), NextCursor: nextCursor(out.NextPageCursor)}
	for _, it := range out.Data {
		page.Items = append(page.Items, Collectible{
			Name:    it.Name,
			AssetID: it.AssetID,
			RAP:     it.RecentAveragePrice.ptr(),
		})
	}
	return page, nil
}

// HatInventory returns the number of hats on one page of the hat inventory
func (c *Client) HatInventory(ctx context.Context, userID int64, cursor string) (HatPage, error) {
	q := url.Values{"limit": {"100"}, "sortOrder": {"Desc"}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	var out wireList
	u := fmt.Sprintf("%s/v2/users/%d/inventory/8?%s", c.opts.InventoryURL, userID, q.Encode())
	if err := c.getJSON(ctx, u, &out); err != nil {
		return HatPage{}, err
	}
	return HatPage{Count: len(out.Data), NextCursor: nextCursor(out.NextPageCursor)}, nil
}

// RobloxBadges lists the names of the account's platform badges
func (c *Client) RobloxBadges(ctx context.Context, userID int64) ([]string, error) {
	var out []wireBadge
	if err := c.getJSON(ctx, fmt.Sprintf("%s/v1/users/%d/roblox-badges", c.opts.AccountInfoURL, userID), &out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out))
	for _, b := range out {
		if b.Name != "" {
			names = append(names, b.Name)
		}
	}
	return names, nil
}

// AvatarHeadshotURL returns the 150x150 headshot image URL
func (c *Client) AvatarHeadshotURL(ctx context.Context, userID int64) (string, error) {
	q := url.Values{
		"userIds":    {fmt.Sprint(userID)},
		"size":       {"150x150"},
		"format":     {"Png"},
		"isCircular": {"false"},
	}
	var out wireThumbnails
	if err := c.getJSON(ctx, c.opts.ThumbnailsURL+"/v1/users/avatar-headshot?"+q.Encode(), &out); err != nil {
		return "", err
	}
	if len(out.Data) == 0 || out.Data[0].ImageURL == "" {
		return "", perr.NotFoundf("no headshot for user %d", userID)
	}
	return out.Data[0].ImageURL, nil
}
