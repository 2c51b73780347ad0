package roblox

import (
	"encoding/json"
	"time"
)

// User is the subset of the account document the finder reads
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Created     string `json:"created"`
	Description string `json:"description"`
	IsBanned    bool   `json:"isBanned"`
}

// CreatedAt parses Created; the zero time means missing or unparsable
func (u User) CreatedAt() time.Time {
	if u.Created == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, u.Created)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Rig is the avatar skeleton type
type Rig uint8

const (
	// RigUnknown means the avatar type could not be read
	RigUnknown Rig = iota
	RigR15
	RigR6
)

func (r Rig) String() string {
	switch r {
	case RigR15:
		return "R15"
	case RigR6:
		return "R6"
	default:
		return "unknown"
	}
}

// IsR15 converts the rig into the tri-state the activity heuristic expects
func (r Rig) IsR15() *bool {
	if r == RigUnknown {
		return nil
	}
	v := r == RigR15
	return &v
}

// Collectible is one limited item; RAP is nil when the listing had no usable price
type Collectible struct {
	Name    string `json:"name"`
	AssetID int64  `json:"assetId"`
	RAP     *int64 `json:"rap,omitempty"`
}

// CollectiblesPage is one page of the collectibles listing
type CollectiblesPage struct {
	Items      []Collectible
	NextCursor string
}

// HatPage is one page of the hat inventory
type HatPage struct {
	Count      int
	NextCursor string
}

type wireCollectibles struct {
	Data []struct {
		Name               string   `json:"name"`
		AssetID            int64    `json:"assetId"`
		RecentAveragePrice looseInt `json:"recentAveragePrice"`
	} `json:"data"`
	NextPageCursor *string `json:"nextPageCursor"`
}

// wireList keeps list items opaque; only their count matters
type wireList struct {
	Data           []json.RawMessage `json:"data"`
	NextPageCursor *string           `json:"nextPageCursor"`
}

type wireAvatar struct {
	PlayerAvatarType *string `json:"playerAvatarType"`
	RigType          *string `json:"rigType"`
}

type wireBadge struct {
	Name string `json:"name"`
}

type wireUsernames struct {
	Data []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"data"`
}

type wireThumbnails struct {
	Data []struct {
		TargetID int64  `json:"targetId"`
		State    string `json:"state"`
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

// nextCursor treats a missing, empty or literal "null" cursor as the last page
func nextCursor(p *string) string {
	if p == nil || *p == "" || *p == "null" {
		return ""
	}
	return *p
}
