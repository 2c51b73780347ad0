package module

import (
	"time"

	"rfinder/internal/adapters/roblox"
	"rfinder/internal/platform/config"
)

// Options controls the finder. Values may also be read from env
type Options struct {
	Workers      int
	Timeout      time.Duration
	Backoff      time.Duration
	InitialDelay time.Duration
	UserAgent    string
	OutputDir    string
	MaxAttempts  int64
	MaxPages     int

	// global request pacing; 0 disables it
	RPS   float64
	Burst int

	UsersURL       string
	InventoryURL   string
	AvatarURL      string
	AccountInfoURL string
	ThumbnailsURL  string

	// PGURL enables the match journal when set
	PGURL    string
	PGSlowMs int
	HTTPAddr string
	CORS     []string
	// Docs serves the OpenAPI document and Swagger UI under /docs
	Docs bool
}

// FromConfig reads options using the FINDER_ prefix
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("FINDER_")
	return Options{
		Workers:        f.MayInt("WORKERS", 4),
		Timeout:        f.MayDuration("TIMEOUT", 5*time.Second),
		Backoff:        f.MayDuration("BACKOFF", roblox.BackoffWindow),
		InitialDelay:   f.MayDuration("INITIAL_DELAY", roblox.InitialDelay),
		UserAgent:      f.MayString("USER_AGENT", roblox.DefaultUserAgent),
		OutputDir:      f.MayString("OUTPUT_DIR", "output"),
		MaxAttempts:    f.MayInt64("MAX_ATTEMPTS", 0),
		MaxPages:       f.MayInt("MAX_PAGES", 200),
		RPS:            f.MayFloat64("RPS", 0),
		Burst:          f.MayInt("BURST", 1),
		UsersURL:       f.MayURL("USERS_URL", ""),
		InventoryURL:   f.MayURL("INVENTORY_URL", ""),
		AvatarURL:      f.MayURL("AVATAR_URL", ""),
		AccountInfoURL: f.MayURL("ACCOUNTINFO_URL", ""),
		ThumbnailsURL:  f.MayURL("THUMBNAILS_URL", ""),
		PGURL:          f.MayString("PG_URL", ""),
		PGSlowMs:       f.MayInt("PG_SLOW_MS", 250),
		HTTPAddr:       f.MayAddr("HTTP_ADDR", ":8080"),
		CORS:           f.MayCSV("CORS_ORIGINS", nil),
		Docs:           f.MayBool("DOCS", true),
	}
}

// Merge applies non-zero overrides on top of o
func (o Options) Merge(over Options) Options {
	if over.Workers != 0 {
		o.Workers = over.Workers
	}
	if over.Timeout != 0 {
		o.Timeout = over.Timeout
	}
	if over.Backoff != 0 {
		o.Backoff = over.Backoff
	}
	if over.UserAgent != "" {
		o.UserAgent = over.UserAgent
	}
	if over.OutputDir != "" {
		o.OutputDir = over.OutputDir
	}
	if over.MaxAttempts != 0 {
		o.MaxAttempts = over.MaxAttempts
	}
	if over.RPS != 0 {
		o.RPS = over.RPS
	}
	if over.PGURL != "" {
		o.PGURL = over.PGURL
	}
	if over.HTTPAddr != "" {
		o.HTTPAddr = over.HTTPAddr
	}
	return o
}
