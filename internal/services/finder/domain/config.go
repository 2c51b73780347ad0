package domain

import (
	"rfinder/internal/core/classify"
	"rfinder/internal/core/filter"
	"rfinder/internal/core/sample"
	perr "rfinder/internal/platform/errors"
	"rfinder/internal/platform/validate"
)

// RunConfig is everything a discovery run needs; zero values pick defaults
type RunConfig struct {
	Method  classify.Method `json:"method" yaml:"method"`
	Amount  int             `json:"amount" yaml:"amount" validate:"gte=0"`
	Workers int             `json:"workers" yaml:"workers" validate:"gte=0,lte=64"`

	Years []string `json:"years" yaml:"years" validate:"dive,required"`
	IDMin int64    `json:"id_min" yaml:"id_min" validate:"gte=0"`
	IDMax int64    `json:"id_max" yaml:"id_max" validate:"gte=0"`

	MinLen int `json:"min_len" yaml:"min_len" validate:"gte=0"`
	MaxLen int `json:"max_len" yaml:"max_len" validate:"gte=0"`

	RAPMin            string `json:"rap_min" yaml:"rap_min"`
	IncludeUnknownRAP bool   `json:"include_unknown_rap" yaml:"include_unknown_rap"`
	HatMin            string `json:"hat_min" yaml:"hat_min"`

	Banned   filter.TriState `json:"banned" yaml:"banned"`
	Verified filter.TriState `json:"verified" yaml:"verified"`
	Active   filter.TriState `json:"active" yaml:"active"`

	Badges  []string `json:"badges" yaml:"badges" validate:"dive,required"`
	SkipIDs []int64  `json:"skip_ids" yaml:"skip_ids" validate:"dive,gt=0"`
	// SkipSaved adds every id in the match journal to SkipIDs
	SkipSaved bool `json:"skip_saved" yaml:"skip_saved"`

	OutputDir   string `json:"output_dir" yaml:"output_dir"`
	MaxAttempts int64  `json:"max_attempts" yaml:"max_attempts" validate:"gte=0"`
}

// Nonstop reports whether the run is unbounded and writes bucket files
func (c RunConfig) Nonstop() bool { return c.Method == classify.Nonstop }

// UseRange reports whether an explicit id range replaces the year buckets
func (c RunConfig) UseRange() bool { return c.IDMin != 0 || c.IDMax != 0 }

// Validate checks struct tags first, then the cross-field rules
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Method == "" {
		return perr.WithField(perr.Validationf("method is required"), "method")
	}
	if !c.Nonstop() && c.Amount < 1 {
		return perr.WithField(perr.Validationf("amount must be a positive integer"), "amount")
	}
	if c.UseRange() {
		if c.IDMin <= 0 || c.IDMax <= 0 || c.IDMin >= c.IDMax {
			return perr.WithField(perr.Validationf("invalid id range: positive numbers and id_min < id_max"), "id_min")
		}
	} else {
		for _, y := range sample.Normalize(c.Years) {
			if _, ok := sample.Lookup(y); !ok {
				return perr.WithField(perr.Validationf("unknown year %q", y), "years")
			}
		}
	}
	if c.MaxLen > 0 && c.MinLen > c.MaxLen {
		return perr.WithField(perr.Validationf("min_len must not exceed max_len"), "min_len")
	}
	if _, err := filter.ParseRAPMin(c.RAPMin); err != nil {
		return err
	}
	if _, err := filter.ParseHatMin(c.HatMin); err != nil {
		return err
	}
	for _, b := range c.Badges {
		if !filter.AllowedBadge(b) {
			return perr.WithField(perr.Validationf("unknown badge %q", b), "badges")
		}
	}
	return nil
}
