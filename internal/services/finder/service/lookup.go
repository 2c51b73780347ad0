package service

import (
	"context"
	"fmt"
	"strings"

	perr "rfinder/internal/platform/errors"
	"rfinder/internal/services/finder/domain"
)

// Lookup resolves one username and reports its collected signals. Undecided activity reads as active here.
func (s *Svc) Lookup(ctx context.Context, username string, emit domain.Emitter) (domain.LookupResult, error) {
	if emit == nil {
		emit = domain.Discard
	}
	logf := func(format string, a ...any) {
		text := fmt.Sprintf(format, a...)
		s.log.Debug().Str("category", string(domain.CatLookup)).Msg(text)
		emit(domain.LogLine{Category: domain.CatLookup, Text: text})
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return domain.LookupResult{}, perr.WithField(perr.Validationf("username is required"), "username")
	}
	logf("Lookup for '%s'", username)

	id, err := s.remote.UserIDByName(ctx, username)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			logf("No user found with name '%s'", username)
			return domain.LookupResult{}, perr.WithField(perr.NotFoundf("no user found with name %q", username), "username")
		}
		logf("Failed to resolve '%s': %v", username, err)
		return domain.LookupResult{}, perr.WithOp(err, "finder.lookup")
	}

	user, err := s.remote.UserByID(ctx, id)
	if err != nil {
		logf("Failed to fetch user details for %d", id)
		return domain.LookupResult{}, perr.WithOp(err, "finder.lookup")
	}
	acct := accountOf(user)

	sig, _ := s.collect(ctx, acct, collectOpts{policy: lookupPolicy, logf: logf, maxPages: s.config.MaxPages})
	res := domain.LookupResult{
		Account: acct,
		Signals: sig,
	}
	if url, err := s.remote.AvatarHeadshotURL(ctx, acct.ID); err == nil {
		res.HeadshotURL = url
	}

	logf("OK %d '%s' verified=%s banned=%s active=%s rap=%s hats=%s badges=%d",
		acct.ID, acct.Username, domain.YesNo(sig.Verified), domain.YesNo(acct.Banned), domain.YesNo(sig.Active),
		domain.RAPString(sig.RAP), domain.HatsString(sig.Hats), len(sig.Badges))
	return res, nil
}
