package main

import (
	"context"
	"net/http"
	"time"

	"smartcity/libs/backend"
	"smartcity/libs/citydata"

	"github.com/golang-jwt/jwt/v5"
)

type validationOutcome string

const (
	outcomeAnonymous  validationOutcome = "anonymous"
	outcomeExpired    validationOutcome = "expired"
	outcomeRejected   validationOutcome = "rejected"
	outcomeValid      validationOutcome = "valid"
	outcomeUnverified validationOutcome = "unverified"
)

// tokenExpired reads the exp claim without verifying the signature; the
// gateway does not hold the backend's signing key. Opaque tokens and tokens
// without exp are never considered expired here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// validateStoredToken runs once after the store is hydrated. Expired JWTs
// and tokens the backend rejects are cleared; if the backend cannot be
// reached the token is kept so the session survives a backend restart.
func (a *App) validateStoredToken(ctx context.Context) validationOutcome {
	token, ok := a.tokens.Token()
	if !ok {
		return outcomeAnonymous
	}

	if tokenExpired(token, a.now()) {
		a.clearSession(ctx, "stored token expired")
		return outcomeExpired
	}

	raw, err := a.backend.Validate(ctx)
	if err != nil {
		if backend.IsStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			a.clearSession(ctx, "backend rejected stored token")
			return outcomeRejected
		}
		a.log.Warn("token validation unavailable, keeping stored token", "err", err)
		return outcomeUnverified
	}

	valid, user := citydata.NormalizeValidation(raw)
	if !valid {
		a.clearSession(ctx, "backend reported stored token invalid")
		return outcomeRejected
	}
	a.setSessionUser(user)
	return outcomeValid
}

func (a *App) clearSession(ctx context.Context, reason string) {
	a.setSessionUser(nil)
	if err := a.tokens.Clear(ctx); err != nil {
		a.log.Error("failed to clear stored token", "reason", reason, "err", err)
		return
	}
	a.log.Info("session cleared", "reason", reason)
}

func (a *App) setSessionUser(user *citydata.User) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	a.sessionUser = user
}

func (a *App) currentSessionUser() *citydata.User {
	a.sessionMu.RLock()
	defer a.sessionMu.RUnlock()
	if a.sessionUser == nil {
		return nil
	}
	u := *a.sessionUser
	return &u
}
