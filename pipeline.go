package authkit

import "context"

// IssuanceHook enriches token extensions once per login, after credential
// verification and before signing. Hooks run in registration order and may
// only touch the Extensions mapping; registered identity claims are
// snapshot-checked after the hooks run.
type IssuanceHook func(ctx context.Context, identity Identity, claims *JWTClaims) error

// ProjectionHook shapes the request-scoped session from validated claims.
// Hooks run in registration order on every authenticated request.
type ProjectionHook func(session *SessionObject, claims Claims) error

// Pipeline carries the ordered hook sets that extend session issuance and
// projection. It is the system's extension point: enrichment steps append
// hooks without touching the orchestrator.
//
// The default behavior, applied before any registered hook, mirrors the
// core contract: the identity ID becomes the claim subject at issuance, and
// the claim subject becomes the session user ID at projection.
type Pipeline struct {
	issuance   []IssuanceHook
	projection []ProjectionHook
}

// NewPipeline returns an empty pipeline carrying only the default behavior.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// OnIssue appends issuance hooks
func (p *Pipeline) OnIssue(hooks ...IssuanceHook) *Pipeline {
	for _, h := range hooks {
		if h != nil {
			p.issuance = append(p.issuance, h)
		}
	}
	return p
}

// OnProject appends projection hooks
func (p *Pipeline) OnProject(hooks ...ProjectionHook) *Pipeline {
	for _, h := range hooks {
		if h != nil {
			p.projection = append(p.projection, h)
		}
	}
	return p
}

// issueClaims applies the default subject copy, then the registered hooks,
// then verifies no hook mutated an immutable claim.
func (p *Pipeline) issueClaims(ctx context.Context, identity Identity, claims *JWTClaims) error {
	if claims.RegisteredClaims.Subject == "" && identity != nil {
		claims.RegisteredClaims.Subject = identity.ID()
	}
	if claims.UID == "" && identity != nil {
		claims.UID = identity.ID()
	}

	snapshot := captureImmutableClaims(claims)

	for _, hook := range p.issuance {
		if err := hook(ctx, identity, claims); err != nil {
			return err
		}
	}

	return snapshot.validate(claims)
}

// projectSession derives a fresh SessionObject from validated claims.
func (p *Pipeline) projectSession(claims Claims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToParseData
	}

	session := sessionFromClaims(claims)

	for _, hook := range p.projection {
		if err := hook(session, claims); err != nil {
			return nil, err
		}
	}

	return session, nil
}

func normalizePipeline(p *Pipeline) *Pipeline {
	if p == nil {
		return NewPipeline()
	}
	return p
}
