// Package authkit provides a credential authentication and session-issuance
// core: password verification against a pluggable identity store, stateless
// JWT session tokens, and HTTP helpers for cookie-based session transport.
//
// Identity providers:
//   - IdentityProvider is the extension boundary. The built-in
//     CredentialsProvider verifies an (identifier, secret) pair against a
//     stored bcrypt hash; additional providers register through
//     Auther.WithProvider and are consulted in order.
//
// Session pipeline:
//   - Pipeline carries two ordered hook sets. Issuance hooks enrich token
//     extensions once per login, before signing; projection hooks shape the
//     request-scoped SessionObject on every verified request. Registered
//     claims (sub, iss, aud, iat, exp, jti) are snapshot-checked after the
//     issuance hooks run, so extensions stay open while identity claims stay
//     stable.
//
// Failure policy:
//   - Every login failure, including store outages and malformed payloads,
//     collapses to ErrInvalidCredentials at the login boundary. Token decode
//     failures stay typed (expired, bad signature, malformed) for the
//     trusted caller; HTTP middleware folds them back into a single
//     redirect-to-login outcome.
package authkit
