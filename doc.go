// Package tasks implements a multi-tenant task-tracking API around a compact
// authentication and authorization core.
//
// Auth core:
//   - HashPassword / ComparePasswordAndHash wrap bcrypt behind a SHA-256
//     pre-digest so password length never affects hashing cost.
//   - TokenService signs and validates purpose-tagged HS256 tokens. Access
//     tokens authenticate API calls; confirmation tokens redeem email
//     confirmation exactly once. Signature, expiry, subject, and purpose are
//     independent ordered checks with distinct error classifications.
//   - Auther ties the two together: Authenticate checks credentials before
//     confirmation state, Login mints access tokens, IdentityFromToken
//     resolves a bearer token into a typed *User for the request.
//
// Ownership:
//   - Every task operation is scoped by owner id at the query layer. A task
//     that exists but belongs to someone else is indistinguishable from one
//     that does not exist.
//
// The HTTP layer (Fiber) is a thin translation: RegisterRoutes mounts the
// endpoints and RenderError maps the classified errors onto status codes,
// always 401 with WWW-Authenticate for the auth taxonomy, never 500.
package tasks
