// Package auth implements the credential and token authority guarding the
// service's protected resources.
//
// The core pieces:
//   - TokenService issues and validates HMAC-signed JWTs carrying the
//     principal's identity and roles. Validation is stateless: a token is
//     judged by its own bytes, the shared signing key, and the clock.
//   - Auther orchestrates registration and login against the users
//     repository, collapsing "unknown user" and "wrong password" into a
//     single error so callers cannot enumerate accounts.
//   - Policy is the static (resource, operation) -> role-set table consulted
//     by the jwtware middleware before a protected handler runs.
//
// Persistence runs through Bun; password hashing through bcrypt. Every
// component is safe for concurrent use: the signing key is immutable after
// startup and no request leaves state behind.
package auth
