// Package accounts implements the credential core of a user-account
// backend: signup, login, and self-service profile management behind
// short-lived bearer tokens.
//
// Credential flow:
//   - CredentialService orchestrates the username policy, the Argon2id
//     hasher, the identity store, and the token service. Signup hashes
//     and persists; login fetches by email, cross-checks the username,
//     and verifies the stored hash. Both mint an AccessToken on success.
//   - Uniqueness is enforced by the storage layer. The store translates
//     driver-specific unique-constraint errors into DuplicateFieldError
//     naming the collided column, and the service treats that signal as
//     authoritative rather than pre-checking for collisions.
//
// Tokens:
//   - TokenService signs HS256 JWTs carrying the identity's id, email,
//     and username, and validates inbound tokens for the bearer guard.
//     Expired or malformed tokens resolve to unauthenticated outcomes,
//     never generic faults.
//
// Every expected failure is a rich *errors.Error with a stable text
// code, so HTTP layers can map outcomes without string matching.
package accounts
