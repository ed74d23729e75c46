// Package auth implements the credential and session core of the service.
//
// Passwords are never stored. Registration derives an argon2id hash with a
// fresh random salt and keeps only the self-describing hash string, so two
// accounts with the same password share nothing and verification recomputes
// the hash from the parameters embedded in the stored string.
//
// Sessions are stateless: a successful login produces an HS256-signed JWT
// carrying the account id and a snapshot of its role. Nothing is kept
// server-side and there is no revocation list, which means a promoted or
// demoted account keeps its old role on tokens issued before the change,
// until those tokens expire. That staleness window is bounded by the token
// lifetime and is an accepted tradeoff for not paying a store lookup on
// every request.
//
// The signing secret comes from the environment and is scrubbed from it
// after being read.
package auth
