// Package token mints the opaque bearer tokens handed out at registration,
// login, and password change.
//
// A token is a one-way digest of the user id and the issue time, rendered
// URL-safe. Tokens carry no claims and never expire; they stay valid until
// the user record's token field is cleared or overwritten.
package token
