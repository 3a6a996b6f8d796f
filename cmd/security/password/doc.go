// Package password provides password policy validation and Argon2id hashing.
//
// Policy rules are checked in a fixed order (length, lowercase, uppercase,
// digit) so that callers always report the first violated rule.
package password
