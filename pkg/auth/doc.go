// Package auth carries the authenticated user identity through request
// contexts. Session management and credential validation are external
// collaborators; this package only stores and resolves the user id they
// produce.
package auth
