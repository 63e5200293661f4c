// Package auth issues and validates the signed bearer tokens that
// authenticate API callers.
//
// Tokens are HS256-signed JWTs carrying {sub, iat, exp} with a fixed TTL.
// The server is stateless with respect to issued tokens: there is no
// revocation list, and a token stays valid until its expiry regardless of
// later server state.
//
// Login is a deliberate demo simplification: any credential whose username
// parses as an integer subject id is accepted and the password is ignored.
// Only the resulting token is checked on subsequent calls.
package auth
