// Package api implements the HTTP surface: login, the user CRUD routes,
// and the authenticated self-lookup.
package api
