// Package services contains the course server's business logic: user
// authentication, course content commits and media presigning. Services are
// transport-agnostic; the gRPC layer maps their sentinel errors to status
// codes.
package services
