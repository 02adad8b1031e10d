// Package acl is the Anti-Corruption Layer between the engine's C-style
// status results and the domain error taxonomy.
//
// # What is an Anti-Corruption Layer?
//
// The Anti-Corruption Layer (ACL) is a pattern from Domain-Driven Design that
// protects your domain model from external representations. Here it is the
// single place where a foreign [ports.Status] is observed, so that:
//
//   - Raw status codes never leak past the boundary
//   - Every code maps to exactly one domain error kind
//   - Every status object is released exactly once, on every path
//
// # Error Mapping
//
// The translation is total:
//   - INTERNAL → [domain.ErrInternal]
//   - NOT_FOUND → [domain.ErrNotFound]
//   - INVALID_ARG → [domain.ErrInvalidArgument]
//   - UNAVAILABLE → [domain.ErrUnavailable]
//   - UNSUPPORTED → [domain.ErrUnsupported]
//   - ALREADY_EXISTS → [domain.ErrAlreadyExists]
//   - UNKNOWN, CANCELLED and anything else → [domain.ErrUnknown]
//
// The status message is carried verbatim.
//
// # Going the Other Way
//
// Frontends written in Go report failures with domain errors but must hand
// the adapter a [ports.Status]. [FromError] performs that conversion so the
// code survives the round trip.
package acl
