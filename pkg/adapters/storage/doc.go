// Package storage provides run storage implementations.
//
// Implementations:
//   - redis: Redis with JSON serialization and TTL
//   - memory: In-memory, used when no Redis address is configured
package storage
