// Package demos is the catalog of reactive-stream demonstrations.
//
// Each demo is self-contained: it builds its own sources, subscribes, prints
// every received value on its own line through Env and returns once the
// stream terminates or ctx is done. Demos share nothing but the Env they are
// handed.
//
// Groups:
//   - creation and mapping: maps, pipes, reduce
//   - HTTP: api, api-alt (call the hello-world server)
//   - hot and cold sources: cold, hot, subject, behavior-subject
//   - higher order and combination: switch-map, combine-latest, merge
//   - errors: errors, retry
//   - unsubscription: take-while, take-until, unsubscribe
//   - backpressure: debounce, throttle, buffer
package demos
