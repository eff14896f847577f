// Package model defines the typed form definition the rest of the runtime
// consumes. A definition starts as an ordered list of field descriptors: a
// unique name, one of ten closed field types, optional choices for radio and
// select inputs, a star budget for ratings, and an optional condition gating
// visibility on another field's value. Building a definition validates every
// descriptor invariant up front (duplicate names, missing options or rating
// bounds, condition cycles, unknown types) and refuses to produce anything
// from a list that violates one, so a malformed form fails at initialization
// instead of misbehaving at render time. Compilation also derives display
// labels from field names, sanitizes host-authored rich text, and fixes the
// dependency order that conditional visibility is resolved in. Builders live
// in internal/model and return the types aliased here.
package model
