// Package core holds the contact model and the reconciliation engine: mutation
// tracking, the internal/external identity scheme, cross-store type changes
// and existence-based recovery of batch deletes. Store adapters depend on
// this package; core never imports them.
package core
