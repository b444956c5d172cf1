// Package domain contains the pure value types and mass arithmetic for
// wormhole rolling: bounded mass intervals, wormhole capacity profiles and
// their per-state bands, ship mass profiles, transit actions, and the
// far-side fleet ledger. Everything here is deterministic; randomness and
// session lifecycles live in the session package.
package domain
