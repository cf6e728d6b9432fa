// Package collision implements the collision pipeline between the broad
// phase and the contact solver:
//
//   - [AABB]: support-mapped bounds, no shape-specific code
//   - [SweepPrune]: persistent broad-phase pair set with add/remove
//     notifications
//   - [TestOverlap]: GJK/EPA narrow phase over the margin-inflated support
//     mappings, producing one contact candidate per step
//   - [Manifold]: persistent per-pair contact cache (up to 4 points) that
//     carries warm-start impulses across steps by feature id
//
// Everything here is deterministic: traversal orders are fixed, tie-breaks
// are explicit, and no result depends on map iteration order.
package collision
