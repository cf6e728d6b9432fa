// Package solver implements the projected sequential-impulse (Gauss-Seidel)
// method for both constraint families of a simulation step:
//
//   - [ContactSolver]: non-penetration and Coulomb friction over persistent
//     contact manifolds, warm-started from the impulses the manifolds carry
//     across steps, with an optional split-impulse channel that corrects
//     penetration without injecting energy into the physical velocities.
//   - [ConstraintSolver]: arbitrary joints expressed as generic constraint
//     rows (Jacobian blocks, bias, impulse limits).
//
// Both solvers run a fixed number of passes over their rows in stable
// insertion order and mutate only the caller's constrained-velocity scratch
// arrays, never body state. They cannot fail: any input yields a result
// after the configured iteration count, with accuracy bounded by that count.
package solver
