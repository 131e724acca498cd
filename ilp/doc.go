// Package ilp implements a minimal 0/1 integer linear programming
// capability: a Backend that accepts binary variables and linear
// constraints, minimizes a linear objective, and reports back variable
// values.
//
// Backend's only implementation, branchAndBoundBackend, is a
// depth-first branch-and-bound exact search: a dedicated engine struct
// rather than closures, deterministic branching order, an admissible
// relaxation bound, and sparse deadline checks every 4096 node events.
// At every partial assignment it computes the achievable [min, max]
// range of each constraint's left-hand side over the still-unfixed
// variables and discards the branch the moment a constraint cannot
// possibly be satisfied.
//
// Backend is intentionally capability-shaped (Add*/Set*/Optimize/Value)
// rather than a single solve(model) call, so a future drop-in
// replacement backed by a real MIP library would not require
// tracking.Solver to change.
package ilp
