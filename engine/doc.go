// SPDX-License-Identifier: MIT

// Package engine runs contingency screening over every interval of a
// horizon.
//
// Each interval goes through a strictly sequential pipeline:
//
//	screen → build → factor/solve → compensate → evaluate
//
// Intervals are independent and processed by a fixed pool of workers. Each
// worker owns a private workspace (matrix assembly, factor, W block,
// deviation rows) sized once for the network, and writes its results into
// the report rows of the interval it processed; no locking is involved.
//
// A disconnected base case is an expected outcome: the interval is tagged
// StructuralInfeasible, its contingency stage is skipped and the run
// continues. A numerical failure (singular factor, non-finite values) is
// tagged InternalError and aborts the run.
//
// Example:
//
//	eng, err := engine.New(net, engine.WithWorkers(4), engine.WithViolationCost(1e3))
//	if err != nil { ... }
//	rep, err := eng.Run(ctx, states)
//	if err != nil { ... }
//	fmt.Println(rep.Feasible(), rep.TotalPenalty())
package engine
