// Package ctgflow screens post-contingency branch flows for security
// constrained unit commitment.
//
// For every interval of a dispatch horizon it solves the DC power flow of
// the base case once, then evaluates every single-branch outage by a
// rank-one Sherman–Morrison–Woodbury correction against the same sparse
// factor instead of refactoring. Branches whose corrected apparent power
// exceeds the emergency rating accrue a penalty in the interval ×
// contingency matrix t_k_z.
//
// Under the hood, everything is organized under these subpackages:
//
//	network/       validated topology, per-interval State, delta set
//	connectivity/  union-find components and iterative bridge detection
//	sparse/        CSR assembly, minimum-degree order, threshold-pivoting LU
//	dcflow/        susceptance matrix, distributed slack, base-case solve
//	smw/           batched W_k columns, V_k and outage coefficients
//	violation/     two-tier bound filter, exact check, worst records
//	engine/        worker pool, tagged outcomes, logging/tracing/metrics
//	config/        YAML configuration via koanf
//	caseio/        YAML case format
//	cmd/ctgscreen  command-line front end
//
// Quick ASCII example:
//
//	    A───B        an outage of A–B routes the whole B→C transfer
//	     \  │        through B–C, and an outage of B–C routes it
//	      \ │        through A, overloading A–B and A–C
//	        C
//
//	go get github.com/katalvlaran/ctgflow
package ctgflow
