// Package montecarlo implements the parallel stochastic estimator.
//
// A requested number of samples is split into per-worker shares (Partition),
// each share is sampled by a worker goroutine with its own private random
// stream (Sampler, RunWorker), and the per-worker tallies (Accumulator) are
// folded into one Estimate once every worker has been joined (Estimator).
//
// Workers share no mutable state while sampling. The only synchronization
// point is the join performed by Estimator.Estimate, after which results are
// combined in worker-index order; because the fold is a plain sum, the result
// does not depend on completion order.
//
// Seeds for the per-worker streams come from a SeedSource that never hands
// out the same seed twice, so concurrent streams are independent.
package montecarlo
