// Package calibration measures which pipeline batch size writes coordinates
// fastest on the current machine and caches the answer in a profile.
package calibration

import "runtime"

// CandidateBatchSizes returns the batch sizes to measure. Larger batches are
// only tried on machines with enough cores to keep the producer and the sink
// busy at the same time.
func CandidateBatchSizes() []int {
	sizes := []int{64, 256, 1024, 4096}
	numCPU := runtime.NumCPU()
	if numCPU > 1 {
		sizes = append(sizes, 16384)
	}
	if numCPU >= 8 {
		sizes = append(sizes, 65536)
	}
	return sizes
}
