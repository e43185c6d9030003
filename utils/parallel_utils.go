package utils

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

// NewPartitionMap splits [0, maxIndex) into at most ParallelDegree buckets.
// A ParallelDegree <= 0 selects runtime.NumCPU().
func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree <= 0 {
		ParallelDegree = runtime.NumCPU()
	}
	if ParallelDegree > maxIndex {
		ParallelDegree = maxIndex
	}
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// Maximum imbalance of one item, the remainder is spread over the first buckets
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        = pm.MaxIndex % pm.ParallelDegree
	)
	if remainder != 0 {
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// ForEach runs f for every index, one goroutine per bucket. The first error
// cancels the context handed to the remaining work and is returned.
func (pm *PartitionMap) ForEach(ctx context.Context, f func(ctx context.Context, k int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		kMin, kMax := pm.GetBucketRange(bn)
		g.Go(func() error {
			for k := kMin; k < kMax; k++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := f(gctx, k); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
