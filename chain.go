package fat12

import (
	"fmt"
	"math"

	"github.com/aligator/fat12/checkpoint"
)

// clusterLBA maps a data cluster to its first sector.
func (v *Volume) clusterLBA(cluster uint16) (uint32, error) {
	if fatEntry(cluster) < firstDataCluster {
		return 0, fmt.Errorf("%w: cluster %d is reserved", ErrClusterOutOfRange, cluster)
	}

	lba := int64(v.root.DataRegionLBA) + int64(cluster-uint16(firstDataCluster))*int64(v.boot.SectorsPerCluster)
	if lba > math.MaxUint32 {
		return 0, fmt.Errorf("%w: cluster %d maps behind the addressable sectors", ErrClusterOutOfRange, cluster)
	}
	return uint32(lba), nil
}

// ReadFile reads all clusters of the chain starting at the first cluster of entry.
// The result is a multiple of the cluster size. Only the first entry.FileSize
// bytes are file content, the rest is whatever follows inside the last cluster.
//
// The first cluster is always read, even for empty files. Reserved and bad
// cluster values (0xFF0-0xFF7) are followed like ordinary links, only
// 0xFF8-0xFFF end the chain.
func (v *Volume) ReadFile(entry EntryHeader) ([]byte, error) {
	if err := v.checkOpen(); err != nil {
		return nil, err
	}

	clusterSize := v.boot.ClusterSize()
	cluster := entry.FirstCluster()
	maxClusters := v.fat.Len()

	var content []byte
	for clusters := 1; ; clusters++ {
		if clusters > maxClusters {
			return nil, checkpoint.Wrap(fmt.Errorf("%w: more than %d clusters", ErrChainLoop, maxClusters), ErrReadFile)
		}

		lba, err := v.clusterLBA(cluster)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadFile)
		}

		data, err := v.reader.ReadSectors(lba, uint32(v.boot.SectorsPerCluster))
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadFile)
		}
		if content == nil {
			content = make([]byte, 0, clusterSize)
		}
		content = append(content, data...)

		next, err := v.fat.Entry(cluster)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadFile)
		}

		if next.IsEOF() {
			v.logger().Debugw("read cluster chain", "firstCluster", entry.FirstCluster(), "clusters", clusters, "bytes", len(content))
			return content, nil
		}
		cluster = next.Value()
	}
}

// Chain returns the cluster numbers of the file described by entry in chain order.
// It only consults the FAT and never reads file data.
func (v *Volume) Chain(entry EntryHeader) ([]uint16, error) {
	if err := v.checkOpen(); err != nil {
		return nil, err
	}

	cluster := entry.FirstCluster()
	maxClusters := v.fat.Len()

	var chain []uint16
	for {
		if len(chain) >= maxClusters {
			return chain, checkpoint.Wrap(fmt.Errorf("%w: more than %d clusters", ErrChainLoop, maxClusters), ErrReadFile)
		}
		chain = append(chain, cluster)

		next, err := v.fat.Entry(cluster)
		if err != nil {
			return chain, checkpoint.Wrap(err, ErrReadFile)
		}
		if next.IsEOF() {
			return chain, nil
		}
		if next.IsBad() || next.IsReserved() {
			v.logger().Warnw("cluster chain links through a reserved value", "cluster", cluster, "next", next.String())
		}
		cluster = next.Value()
	}
}
