package fat12

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aligator/fat12/internal/fat12test"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
)

const testDataRegion = 33

var errDisk = errors.New("disk unplugged")

// clusterData is the fake content of a whole cluster.
func clusterData(cluster uint16, size int) []byte {
	return bytes.Repeat([]byte{byte(cluster)}, size)
}

// testTable builds a FAT holding the given links.
func testTable(size int, links map[uint16]uint16) Table {
	table := make(Table, size)
	for cluster, next := range links {
		fat12test.PutFAT12(table, cluster, next)
	}
	return table
}

func testChainVolume(reader sectorReader, sectorsPerCluster uint8, table Table) *Volume {
	return &Volume{
		reader: reader,
		boot: BootSector{Geometry: Geometry{
			BytesPerSector:    512,
			SectorsPerCluster: sectorsPerCluster,
		}},
		fat:  table,
		root: &RootDirectory{DataRegionLBA: testDataRegion},
	}
}

func TestVolume_ReadFile(t *testing.T) {
	type read struct {
		lba     uint32
		cluster uint16
		err     error
	}
	tests := []struct {
		name              string
		sectorsPerCluster uint8
		table             Table
		entry             EntryHeader
		reads             []read
		want              []byte
		wantErr           []error
	}{
		{
			name:              "single cluster file",
			sectorsPerCluster: 1,
			table:             testTable(12, map[uint16]uint16{2: 0xFFF}),
			entry:             EntryHeader{FirstClusterLO: 2, FileSize: 100},
			reads:             []read{{lba: 33, cluster: 2}},
			want:              clusterData(2, 512),
		},
		{
			name:              "chain in FAT order, not in disk order",
			sectorsPerCluster: 1,
			table:             testTable(12, map[uint16]uint16{2: 5, 5: 3, 3: 0xFF8}),
			entry:             EntryHeader{FirstClusterLO: 2, FileSize: 1500},
			reads:             []read{{lba: 33, cluster: 2}, {lba: 36, cluster: 5}, {lba: 34, cluster: 3}},
			want:              append(append(clusterData(2, 512), clusterData(5, 512)...), clusterData(3, 512)...),
		},
		{
			name:              "multi sector clusters",
			sectorsPerCluster: 4,
			table:             testTable(12, map[uint16]uint16{3: 4, 4: 0xFFF}),
			entry:             EntryHeader{FirstClusterLO: 3, FileSize: 3000},
			reads:             []read{{lba: 37, cluster: 3}, {lba: 41, cluster: 4}},
			want:              append(clusterData(3, 2048), clusterData(4, 2048)...),
		},
		{
			name:              "empty file still reads its first cluster",
			sectorsPerCluster: 1,
			table:             testTable(12, map[uint16]uint16{2: 0xFFF}),
			entry:             EntryHeader{FirstClusterLO: 2, FileSize: 0},
			reads:             []read{{lba: 33, cluster: 2}},
			want:              clusterData(2, 512),
		},
		{
			name:              "the high cluster word is ignored",
			sectorsPerCluster: 1,
			table:             testTable(12, map[uint16]uint16{2: 0xFFF}),
			entry:             EntryHeader{FirstClusterHI: 0x1234, FirstClusterLO: 2, FileSize: 1},
			reads:             []read{{lba: 33, cluster: 2}},
			want:              clusterData(2, 512),
		},
		{
			name:              "bad cluster value is followed as a link",
			sectorsPerCluster: 1,
			table:             testTable(0xFF8*3/2+2, map[uint16]uint16{2: 0xFF7, 0xFF7: 0xFFF}),
			entry:             EntryHeader{FirstClusterLO: 2, FileSize: 1024},
			reads:             []read{{lba: 33, cluster: 2}, {lba: 33 + 0xFF5, cluster: 0xFF7}},
			want:              append(clusterData(2, 512), clusterData(0xFF7, 512)...),
		},
		{
			name:              "reserved cluster value is followed as a link",
			sectorsPerCluster: 1,
			table:             testTable(0xFF8*3/2+2, map[uint16]uint16{2: 0xFF0, 0xFF0: 0xFF8}),
			entry:             EntryHeader{FirstClusterLO: 2, FileSize: 1024},
			reads:             []read{{lba: 33, cluster: 2}, {lba: 33 + 0xFEE, cluster: 0xFF0}},
			want:              append(clusterData(2, 512), clusterData(0xFF0, 512)...),
		},
		{
			name:              "read error aborts the chain",
			sectorsPerCluster: 1,
			table:             testTable(12, map[uint16]uint16{2: 3, 3: 4, 4: 0xFFF}),
			entry:             EntryHeader{FirstClusterLO: 2, FileSize: 1536},
			reads:             []read{{lba: 33, cluster: 2}, {lba: 34, err: errDisk}},
			wantErr:           []error{ErrReadFile, errDisk},
		},
		{
			name:              "reserved first cluster",
			sectorsPerCluster: 1,
			table:             testTable(12, nil),
			entry:             EntryHeader{FirstClusterLO: 0, FileSize: 10},
			wantErr:           []error{ErrReadFile, ErrClusterOutOfRange},
		},
		{
			name:              "link behind the FAT",
			sectorsPerCluster: 1,
			table:             testTable(6, map[uint16]uint16{2: 7}),
			entry:             EntryHeader{FirstClusterLO: 2, FileSize: 1024},
			reads:             []read{{lba: 33, cluster: 2}, {lba: 38, cluster: 7}},
			wantErr:           []error{ErrReadFile, ErrClusterOutOfRange},
		},
		{
			name:              "cyclic chain",
			sectorsPerCluster: 1,
			table:             testTable(6, map[uint16]uint16{2: 3, 3: 2}),
			entry:             EntryHeader{FirstClusterLO: 2, FileSize: 1024},
			reads: []read{
				{lba: 33, cluster: 2}, {lba: 34, cluster: 3},
				{lba: 33, cluster: 2}, {lba: 34, cluster: 3},
			},
			wantErr: []error{ErrReadFile, ErrChainLoop},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCtrl := gomock.NewController(t)
			mockReader := NewMocksectorReader(mockCtrl)

			var calls []*gomock.Call
			for _, r := range tt.reads {
				var data []byte
				if r.err == nil {
					data = clusterData(r.cluster, int(tt.sectorsPerCluster)*512)
				}
				calls = append(calls, mockReader.EXPECT().
					ReadSectors(r.lba, uint32(tt.sectorsPerCluster)).
					Return(data, r.err))
			}
			gomock.InOrder(calls...)

			v := testChainVolume(mockReader, tt.sectorsPerCluster, tt.table)
			got, err := v.ReadFile(tt.entry)

			mockCtrl.Finish()

			for _, wantErr := range tt.wantErr {
				if !errors.Is(err, wantErr) {
					t.Errorf("Volume.ReadFile() error = %v, wantErr %v", err, wantErr)
				}
			}
			if len(tt.wantErr) == 0 && err != nil {
				t.Fatalf("Volume.ReadFile() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Volume.ReadFile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVolume_ReadFileTerminatesOnEveryEndOfChainValue(t *testing.T) {
	for value := uint16(0xFF8); value <= 0xFFF; value++ {
		mockCtrl := gomock.NewController(t)
		mockReader := NewMocksectorReader(mockCtrl)
		mockReader.EXPECT().
			ReadSectors(uint32(testDataRegion), uint32(1)).
			Return(clusterData(2, 512), nil).
			Times(1)

		v := testChainVolume(mockReader, 1, testTable(12, map[uint16]uint16{2: value}))
		got, err := v.ReadFile(EntryHeader{FirstClusterLO: 2, FileSize: 5})
		if err != nil {
			t.Fatalf("Volume.ReadFile() with end of chain 0x%03X error = %v", value, err)
		}
		if len(got) != 512 {
			t.Errorf("Volume.ReadFile() with end of chain 0x%03X read %d bytes, want 512", value, len(got))
		}

		mockCtrl.Finish()
	}
}

func TestVolume_ReadFileClosed(t *testing.T) {
	v := testChainVolume(nil, 1, testTable(12, nil))
	if err := v.Close(); err != nil {
		t.Fatalf("Volume.Close() error = %v", err)
	}

	if _, err := v.ReadFile(EntryHeader{FirstClusterLO: 2}); !errors.Is(err, ErrClosed) {
		t.Errorf("Volume.ReadFile() error = %v, want %v", err, ErrClosed)
	}
}

func TestVolume_Chain(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		entry   EntryHeader
		want    []uint16
		wantErr error
	}{
		{
			name:  "single cluster",
			table: testTable(12, map[uint16]uint16{2: 0xFFF}),
			entry: EntryHeader{FirstClusterLO: 2},
			want:  []uint16{2},
		},
		{
			name:  "fragmented file",
			table: testTable(12, map[uint16]uint16{2: 6, 6: 3, 3: 0xFF8}),
			entry: EntryHeader{FirstClusterLO: 2},
			want:  []uint16{2, 6, 3},
		},
		{
			name:    "cycle",
			table:   testTable(6, map[uint16]uint16{2: 3, 3: 2}),
			entry:   EntryHeader{FirstClusterLO: 2},
			want:    []uint16{2, 3, 2, 3},
			wantErr: ErrChainLoop,
		},
		{
			name:    "link behind the FAT",
			table:   testTable(6, map[uint16]uint16{2: 9}),
			entry:   EntryHeader{FirstClusterLO: 2},
			want:    []uint16{2, 9},
			wantErr: ErrClusterOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testChainVolume(nil, 1, tt.table)
			got, err := v.Chain(tt.entry)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Volume.Chain() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Volume.Chain() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
