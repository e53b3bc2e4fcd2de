package layout

import (
	"fmt"
	"sort"
)

// Segment names.
const (
	SegmentBootloader     = "bootloader"
	SegmentPartitionTable = "partition-table"
	SegmentAppSelector    = "app-selector"
	SegmentApplication    = "application"
)

// Fixed file names of the ESP32 partition set siblings.
const (
	BootloaderFile     = "bootloader.bin"
	PartitionTableFile = "partitions.bin"
	AppSelectorFile    = "boot_app0.bin"
)

// CompressedFirmwareFile is the gzip image an ESP8266 backpack accepts over WiFi.
const CompressedFirmwareFile = "firmware.bin.gz"

// Segment is one region of flash written from one file.
type Segment struct {
	// Name is one of the Segment* constants
	Name string

	// Offset is the flash address the file is written to
	Offset uint32

	// File is the fixed file name found beside the primary file.
	// Empty for the application segment, which is the primary file itself.
	File string
}

// AddressLayout is the ordered list of segments written for a family.
type AddressLayout struct {
	Family   Family
	Segments []Segment
}

var layouts = map[Family]AddressLayout{
	ESP8266: {
		Family: ESP8266,
		Segments: []Segment{
			{Name: SegmentApplication, Offset: 0x0000},
		},
	},
	ESP32: {
		Family: ESP32,
		Segments: []Segment{
			{Name: SegmentBootloader, Offset: 0x1000, File: BootloaderFile},
			{Name: SegmentPartitionTable, Offset: 0x8000, File: PartitionTableFile},
			{Name: SegmentAppSelector, Offset: 0xe000, File: AppSelectorFile},
			{Name: SegmentApplication, Offset: 0x10000},
		},
	},
}

// ForFamily returns the address layout for f.
func ForFamily(f Family) (AddressLayout, error) {
	l, ok := layouts[f]
	if !ok {
		return AddressLayout{}, fmt.Errorf("no address layout for %s", f)
	}

	segs := make([]Segment, len(l.Segments))
	copy(segs, l.Segments)
	return AddressLayout{Family: l.Family, Segments: segs}, nil
}

// Siblings returns the segments stored in files beside the primary file.
func (l AddressLayout) Siblings() []Segment {
	var out []Segment
	for _, s := range l.Segments {
		if s.File != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks that segments are ordered, unique and end with the application.
func (l AddressLayout) Validate() error {
	if len(l.Segments) == 0 {
		return fmt.Errorf("%s layout has no segments", l.Family)
	}

	if !sort.SliceIsSorted(l.Segments, func(i, j int) bool {
		return l.Segments[i].Offset < l.Segments[j].Offset
	}) {
		return fmt.Errorf("%s layout segments are not ordered by offset", l.Family)
	}

	apps := 0
	for i, s := range l.Segments {
		if i > 0 && s.Offset == l.Segments[i-1].Offset {
			return fmt.Errorf("%s layout: %s overlaps %s at 0x%x",
				l.Family, s.Name, l.Segments[i-1].Name, s.Offset)
		}
		if s.Name == SegmentApplication {
			apps++
			if s.File != "" {
				return fmt.Errorf("%s layout: application segment must use the primary file", l.Family)
			}
		}
	}

	if apps != 1 {
		return fmt.Errorf("%s layout must contain exactly one application segment, has %d", l.Family, apps)
	}
	if l.Segments[len(l.Segments)-1].Name != SegmentApplication {
		return fmt.Errorf("%s layout: application must be the highest segment", l.Family)
	}

	return nil
}
