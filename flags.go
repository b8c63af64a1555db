package nufs

// Mode bit constants, grounded on the teacher's flags.go, trimmed to the
// subset spec.md's inode record actually distinguishes: regular files and
// directories, plus owner/group/other permission bits for Stat display.

const (
	ModeIXOTH = 1 << iota
	ModeIWOTH
	ModeIROTH
	ModeIXGRP
	ModeIWGRP
	ModeIRGRP
	ModeIXUSR
	ModeIWUSR
	ModeIRUSR
)

const (
	// ModeIFREG marks a regular file, mirroring S_IFREG.
	ModeIFREG = 0x8000
	// ModeIFDIR marks a directory, mirroring S_IFDIR.
	ModeIFDIR = 0x4000
	// ModeIFMT masks the file-type bits out of a mode value.
	ModeIFMT = 0xf000
)

const ModeIRWXO = ModeIXOTH | ModeIWOTH | ModeIROTH
const ModeIRWXG = ModeIXGRP | ModeIWGRP | ModeIRGRP
const ModeIRWXU = ModeIXUSR | ModeIWUSR | ModeIRUSR

// IsDir reports whether a raw mode value has the directory bit set.
func IsDir(mode uint32) bool {
	return mode&ModeIFMT == ModeIFDIR
}

// IsRegular reports whether a raw mode value has the regular-file bit set.
func IsRegular(mode uint32) bool {
	return mode&ModeIFMT == ModeIFREG
}
