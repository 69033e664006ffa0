package zipfmt

// Flags is the general-purpose bit flag field (gp_flags) shared by the
// Local File header and Central Directory entry. Unknown bits are
// preserved (the type is a plain uint16) but not acted upon, per the
// PKZIP APPNOTE.
type Flags uint16

const (
	FlagEncrypted       Flags = 1 << 0
	FlagMaximum         Flags = 1 << 1
	FlagFast            Flags = 1 << 2
	FlagDataDescriptor  Flags = 1 << 3
	FlagEnhancedDeflate Flags = 1 << 4
	FlagPatchData       Flags = 1 << 5
	FlagStrongEncrypt   Flags = 1 << 6
	FlagUTF8            Flags = 1 << 11
	FlagMaskedCDRecords Flags = 1 << 13

	// FlagSuperFast is bits 1+2 set together (deflate "super fast").
	FlagSuperFast = FlagMaximum | FlagFast
)

func (f Flags) Encrypted() bool       { return f&FlagEncrypted != 0 }
func (f Flags) DataDescriptor() bool  { return f&FlagDataDescriptor != 0 }
func (f Flags) UTF8() bool            { return f&FlagUTF8 != 0 }
func (f Flags) MaskedCDRecords() bool { return f&FlagMaskedCDRecords != 0 }

// Bits returns the raw bitset, used as a clustering fingerprint dimension.
func (f Flags) Bits() uint16 { return uint16(f) }
