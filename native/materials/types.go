package materials

// WasteType is the closed set of material categories keying both materials and
// incentives.
type WasteType uint8

const (
	WastePaper WasteType = iota + 1
	WastePET
	WastePlastic
	WasteMetal
	WasteGlass
)

// Valid reports whether the waste type is a member of the closed variant.
func (w WasteType) Valid() bool {
	switch w {
	case WastePaper, WastePET, WastePlastic, WasteMetal, WasteGlass:
		return true
	}
	return false
}

func (w WasteType) String() string {
	switch w {
	case WastePaper:
		return "paper"
	case WastePET:
		return "pet"
	case WastePlastic:
		return "plastic"
	case WasteMetal:
		return "metal"
	case WasteGlass:
		return "glass"
	}
	return "unknown"
}

// ParseWasteType resolves a textual waste type to the closed variant.
func ParseWasteType(s string) (WasteType, bool) {
	switch s {
	case "paper":
		return WastePaper, true
	case "pet":
		return WastePET, true
	case "plastic":
		return WastePlastic, true
	case "metal":
		return WasteMetal, true
	case "glass":
		return WasteGlass, true
	}
	return 0, false
}

// Material is one recyclable-waste record. CurrentOwner is stored redundantly
// for O(1) access; the transfer history remains the authoritative custody
// source.
type Material struct {
	ID           uint64
	WasteType    WasteType
	WeightGrams  uint64
	Submitter    [20]byte
	CurrentOwner [20]byte
	SubmittedAt  uint64
	Verified     bool
}

// TransferRecord is one custody hop in a material's chain. Records are
// append-only and immutable; consecutive records satisfy
// record[i].To == record[i+1].From.
type TransferRecord struct {
	MaterialID uint64
	From       [20]byte
	To         [20]byte
	Timestamp  uint64
}
