package save

// On-disk layout of an Elden Ring save file (.sl2). The game only accepts
// files of exactly SaveFileSize bytes with these offsets, so nothing here
// may change without breaking compatibility.
const (
	// SaveFileSize is the exact size of a save file in bytes.
	SaveFileSize = 0x1ba03d0

	// Magic is the structural header tag at the start of every save file.
	Magic = "BND"

	// SlotCount is the number of character slots in a save file.
	SlotCount = 10

	// ActiveFlag marks a slot as the selected one in the active flags
	// section.
	ActiveFlag = 1

	slotHeaderSize = 0x24c
)

// The named sections of the format. SaveHeaderSection holds the per-slot
// character headers and is the range the stored checksum must digest; the
// Steam ID sits outside it, so replacing the ID leaves the header digest
// unchanged.
var (
	HeaderBNDSection          = Section{Offset: 0x0, Length: 3}
	SaveHeaderChecksumSection = Section{Offset: 0x19003a0, Length: 16}
	SteamIDSection            = Section{Offset: 0x19003b4, Length: 8}
	ActiveSection             = Section{Offset: 0x1901d04, Length: SlotCount}
	SaveHeaderSection         = Section{Offset: 0x1901d0e, Length: SlotCount * slotHeaderSize}
)

// Field placement inside one slot header.
const (
	slotNameLength    = 0x22
	slotLevelOffset   = 0x22
	slotSecondsOffset = 0x26
)

// slotSections returns the name, level and seconds-played sections of the
// given slot. Slot fields live inside the save header region, so edits to
// them would invalidate the stored checksum; this tool only reads them.
func slotSections(slot int) (name, level, seconds Section) {
	base := SaveHeaderSection.Offset + slot*slotHeaderSize
	name = Section{Offset: base, Length: slotNameLength}
	level = Section{Offset: base + slotLevelOffset, Length: 1}
	seconds = Section{Offset: base + slotSecondsOffset, Length: 4}
	return name, level, seconds
}
