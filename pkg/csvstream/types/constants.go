package types

const (
	// DefaultDialect is the dialect a new Reader parses with.
	DefaultDialect = "excel"

	// Preset dialect names seeded into every registry.
	DialectUnix     = "unix"
	DialectExcel    = "excel"
	DialectExcelTab = "excel_tab"

	// LZ4FrameMagic is the little-endian magic number opening an lz4 frame.
	LZ4FrameMagic = 0x184D2204

	// UTF8BOM is stripped from the first line before header discovery
	UTF8BOM = "\xEF\xBB\xBF"
)
