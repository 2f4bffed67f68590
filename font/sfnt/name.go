package sfnt

import (
	"fmt"

	"seehuhn.de/go/sfnt/name"
)

// nameTable builds the name table. The library writes the version as a
// three digit decimal and has no room for the vendor URL, so this replaces
// the table it generates.
func (b *builder) nameTable() []byte {
	version := fmt.Sprintf("Version %d.%d", b.major, b.minor)
	t := &name.Table{
		Copyright:      b.opts.Copyright,
		Family:         b.family,
		Subfamily:      "Regular",
		Identifier:     b.family + ":" + version,
		FullName:       b.family,
		Version:        version,
		PostScriptName: postName(b.family),
		Description:    b.opts.Description,
		VendorURL:      b.opts.URL,
	}
	info := &name.Info{
		Mac:     name.Tables{"en": t},
		Windows: name.Tables{"en-US": t},
	}
	return info.Encode(1)
}
