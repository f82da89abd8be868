package submit

import (
	"fmt"
	"strings"
)

// NamingConvention selects how a slot's images are named on the wire. The
// backend is not self-consistent about this, so the convention is always
// declared per endpoint, never inferred from a slot's capacity.
type NamingConvention string

const (
	// NamingSingular sends the single image under the field name as-is
	// (for example "DonerImage").
	NamingSingular NamingConvention = "singular"

	// NamingRepeated sends every image as a repeated part under the same
	// field name (for example two "addharImage" parts).
	NamingRepeated NamingConvention = "repeated"

	// NamingIndexed sends each image under a suffixed field name
	// ("aadhaarImages_1", "aadhaarImages_2").
	NamingIndexed NamingConvention = "indexed"
)

// FileNaming binds one attachment slot to its wire representation.
type FileNaming struct {
	// Field is the multipart field name. Defaults to the slot name.
	Field string

	Convention NamingConvention
}

// ExtraField is an additional textual part sent alongside the schema fields,
// for endpoints expecting CSRF tokens, version stamps, or similar hints.
type ExtraField struct {
	Name  string
	Value string
}

// Extra returns an ExtraField for an arbitrary name/value pair.
func Extra(name string, value any) ExtraField {
	return ExtraField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs an extra field carrying the provided token. Callers
// supply the part name to match their backend expectations (for example
// "_csrf" or "csrf_token").
func CSRFToken(name, token string) ExtraField {
	return Extra(name, token)
}

// VersionField constructs an extra field used for optimistic locking or
// version-aware submissions.
func VersionField(name string, version any) ExtraField {
	return Extra(name, version)
}

// Binding describes one endpoint's submission contract: where the request
// goes and how each attachment slot is named on the wire.
type Binding struct {
	// Endpoint is the absolute URL the multipart POST targets.
	Endpoint string

	// FileNaming maps slot names to their declared wire conventions. Every
	// slot carrying images at submit time must appear here.
	FileNaming map[string]FileNaming

	// Extra fields are appended after the schema fields, in order.
	Extra []ExtraField
}

func (b Binding) validate() error {
	if strings.TrimSpace(b.Endpoint) == "" {
		return fmt.Errorf("submit: binding endpoint is required")
	}
	for slot, naming := range b.FileNaming {
		switch naming.Convention {
		case NamingSingular, NamingRepeated, NamingIndexed:
		default:
			return fmt.Errorf("submit: slot %q declares unknown naming convention %q", slot, naming.Convention)
		}
	}
	return nil
}

func (b Binding) namingFor(slot string) (FileNaming, bool) {
	naming, ok := b.FileNaming[slot]
	if !ok {
		return FileNaming{}, false
	}
	if strings.TrimSpace(naming.Field) == "" {
		naming.Field = slot
	}
	return naming, true
}
