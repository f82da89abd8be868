package formdef

// FieldDef declares one field of a form definition document.
type FieldDef struct {
	Key      string         `json:"key" yaml:"key"`
	Kind     string         `json:"kind" yaml:"kind"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
	Required bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Rule     string         `json:"rule,omitempty" yaml:"rule,omitempty"`
	Params   map[string]int `json:"params,omitempty" yaml:"params,omitempty"`
	Options  []string       `json:"options,omitempty" yaml:"options,omitempty"`
}

// SlotDef declares one attachment slot and its wire naming. Naming is always
// explicit; the backend's conventions differ per endpoint and are never
// inferred from capacity.
type SlotDef struct {
	Name   string `json:"name" yaml:"name"`
	Max    int    `json:"max" yaml:"max"`
	Naming string `json:"naming" yaml:"naming"`

	// Field overrides the multipart field name when it differs from the
	// slot name (for example slot "aadhaarImages" sent as "aadharImage").
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
}

// Definition is one complete form document.
type Definition struct {
	// Form is the unique name the definition is registered under.
	Form string `json:"form" yaml:"form"`

	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Endpoint is the backend path the submission posts to, joined with the
	// configured base URL at build time.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Auth marks endpoints that expect a bearer credential. Some of the
	// backend's endpoints are called unauthenticated.
	Auth bool `json:"auth,omitempty" yaml:"auth,omitempty"`

	Fields []FieldDef `json:"fields" yaml:"fields"`
	Slots  []SlotDef  `json:"slots,omitempty" yaml:"slots,omitempty"`
}
