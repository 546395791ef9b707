package primitize

type (
	//Modifier replaces a field value before any other processing
	Modifier func(record interface{}, value interface{}) (interface{}, error)

	//Validator reports whether a field value is valid and why not
	Validator func(record interface{}, value interface{}) (bool, string)

	//Writer receives a field value instead of the output mapping
	Writer func(record interface{}, value interface{}) error

	//Field represents per field conversion settings
	Field struct {
		Rename       string
		UnsetIfEmpty bool
		Ignore       bool
		Modifier     Modifier
		Validator    Validator
		Writer       Writer

		Default        interface{}
		DefaultFactory func() interface{}
		Metadata       map[string]interface{}
	}

	//FieldOption represents field option
	FieldOption func(f *Field)

	//FieldOptions represents field options
	FieldOptions []FieldOption

	//Spec binds field options to a struct field name
	Spec struct {
		Name    string
		Options FieldOptions
	}
)

// IdentityModifier returns value unchanged
func IdentityModifier(_ interface{}, value interface{}) (interface{}, error) {
	return value, nil
}

// AlwaysValid accepts any value
func AlwaysValid(_ interface{}, _ interface{}) (bool, string) {
	return true, ""
}

// Apply applies options
func (o FieldOptions) Apply(f *Field) {
	for _, opt := range o {
		if opt != nil {
			opt(f)
		}
	}
}

// Key returns output key for supplied field name
func (f *Field) Key(name string) string {
	if f.Rename != "" {
		return f.Rename
	}
	return name
}

// HasWriter returns true if field value is diverted to a writer
func (f *Field) HasWriter() bool {
	return f.Writer != nil
}

// DefaultValue returns value used for a never assigned field
func (f *Field) DefaultValue() interface{} {
	if f.DefaultFactory != nil {
		return f.DefaultFactory()
	}
	return f.Default
}

// ensureDefaults fills unset hooks, writer stays optional
func (f *Field) ensureDefaults() {
	if f.Modifier == nil {
		f.Modifier = IdentityModifier
	}
	if f.Validator == nil {
		f.Validator = AlwaysValid
	}
}

// NewField creates a field with defaults overlaid by options
func NewField(opts ...FieldOption) *Field {
	ret := &Field{}
	FieldOptions(opts).Apply(ret)
	ret.ensureDefaults()
	return ret
}

// Describe creates a field spec for a struct field name
func Describe(name string, opts ...FieldOption) *Spec {
	return &Spec{Name: name, Options: opts}
}

// WithRename sets output key
func WithRename(name string) FieldOption {
	return func(f *Field) {
		f.Rename = name
	}
}

// WithUnsetIfEmpty omits nil and zero length values
func WithUnsetIfEmpty() FieldOption {
	return func(f *Field) {
		f.UnsetIfEmpty = true
	}
}

// WithIgnore excludes field from conversion
func WithIgnore() FieldOption {
	return func(f *Field) {
		f.Ignore = true
	}
}

// WithModifier sets value modifier
func WithModifier(modifier Modifier) FieldOption {
	return func(f *Field) {
		f.Modifier = modifier
	}
}

// WithValidator sets value validator
func WithValidator(validator Validator) FieldOption {
	return func(f *Field) {
		f.Validator = validator
	}
}

// WithWriter diverts value to a writer
func WithWriter(writer Writer) FieldOption {
	return func(f *Field) {
		f.Writer = writer
	}
}

// WithDefault sets value for a never assigned field
func WithDefault(value interface{}) FieldOption {
	return func(f *Field) {
		f.Default = value
	}
}

// WithDefaultFactory sets value factory for a never assigned field
func WithDefaultFactory(factory func() interface{}) FieldOption {
	return func(f *Field) {
		f.DefaultFactory = factory
	}
}

// WithMetadata adds caller metadata
func WithMetadata(key string, value interface{}) FieldOption {
	return func(f *Field) {
		if f.Metadata == nil {
			f.Metadata = make(map[string]interface{})
		}
		f.Metadata[key] = value
	}
}
