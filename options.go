package primitize

import (
	"log/slog"

	"github.com/viant/tagly/format/text"
)

//Option converter option
type Option func(c *Converter)

//Options represents converter options
type Options []Option

//Apply applies options
func (o Options) Apply(c *Converter) {
	if len(o) == 0 {
		return
	}
	for _, opt := range o {
		opt(c)
	}
}

//WithRegistry sets declaration registry
func WithRegistry(registry *Registry) Option {
	return func(c *Converter) {
		c.registry = registry
	}
}

//WithTagName sets field tag name
func WithTagName(name string) Option {
	return func(c *Converter) {
		c.tagName = name
	}
}

//WithCaseFormat formats keys of fields without explicit name
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return func(c *Converter) {
		c.caseFormat = caseFormat
	}
}

//WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}
