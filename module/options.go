package module

import (
	"github.com/rs/zerolog"

	"github.com/sghaida/odimod/container"
	"github.com/sghaida/odimod/internal/logger"
)

type options struct {
	log      zerolog.Logger
	inferrer Inferrer
	catalog  *container.Constructors
}

// Option configures New and Audit.
type Option func(*options)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithConstructors sets the constructor catalog. It is used by the default
// inferrer and by the audit to find which registered types need a missing one.
func WithConstructors(c *container.Constructors) Option {
	return func(o *options) {
		if c != nil {
			o.catalog = c
		}
	}
}

// WithInferrer replaces constructor-based dependency inference.
func WithInferrer(i Inferrer) Option {
	return func(o *options) { o.inferrer = i }
}

func buildOptions(opts []Option) options {
	o := options{
		log:     logger.Named("module"),
		catalog: container.DefaultConstructors,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.inferrer == nil {
		o.inferrer = ConstructorInferrer{Catalog: o.catalog}
	}
	return o
}
