package datatable

import (
	"github.com/hupe1980/datatable/codec"
	"github.com/hupe1980/datatable/deepcopy"
)

type options struct {
	codec   codec.Codec
	convert deepcopy.Converter
	logger  *Logger
}

// Option configures DataModel construction.
//
// Options exist to avoid exploding the constructor surface; every
// constructor variant accepts the same set.
type Option func(*options)

// WithCodec configures the codec used for serialization and for the
// canonical structural-string form of comparisons.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithConverter configures the conversion hook applied by the deep-copy
// engine to every boundary-crossing value. The hook is fixed at
// construction and read-only thereafter.
//
// If nil is passed, the identity hook is used.
func WithConverter(fn deepcopy.Converter) Option {
	return func(o *options) {
		o.convert = fn
	}
}

// WithLogger configures structured logging. If nil is passed, logging is
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

func applyOptions(opts []Option) options {
	o := options{
		codec:  codec.Default,
		logger: NoopLogger(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
