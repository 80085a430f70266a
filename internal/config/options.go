// Package config holds the target capability options that gate
// algebraic rewrite rules.
package config

import (
	"sort"
	"strings"

	"github.com/nikandfor/errors"
)

// Options specify what the target hardware supports and which lowerings
// the compiler should perform. The zero value describes a target that
// supports every operation natively and lowers nothing.
type Options struct {
	// LowerIDiv lowers unsigned division and modulo by powers of two
	// to shifts and masks.
	LowerIDiv bool

	LowerFsat   bool // fsat(x) → fmin(fmax(x, 0), 1)
	LowerFpow   bool // fpow(x, y) → fexp2(flog2(x) * y)
	LowerFlrp16 bool
	LowerFlrp32 bool
	LowerFlrp64 bool

	// FuseFFMA* fuse a multiply feeding an add into ffma.
	FuseFFMA16 bool
	FuseFFMA32 bool
	FuseFFMA64 bool

	// LowerFFMA* split ffma into a multiply and an add.
	LowerFFMA16 bool
	LowerFFMA32 bool
	LowerFFMA64 bool

	HasBitfieldExtract   bool
	LowerBitfieldExtract bool

	LowerSub  bool // isub/fsub → add of the negation
	LowerIneg bool // ineg/fneg → subtraction from zero

	// PreserveSignedZero disables rewrites that may turn -0.0 into +0.0.
	PreserveSignedZero bool
}

type option struct {
	name string
	doc  string
	get  func(o *Options) *bool
}

var options = []option{
	{"lower_idiv", "lower unsigned division by powers of two to shifts", func(o *Options) *bool { return &o.LowerIDiv }},
	{"lower_fsat", "lower fsat to fmin/fmax", func(o *Options) *bool { return &o.LowerFsat }},
	{"lower_fpow", "lower fpow to fexp2/flog2", func(o *Options) *bool { return &o.LowerFpow }},
	{"lower_flrp16", "lower 16-bit flrp", func(o *Options) *bool { return &o.LowerFlrp16 }},
	{"lower_flrp32", "lower 32-bit flrp", func(o *Options) *bool { return &o.LowerFlrp32 }},
	{"lower_flrp64", "lower 64-bit flrp", func(o *Options) *bool { return &o.LowerFlrp64 }},
	{"fuse_ffma16", "fuse 16-bit multiply-add", func(o *Options) *bool { return &o.FuseFFMA16 }},
	{"fuse_ffma32", "fuse 32-bit multiply-add", func(o *Options) *bool { return &o.FuseFFMA32 }},
	{"fuse_ffma64", "fuse 64-bit multiply-add", func(o *Options) *bool { return &o.FuseFFMA64 }},
	{"lower_ffma16", "split 16-bit ffma", func(o *Options) *bool { return &o.LowerFFMA16 }},
	{"lower_ffma32", "split 32-bit ffma", func(o *Options) *bool { return &o.LowerFFMA32 }},
	{"lower_ffma64", "split 64-bit ffma", func(o *Options) *bool { return &o.LowerFFMA64 }},
	{"has_bfe", "target has bitfield extract", func(o *Options) *bool { return &o.HasBitfieldExtract }},
	{"lower_bfe", "lower bitfield extract to shifts", func(o *Options) *bool { return &o.LowerBitfieldExtract }},
	{"lower_sub", "lower subtraction to negate and add", func(o *Options) *bool { return &o.LowerSub }},
	{"lower_ineg", "lower negation to subtraction", func(o *Options) *bool { return &o.LowerIneg }},
	{"preserve_signed_zero", "keep the sign of floating point zero", func(o *Options) *bool { return &o.PreserveSignedZero }},
}

// conflicts lists option pairs that cannot both be enabled; each pair
// would make the rule tables rewrite back and forth forever.
var conflicts = [][2]string{
	{"fuse_ffma16", "lower_ffma16"},
	{"fuse_ffma32", "lower_ffma32"},
	{"fuse_ffma64", "lower_ffma64"},
	{"has_bfe", "lower_bfe"},
	{"lower_sub", "lower_ineg"},
}

// Names returns the sorted list of option names.
func Names() []string {
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.name
	}
	sort.Strings(names)
	return names
}

// Doc returns the one-line description of the named option.
func Doc(name string) string {
	for _, opt := range options {
		if opt.name == name {
			return opt.doc
		}
	}
	return ""
}

// IsOption reports whether name is a known option.
func IsOption(name string) bool {
	for _, opt := range options {
		if opt.name == name {
			return true
		}
	}
	return false
}

// Lookup returns the value of the named option.
func (o *Options) Lookup(name string) (bool, error) {
	for _, opt := range options {
		if opt.name == name {
			return *opt.get(o), nil
		}
	}
	return false, errors.New("unknown option %q", name)
}

// Set assigns the named option.
func (o *Options) Set(name string, v bool) error {
	for _, opt := range options {
		if opt.name == name {
			*opt.get(o) = v
			return nil
		}
	}
	return errors.New("unknown option %q", name)
}

// Parse applies a comma separated list of option names. A name prefixed
// with '-' clears the option.
func (o *Options) Parse(list string) error {
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		v := true
		if strings.HasPrefix(item, "-") {
			v = false
			item = item[1:]
		}
		if err := o.Set(item, v); err != nil {
			return errors.Wrap(err, "parse %q", list)
		}
	}
	return nil
}

// Validate reports the first pair of contradictory options that are
// both enabled.
func (o *Options) Validate() error {
	for _, c := range conflicts {
		a, _ := o.Lookup(c[0])
		b, _ := o.Lookup(c[1])
		if a && b {
			return errors.New("options %s and %s are mutually exclusive", c[0], c[1])
		}
	}
	return nil
}

// String returns the enabled options as a comma separated list.
func (o *Options) String() string {
	var on []string
	for _, name := range Names() {
		if v, _ := o.Lookup(name); v {
			on = append(on, name)
		}
	}
	return strings.Join(on, ",")
}
