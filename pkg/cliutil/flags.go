// Copyright (C) 2026  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil

import (
	"strconv"

	"github.com/spf13/pflag"
)

// Uint64Ptr is a pflag.Value that leaves *Ptr nil unless the flag is given, so that "not
// given" and "given as 0" can be told apart.
type Uint64Ptr struct {
	Ptr **uint64
}

var _ pflag.Value = Uint64Ptr{}

func (v Uint64Ptr) String() string {
	if v.Ptr == nil || *v.Ptr == nil {
		return ""
	}
	return strconv.FormatUint(**v.Ptr, 10)
}

func (v Uint64Ptr) Set(str string) error {
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return err
	}
	*v.Ptr = &n
	return nil
}

func (Uint64Ptr) Type() string { return "uint" }

// Int64Ptr is the int64 counterpart of Uint64Ptr.
type Int64Ptr struct {
	Ptr **int64
}

var _ pflag.Value = Int64Ptr{}

func (v Int64Ptr) String() string {
	if v.Ptr == nil || *v.Ptr == nil {
		return ""
	}
	return strconv.FormatInt(**v.Ptr, 10)
}

func (v Int64Ptr) Set(str string) error {
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return err
	}
	*v.Ptr = &n
	return nil
}

func (Int64Ptr) Type() string { return "int" }

// StringPtr is the string counterpart of Uint64Ptr.
type StringPtr struct {
	Ptr **string
}

var _ pflag.Value = StringPtr{}

func (v StringPtr) String() string {
	if v.Ptr == nil || *v.Ptr == nil {
		return ""
	}
	return **v.Ptr
}

func (v StringPtr) Set(str string) error {
	*v.Ptr = &str
	return nil
}

func (StringPtr) Type() string { return "string" }

// OptionalValue adds a flag whose value may be omitted, in which case it is set to dflt.  The
// value must then be attached with "=", as in "--flag=VALUE".
func OptionalValue(flags *pflag.FlagSet, value pflag.Value, name, dflt, usage string) {
	flags.Var(value, name, usage)
	flags.Lookup(name).NoOptDefVal = dflt
}
