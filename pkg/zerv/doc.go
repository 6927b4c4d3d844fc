// Copyright (C) 2026  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package zerv implements the canonical version model: a set of optional version variables
// (Vars) plus a Schema describing how to render them.
//
// A Zerv value can be lifted from either a PEP 440 or a SemVer version, mutated by the bump
// engine, and lowered back into either grammar.  It can also be serialized to and from a
// human-editable YAML notation, which is how schemas are described as well.
package zerv
