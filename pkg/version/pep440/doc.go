// Package pep440 implements the version scheme of PEP 440 -- Version Identification and
// Dependency Specification.
//
// https://www.python.org/dev/peps/pep-0440/
//
// Only the version scheme (parsing, normalization, and ordering) is implemented; version
// specifiers are not.
package pep440
