package zerv

import (
	"encoding/json"

	"sigs.k8s.io/yaml"

	"github.com/datawire/zerv/pkg/errors"
)

// Zerv is the canonical version model.  A Zerv is built fresh for each computation and is
// mutated in place only by the bump engine; it is not safe for concurrent mutation.
type Zerv struct {
	Schema Schema `json:"schema"`
	Vars   Vars   `json:"vars"`
}

// New validates the schema and returns a model.
func New(schema Schema, vars Vars) (*Zerv, error) {
	z := &Zerv{Schema: schema, Vars: vars}
	z.Schema.PrecedenceOrder = z.Schema.PrecedenceOrder.orDefault()
	if err := z.Validate(); err != nil {
		return nil, err
	}
	return z, nil
}

// Validate checks the schema and the variables.
func (z *Zerv) Validate() error {
	if err := z.Schema.Validate(); err != nil {
		return err
	}
	if pre := z.Vars.PreRelease; pre != nil {
		if _, ok := ParsePreReleaseLabel(string(pre.Label)); !ok {
			return errors.Newf(errors.ErrCodeArgument, "invalid pre-release label %q", string(pre.Label))
		}
	}
	return nil
}

// Clone returns a deep copy.
func (z *Zerv) Clone() *Zerv {
	return &Zerv{
		Schema: z.Schema.Clone(),
		Vars:   z.Vars.Clone(),
	}
}

func useNumber(d *json.Decoder) *json.Decoder {
	d.UseNumber()
	return d
}

// Marshal serializes a model to its YAML notation.
func Marshal(z *Zerv) ([]byte, error) {
	return yaml.Marshal(z)
}

// Unmarshal parses and validates the YAML notation produced by Marshal.  Unknown fields
// are rejected.
func Unmarshal(data []byte) (*Zerv, error) {
	var z Zerv
	if err := yaml.UnmarshalStrict(data, &z, useNumber); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, "invalid zerv document", err)
	}
	return New(z.Schema, z.Vars)
}

// MarshalSchema serializes a schema to its YAML notation.
func MarshalSchema(s Schema) ([]byte, error) {
	s.PrecedenceOrder = s.PrecedenceOrder.orDefault()
	return yaml.Marshal(s)
}

// ParseSchema parses and validates a schema in YAML notation.  precedence_order may be
// omitted, in which case the default order is used.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.UnmarshalStrict(data, &s, useNumber); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, "invalid schema", err)
	}
	s.PrecedenceOrder = s.PrecedenceOrder.orDefault()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
