package gouncertain

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ============================================================
// Documents
// ============================================================

// LeafSpec declares a measurement either as a literal ("1.234(12)") or as a
// value with an optional error.
type LeafSpec struct {
	Literal string   `json:"literal,omitempty" yaml:"literal,omitempty" validate:"required_without=Value,excluded_with=Value"`
	Value   *float64 `json:"value,omitempty" yaml:"value,omitempty" validate:"required_without=Literal"`
	Error   *float64 `json:"error,omitempty" yaml:"error,omitempty" validate:"omitempty,gte=0"`
}

type CovarianceSpec struct {
	A     string  `json:"a" yaml:"a" validate:"required"`
	B     string  `json:"b" yaml:"b" validate:"required"`
	Value float64 `json:"value" yaml:"value"`
}

type OutputSpec struct {
	Name string                 `json:"name" yaml:"name" validate:"required"`
	Expr map[string]interface{} `json:"expr" yaml:"expr" validate:"required"`
}

// Document is the input of the propagate tool and of `uncertain eval`.
type Document struct {
	Leaves      map[string]LeafSpec `json:"leaves" yaml:"leaves" validate:"required,dive"`
	Covariances []CovarianceSpec    `json:"covariances,omitempty" yaml:"covariances,omitempty" validate:"dive"`
	Outputs     []OutputSpec        `json:"outputs" yaml:"outputs" validate:"required,min=1,dive"`
}

// Result is one evaluated output of a Document.
type Result struct {
	Name     string
	Quantity *Derived
}

var validate = validator.New()

// DecodeDocument reads a Document from YAML or JSON and validates it.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (doc *Document) Validate() error {
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}

// Env creates the document's leaves, in name order, and applies the
// covariances.
func (doc *Document) Env() (Env, error) {
	names := make([]string, 0, len(doc.Leaves))
	for name := range doc.Leaves {
		names = append(names, name)
	}
	sort.Strings(names)

	env := make(Env, len(names))
	for _, name := range names {
		spec := doc.Leaves[name]
		var l *Leaf
		switch {
		case spec.Literal != "":
			var err error
			if l, err = ParseLeaf(spec.Literal); err != nil {
				return nil, fmt.Errorf("leaf %q: %w", name, err)
			}
		case spec.Value != nil:
			l = NewLeaf(*spec.Value)
		default:
			return nil, fmt.Errorf("leaf %q: needs a literal or a value", name)
		}
		if spec.Error != nil {
			l.SetError(*spec.Error)
		}
		env[name] = l
	}

	for i, c := range doc.Covariances {
		a, ok := env[c.A]
		if !ok {
			return nil, fmt.Errorf("covariances[%d]: unknown leaf %q", i, c.A)
		}
		b, ok := env[c.B]
		if !ok {
			return nil, fmt.Errorf("covariances[%d]: unknown leaf %q", i, c.B)
		}
		if err := a.SetCovariance(b, c.Value); err != nil {
			return nil, fmt.Errorf("covariances[%d]: %w", i, err)
		}
	}
	return env, nil
}

// Evaluate builds every output, in document order.
func (doc *Document) Evaluate() ([]Result, error) {
	env, err := doc.Env()
	if err != nil {
		return nil, err
	}
	out := make([]Result, len(doc.Outputs))
	for i, o := range doc.Outputs {
		q, err := FromJSON(o.Expr, env)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", o.Name, err)
		}
		out[i] = Result{Name: o.Name, Quantity: q}
	}
	return out, nil
}
