// Package transformer holds the table-to-table steps of the pipeline. A step
// never mutates its input; it returns a new table (usually a Clone).
package transformer

import "banketl/internal/records"

// Transformer is one table-to-table step.
type Transformer interface {
	Apply(*records.Table) (*records.Table, error)
}

// Chain applies its steps in order and stops at the first error.
type Chain []Transformer

func (c Chain) Apply(in *records.Table) (*records.Table, error) {
	out := in
	for _, t := range c {
		var err error
		if out, err = t.Apply(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
