package domain

import (
	"context"
	"fmt"
	"strings"
)

// QuerySpec identifies the one table the gateway is permitted to read. It is
// built from configuration exactly once at startup, never from user input,
// so there is no injection surface.
type QuerySpec struct {
	Project string
	Dataset string
	Table   string
}

// NewQuerySpec validates the three identifiers and returns the spec.
func NewQuerySpec(project, dataset, table string) (QuerySpec, error) {
	for _, part := range []struct{ name, v string }{
		{"project", project}, {"dataset", dataset}, {"table", table},
	} {
		if strings.TrimSpace(part.v) == "" {
			return QuerySpec{}, ErrValidation("query spec: %s must not be empty", part.name)
		}
	}
	return QuerySpec{Project: project, Dataset: dataset, Table: table}, nil
}

// FullyQualifiedTable returns the project.dataset.table name.
func (s QuerySpec) FullyQualifiedTable() string {
	return fmt.Sprintf("%s.%s.%s", s.Project, s.Dataset, s.Table)
}

// Connector issues the fixed read query against the external warehouse.
// Implemented by warehouse.Connector; tests substitute their own.
type Connector interface {
	Query(ctx context.Context, spec QuerySpec) (*ResultTable, error)
}
