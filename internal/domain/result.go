package domain

// ResultTable holds the structured output of the fixed warehouse query:
// an ordered column list and the rows in warehouse order. Produced fresh per
// request and returned to the caller unmodified.
type ResultTable struct {
	Columns  []string
	Rows     [][]interface{}
	RowCount int
}

// Row returns row i as a column-name → value mapping.
func (t *ResultTable) Row(i int) map[string]interface{} {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	m := make(map[string]interface{}, len(t.Columns))
	for j, col := range t.Columns {
		if j < len(t.Rows[i]) {
			m[col] = t.Rows[i][j]
		}
	}
	return m
}
