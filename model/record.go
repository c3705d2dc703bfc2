package model

// Record pairs one identifier with the first-column values of the first
// two rows of a table. Any field may be empty.
type Record struct {
	Identifier      string `json:"identifier" yaml:"identifier"`
	FirstCellValue  string `json:"first_cell_value" yaml:"first_cell_value"`
	SecondCellValue string `json:"second_cell_value" yaml:"second_cell_value"`
}

// Fields returns the record values in column order.
func (r Record) Fields() []string {
	return []string{r.Identifier, r.FirstCellValue, r.SecondCellValue}
}

// IsEmpty reports whether every field is empty.
func (r Record) IsEmpty() bool {
	return r.Identifier == "" && r.FirstCellValue == "" && r.SecondCellValue == ""
}
