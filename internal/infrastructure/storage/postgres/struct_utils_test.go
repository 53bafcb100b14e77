package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRow struct {
	ID     string `db:"id" json:"id"`
	Series string `db:"series" json:"series"`
	Number int    `db:"number" json:"number"`
	Items  []int  `db:"-" json:"items"`
	Hidden string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[sampleRow]()
	assert.Equal(t, []string{"id", "series", "number"}, cols)

	ptrCols := ExtractDBColumns[*sampleRow]()
	assert.Equal(t, cols, ptrCols)
}

func TestStructToMap(t *testing.T) {
	row := sampleRow{ID: "abc", Series: "F001", Number: 7, Items: []int{1}, Hidden: "x"}

	m := StructToMap(row)
	assert.Equal(t, map[string]any{
		"id":     "abc",
		"series": "F001",
		"number": 7,
	}, m)

	// Pointer input behaves the same
	assert.Equal(t, m, StructToMap(&row))
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("nope"))
}
