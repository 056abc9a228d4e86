// internal/table/table_test.go
package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_HeaderAndRows(t *testing.T) {
	in := "Number,Size,Tag\n100,1,temp.value\n\n101,1\n"

	tbl, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)

	assert.Equal(t, Row{"Number", "Size", "Tag"}, tbl.Header)
	require.Len(t, tbl.Rows, 2) // csv drops fully blank lines
	assert.Equal(t, "temp.value", tbl.Rows[0].Cell(2))
	assert.Equal(t, "", tbl.Rows[1].Cell(2), "ragged row reads as empty")
	assert.Equal(t, 2, tbl.Line(0))
	assert.Equal(t, 4, tbl.Line(1))
}

func TestRow_CellOutOfRange(t *testing.T) {
	r := Row{" a ", "b"}
	assert.Equal(t, "a", r.Cell(0))
	assert.Equal(t, "", r.Cell(-1))
	assert.Equal(t, "", r.Cell(5))
}

func TestRead_SemicolonAndCustomQuote(t *testing.T) {
	in := "Number;Description\n100;'Temp; outside \"north\"'\n101;'it''s'\n"

	tbl, err := Read(strings.NewReader(in), Options{Delimiter: ';', Quote: '\''})
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, `Temp; outside "north"`, tbl.Rows[0].Cell(1))
	assert.Equal(t, "it's", tbl.Rows[1].Cell(1))
}

func TestRead_SkipLinesAndBOM(t *testing.T) {
	in := "\ufeffexported by tool\nNumber,Tag\n1,a.b\n"

	tbl, err := Read(strings.NewReader(in), Options{SkipLines: 1})
	require.NoError(t, err)
	assert.Equal(t, "Number", tbl.Header.Cell(0))
	require.Len(t, tbl.Rows, 1)
}

func TestRead_SkipLinesCountsBlankLines(t *testing.T) {
	in := "\ntitle\nNumber,Tag\n1,a.b\n"

	tbl, err := Read(strings.NewReader(in), Options{SkipLines: 2})
	require.NoError(t, err)
	assert.Equal(t, Row{"Number", "Tag"}, tbl.Header)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "a.b", tbl.Rows[0].Cell(1))
	assert.Equal(t, 4, tbl.Line(0), "line numbers count skipped lines")
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Read(strings.NewReader("a,b\n"), Options{SkipLines: 3})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRead_DelimiterEqualsQuote(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n"), Options{Delimiter: '|', Quote: '|'})
	assert.Error(t, err)
}
