package sheet

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "Pipe Data", []string{"Material", "Length", "Volume"}, [][]interface{}{
		{"Copper", 12.5, 0.01},
		{"Steel", 3, 0.2},
	})
	require.NoError(t, err)

	// column order in the request need not match the workbook
	rows, err := Read(&buf, []string{"Material"}, []string{"Volume", "Length"})
	require.NoError(t, err)
	want := []Row{
		{Text: []string{"Copper"}, Num: []float64{0.01, 12.5}},
		{Text: []string{"Steel"}, Num: []float64{0.2, 3}},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDropsIncompleteRows(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "Data", []string{"Name", "Value"}, [][]interface{}{
		{"a", 1},
		{"", 2},
		{"c", "n/a"},
		{"d"},
		{"e", 5},
	})
	require.NoError(t, err)

	rows, err := Read(&buf, []string{"Name"}, []string{"Value"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Text[0])
	assert.Equal(t, 5.0, rows[1].Num[0])
}

func TestReadMissingColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Data", []string{"Name"}, nil))

	_, err := Read(bytes.NewReader(buf.Bytes()), []string{"Name"}, []string{"Length", "Volume"})
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "Length, Volume")

	f := excelize.NewFile()
	var empty bytes.Buffer
	require.NoError(t, f.Write(&empty))
	_, err = Read(&empty, []string{"Name"}, nil)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestReadRejectsNonWorkbook(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a workbook")), nil, nil)
	assert.Error(t, err)
}

func TestWriteNumFmtKeepsFullValue(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "Data", []string{"Name", "Volume"}, [][]interface{}{{"a", 0.0017671}},
		NumFmt{Header: "Volume", Code: "0.00"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	shown, err := f.GetCellValue("Data", "B2")
	require.NoError(t, err)
	assert.Equal(t, "0.00", shown)

	rows, err := Read(&buf, []string{"Name"}, []string{"Volume"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0017671, rows[0].Num[0])

	err = Write(&bytes.Buffer{}, "Data", []string{"Name"}, nil, NumFmt{Header: "Volume", Code: "0.00"})
	assert.ErrorIs(t, err, ErrMissingColumns)
}
