package writer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleDocs()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Titulos", "Clientes"}, f.GetSheetList())

	rows, err := f.GetRows("Titulos")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, entryColumns, rows[0])
	assert.Equal(t, "004567", rows[1][7])
	assert.Equal(t, "1.234,56", rows[1][10])
	assert.Equal(t, "1234.56", rows[1][14])

	clients, err := f.GetRows("Clientes")
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, clientColumns, clients[0])
	assert.Equal(t, []string{
		"relatorio.pdf", "123", "CONSTRUÇÃO & CIA", "2", "1,2",
		"1.334,56", "40,50", "1.294,06",
		"1334.56", "40.5", "1294.06",
	}, clients[1])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Titulos")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
