package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/facilitymetrics/core/model"
)

var sample = map[string]model.ModelMetrics{
	"F2_Births":        {MAE: 0.5, MAPE: 12.25, TrainSize: 40, TestSize: 3},
	"F1_ICU Occupancy": {MAE: 1.2, MAPE: 4, TrainSize: 100, TestSize: 24},
}

func TestRowsSorted(t *testing.T) {
	rows := Rows(sample)
	require.Len(t, rows, 2)
	assert.Equal(t, "F1_ICU Occupancy", rows[0].Key)
	assert.Equal(t, 24, rows[0].TestSize)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, Rows(sample)))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"metric_key", "mae", "mape", "trainSize", "testSize"}, recs[0])
	assert.Equal(t, []string{"F2_Births", "0.5", "12.25", "40", "3"}, recs[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Rows(sample)))
	var rows []Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, Rows(sample), rows)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, Rows(sample)))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "metric_key")
	assert.Contains(t, lines[1], "F1_ICU Occupancy")
	assert.Contains(t, lines[2], "12.25")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatHTML, Rows(sample)))
	out := buf.String()
	assert.Contains(t, out, "<html>")
	assert.Contains(t, out, "Model accuracy")
	assert.Contains(t, out, "F2_Births")
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "xml", nil))
}
