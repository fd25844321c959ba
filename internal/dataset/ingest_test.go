package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-delta-analyzer/internal/model"
)

func load(t *testing.T, csv string, opts LoadOptions) *Result {
	t.Helper()
	res, err := Load(strings.NewReader(csv), "before", opts)
	require.NoError(t, err)
	return res
}

func TestLoadInfersColumnTypes(t *testing.T) {
	res := load(t, "region,amount,date\nA,100,2024-01-05\nB,50.5,2024-02-01\n", LoadOptions{})
	ds := res.Dataset

	assert.Equal(t, "before", ds.Name)
	assert.Equal(t, []model.Column{
		{Name: "region", Type: model.ColumnText},
		{Name: "amount", Type: model.ColumnNumeric},
		{Name: "date", Type: model.ColumnDate},
	}, ds.Columns)
	require.Equal(t, 2, ds.Len())

	assert.Equal(t, model.Text("A"), ds.Rows[0][0])
	assert.Equal(t, model.Number(50.5), ds.Rows[1][1])
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ds.Rows[0][2].Time)
}

func TestLoadCleansHeaders(t *testing.T) {
	t.Run("byte order mark and quotes", func(t *testing.T) {
		res := load(t, "\uFEFF\"region\", amount \nA,1\n", LoadOptions{})

		assert.Equal(t, []string{"region", "amount"}, res.Dataset.ColumnNames())
	})

	t.Run("blank and repeated names", func(t *testing.T) {
		res := load(t, "a,a,\n1,2,3\n", LoadOptions{})

		assert.Equal(t, []string{"a", "a.1", "Unnamed: 2"}, res.Dataset.ColumnNames())
	})
}

func TestLoadMissingValues(t *testing.T) {
	t.Run("null tokens become nulls", func(t *testing.T) {
		res := load(t, "k,v\nA,\nB,NA\nC,3\nD,null\n", LoadOptions{})
		ds := res.Dataset

		col, _ := ds.Column("v")
		assert.Equal(t, model.ColumnNumeric, col.Type)
		assert.True(t, ds.Rows[0][1].IsNull())
		assert.True(t, ds.Rows[1][1].IsNull())
		assert.Equal(t, model.Number(3), ds.Rows[2][1])
		assert.True(t, ds.Rows[3][1].IsNull())
	})

	t.Run("all missing column is numeric", func(t *testing.T) {
		res := load(t, "k,v\nA,\nB,\n", LoadOptions{})

		col, _ := res.Dataset.Column("v")
		assert.Equal(t, model.ColumnNumeric, col.Type)
	})

	t.Run("short rows are padded", func(t *testing.T) {
		res := load(t, "k,v,w\nA,1\n", LoadOptions{})

		assert.True(t, res.Dataset.Rows[0][2].IsNull())
	})
}

func TestLoadMixedColumnIsText(t *testing.T) {
	res := load(t, "k,v\nA,1\nB,x\n", LoadOptions{})

	col, _ := res.Dataset.Column("v")
	assert.Equal(t, model.ColumnText, col.Type)
	assert.Equal(t, model.Text("1"), res.Dataset.Rows[0][1])
}

func TestLoadDropsDuplicates(t *testing.T) {
	res := load(t, "k,v\nA,1\nA,1.0\nB,2\nA,1\n", LoadOptions{})

	assert.Equal(t, 2, res.Dataset.Len())
	assert.Equal(t, 2, res.Info.Quality.DuplicatesRemoved)
	assert.Equal(t, model.Text("A"), res.Dataset.Rows[0][0])
	assert.Equal(t, model.Text("B"), res.Dataset.Rows[1][0])
}

func TestLoadRejectsEmptyInput(t *testing.T) {
	for name, input := range map[string]string{
		"no bytes":    "",
		"header only": "k,v\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(input), "after", LoadOptions{})

			assert.ErrorIs(t, err, ErrEmptyFile)
		})
	}
}

func TestLoadRowCeiling(t *testing.T) {
	_, err := Load(strings.NewReader("k,v\nA,1\nB,2\nC,3\n"), "after", LoadOptions{MaxRows: 2})

	var tooMany *TooManyRowsError
	require.True(t, errors.As(err, &tooMany))
	assert.Equal(t, 3, tooMany.Rows)
	assert.Equal(t, 2, tooMany.Limit)
}

func TestLoadAppliesTransformations(t *testing.T) {
	t.Run("trim then normalize names", func(t *testing.T) {
		res := load(t, "region,code\n north EAST ,ab\n", LoadOptions{
			Transformations: []string{TransformTrimStrings, TransformNormalizeNames},
		})

		assert.Equal(t, model.Text("North East"), res.Dataset.Rows[0][0])
		assert.Equal(t, model.Text("ab"), res.Dataset.Rows[0][1])
	})

	t.Run("unknown transformation", func(t *testing.T) {
		_, err := Load(strings.NewReader("k\nA\n"), "before", LoadOptions{
			Transformations: []string{"calculateBMI"},
		})

		var unknown *UnknownTransformError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "calculateBMI", unknown.Name)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "before.csv")
	require.NoError(t, os.WriteFile(path, []byte("k,v\nA,1\n"), 0o644))

	res, err := LoadFile(path, "before", LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Dataset.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), "before", LoadOptions{})
	assert.Error(t, err)
}
