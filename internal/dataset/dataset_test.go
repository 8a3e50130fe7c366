package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

var fixtureHeader = []string{"BLD_DESC_RV_MODEL", "cluster", "emb_x", "emb_y", "LOY", "IMAGE_FUN"}

var fixtureRecords = [][]string{
	{"Alpha", "1", "0.5", "1.5", "loyal", "1"},
	{"Alpha", "1", "0.7", "1.1", "not loyal", "0"},
	{"Beta", "2", "2.5", "-1", "loyal", "1"},
	{"Beta", "", "2.5", "-1", "loyal", "1"},
}

const fixtureJSON = `[
 {"BLD_DESC_RV_MODEL":"Alpha","cluster":1,"emb_x":0.5,"emb_y":1.5,"LOY":"loyal","IMAGE_FUN":1},
 {"BLD_DESC_RV_MODEL":"Alpha","cluster":1,"emb_x":0.7,"emb_y":1.1,"LOY":"not loyal","IMAGE_FUN":0},
 {"BLD_DESC_RV_MODEL":"Beta","cluster":2,"emb_x":2.5,"emb_y":-1,"LOY":"loyal","IMAGE_FUN":1},
 {"BLD_DESC_RV_MODEL":"Beta","cluster":null,"emb_x":2.5,"emb_y":-1,"LOY":"loyal","IMAGE_FUN":1}
]`

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "rows.csv")
	content := "\ufeff"
	for i, h := range fixtureHeader {
		if i > 0 {
			content += ","
		}
		content += h
	}
	content += "\n"
	for _, rec := range fixtureRecords {
		for i, c := range rec {
			if i > 0 {
				content += ","
			}
			content += c
		}
		content += "\n"
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func writeXLSX(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Respondents"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))
	header := make([]any, len(fixtureHeader))
	for i, h := range fixtureHeader {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, rec := range fixtureRecords {
		cells := make([]any, len(rec))
		for j, c := range rec {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}
	p := filepath.Join(dir, "rows.xlsx")
	require.NoError(t, f.SaveAs(p))
	return p
}

func TestLoadersAgree(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(fixtureJSON), 0o644))
	paths := map[string]string{
		"json": jsonPath,
		"csv":  writeCSV(t, dir),
		"xlsx": writeXLSX(t, dir),
	}

	p, err := survey.NewPolicies("LOY", "")
	require.NoError(t, err)
	scorer := survey.NewScorer(nil, p)
	opts := survey.PointOptions{
		X: survey.Axis{Type: survey.AxisLoyalty, Key: "LOY"},
		Y: survey.Axis{Type: survey.AxisImagery, Key: "IMAGE_FUN"},
	}

	var want []survey.PercentPoint
	for _, kind := range []string{"json", "csv", "xlsx"} {
		raw, err := LoadFile(paths[kind], Options{})
		require.NoError(t, err, kind)
		require.Len(t, raw, 4, kind)
		rows, dropped := Normalize(raw)
		assert.Equal(t, 1, dropped, kind)
		require.Len(t, rows, 3, kind)
		assert.Equal(t, "Alpha", rows[0].Model(), kind)

		got := scorer.BuildGroupedPoints(rows, opts)
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, kind)
	}
	require.Len(t, want, 2)
	assert.Equal(t, 50.0, want[0].X)
	assert.Equal(t, 50.0, want[0].Y)
	assert.Equal(t, 100.0, want[1].X)
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	dir := t.TempDir()
	p := writeXLSX(t, dir)
	rows, err := LoadFile(p, Options{Sheet: "respondents"})
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = LoadFile(p, Options{Sheet: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Respondents")
}

func TestLoadFileUnsupported(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rows.parquet")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	_, err := LoadFile(p, Options{})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.json"), Options{})
	assert.Error(t, err)
}

func TestNormalizeModelAliases(t *testing.T) {
	rows := []survey.Row{
		{"Model": survey.String(" Gamma "), "cluster": survey.String("3"), "emb_x": survey.Number(1), "emb_y": survey.String("2")},
		{"model": survey.String(""), "MODEL": survey.String("Delta"), "cluster": survey.Number(1), "emb_x": survey.Number(0), "emb_y": survey.Number(0)},
		{"model": survey.String("Eps"), "cluster": survey.Number(1), "emb_x": survey.String("NaN"), "emb_y": survey.Number(0)},
		{"model": survey.String("Zeta"), "emb_x": survey.Number(1), "emb_y": survey.Number(1)},
		{"cluster": survey.Number(2)},
	}
	out, dropped := Normalize(rows)
	assert.Equal(t, 2, dropped)
	require.Len(t, out, 3)
	assert.Equal(t, "Gamma", out[0].Model())
	assert.Equal(t, survey.KindNumber, out[0].Get("cluster").Kind())
	assert.Equal(t, survey.KindNumber, out[0].Get("emb_y").Kind())
	assert.Equal(t, "Delta", out[1].Model())
	// rows without a usable embedding are kept for percent scoring
	assert.Equal(t, "Eps", out[2].Model())
	_, ok := out[2].Get("emb_x").Float()
	assert.False(t, ok)
	// inputs are untouched
	assert.Equal(t, survey.KindString, rows[0].Get("cluster").Kind())
	assert.Equal(t, []string{"Delta", "Eps", "Gamma"}, Models(out))
}

func TestParseCodeMap(t *testing.T) {
	cm, err := ParseCodeMap([]byte(`[
		{"NAME":"PR_MOST","START":1,"LABEL":" Styling "},
		{"NAME":"PR_MOST","START":"2","LABEL":"Price"},
		{"NAME":"","START":3,"LABEL":"skip"}
	]`))
	require.NoError(t, err)
	lab, ok := cm.Lookup("PR_MOST", survey.String("1"))
	assert.True(t, ok)
	assert.Equal(t, "Styling", lab)
	lab, ok = cm.Lookup("PR_MOST", survey.Number(2))
	assert.True(t, ok)
	assert.Equal(t, "Price", lab)
	assert.Equal(t, 1, cm.Len())

	_, err = ParseCodeMap([]byte(`{`))
	assert.Error(t, err)
}

func TestParseVarLabels(t *testing.T) {
	v, err := ParseVarLabels([]byte(`[
		["PV_VALUE", "Good value for money"],
		{"VARIABLE":"STATE_WAIT","Display":"Willing to wait"},
		{"code":"NO_TEXT"},
		[42],
		"ignored"
	]`))
	require.NoError(t, err)
	assert.Equal(t, "Good value for money", v.Label("PV_VALUE"))
	assert.Equal(t, "Willing to wait", v.Label(" STATE_WAIT "))
	assert.Equal(t, "NO_TEXT", v.Label("NO_TEXT"))
	assert.Equal(t, "42", v["42"])
	assert.Equal(t, "UNKNOWN", v.Label("UNKNOWN"))
}

func TestDefaultTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()
	assert.Equal(t, []string{"Demographics", "Financing", "Buying Behavior", "Loyalty", "Willingness to Pay"}, tax.GroupNames())
	assert.Len(t, tax.Imagery, 28)
	assert.Equal(t, "Fun to Drive", tax.ImageryLabel("IMAGE_FUN_DRIVE"))

	fin, ok := tax.Group("financing")
	require.True(t, ok)
	opts := tax.SummaryOptions(fin)
	assert.True(t, opts.Numeric)
	assert.Equal(t, []string{"C1_PL", "FIN_CREDIT"}, opts.Categorical)
	assert.Equal(t, 10, opts.TopLimits["DEMO_EMPLOY"])
	assert.Contains(t, tax.ValueOrder["DEMO_MARITAL"], "Divorced, widowed, separated")

	fams := tax.ComboFamilies([]string{"Styling"})
	require.Len(t, fams, 4)
	assert.Equal(t, survey.AxisLoyalty, fams[0].Type)
	assert.Equal(t, "OL_MODEL_GRP", fams[0].Keys[0])
	assert.Len(t, fams[1].Keys, 22)
	assert.Equal(t, []string{"Styling"}, fams[2].Keys)
	assert.Len(t, fams[3].Keys, 28)
}

func TestLoadTaxonomyOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tax.yaml")
	require.NoError(t, os.WriteFile(p, []byte("field_groups:\n  - name: Custom\n    fields: [A, B]\nfamilies:\n  loyalty: Custom\n"), 0o644))
	tax, err := LoadTaxonomy(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tax.FamilyKeys(survey.AxisLoyalty, nil))
	assert.Empty(t, tax.FamilyKeys(survey.AxisWTP, nil))

	require.NoError(t, os.WriteFile(p, []byte("field_groups:\n  - fields: [A]\n"), 0o644))
	_, err = LoadTaxonomy(p)
	assert.Error(t, err)
}

func TestPurchaseReasons(t *testing.T) {
	cm := survey.NewCodeMap()
	cm.Add("PR_MOST", survey.Number(1), "Styling")
	rows := []survey.Row{
		{"PR_MOST": survey.Number(1)},
		{"PR_MOST": survey.String("Price ")},
		{"PR_MOST": survey.String("1")},
		{},
	}
	sc := survey.NewScorer(cm, nil)
	keys := PurchaseReasons(rows, sc)
	assert.Equal(t, []string{"Price ", "Styling"}, keys)
	for _, k := range keys {
		assert.Greater(t, sc.Percent(rows, survey.Axis{Type: survey.AxisPurchaseReason, Key: k}), 0.0, k)
	}
}
