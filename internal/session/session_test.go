package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"github.com/KaramelBytes/segmap-cli/internal/combo"
	"github.com/KaramelBytes/segmap-cli/internal/session"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

func TestApplyCombosRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "suv")
	s := session.New("suv", "rows.json", dir)
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("id is not a uuid: %v", err)
	}
	res := combo.Result{
		Best:   &combo.Combo{XType: survey.AxisLoyalty, XKey: "OL_MODEL_GRP", YType: survey.AxisWTP, YKey: "PV_VALUE", R2: 0.91, Points: 5},
		Second: &combo.Combo{XType: survey.AxisPurchaseReason, XKey: "Styling", YType: survey.AxisImagery, YKey: "IMAGE_BOLD", R2: 0.8, Points: 5},
	}
	s.ApplyCombos(res)
	if !s.ChartA.Trend || s.ChartA.X.Key != "OL_MODEL_GRP" || s.ChartA.Y.Type != survey.AxisWTP {
		t.Fatalf("chart A not applied: %+v", s.ChartA)
	}
	if !s.ChartB.Trend || s.ChartB.X.Type != survey.AxisPurchaseReason {
		t.Fatalf("chart B not applied: %+v", s.ChartB)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := session.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(s, got, cmpopts.IgnoreUnexported(session.Session{}), cmpopts.EquateApproxTime(0)); diff != "" {
		t.Fatalf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
	if got.RootDir() != dir {
		t.Fatalf("root dir = %q", got.RootDir())
	}
}

func TestApplyCombosKeepsChartWithoutCandidate(t *testing.T) {
	s := session.New("x", "", t.TempDir())
	s.ChartB = session.Selection{X: survey.Axis{Type: survey.AxisImagery, Key: "IMAGE_SAFE"}}
	s.ApplyCombos(combo.Result{})
	if s.ChartB.X.Key != "IMAGE_SAFE" {
		t.Fatalf("chart B changed: %+v", s.ChartB)
	}
	if s.Best != nil || s.Second != nil {
		t.Fatalf("expected no combos stored")
	}
}

func TestChartSelection(t *testing.T) {
	s := session.New("x", "", t.TempDir())
	s.ChartB.Trend = true
	b, err := s.Chart("B")
	if err != nil || !b.Trend {
		t.Fatalf("chart b = %+v, %v", b, err)
	}
	if _, err := s.Chart("c"); err == nil {
		t.Fatalf("expected error for unknown chart")
	}
}

func TestListAndLoadErrors(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha"} {
		if err := session.New(name, name+".json", filepath.Join(root, name)).Save(); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	list, err := session.List(root)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Dataset != "zeta.json" {
		t.Fatalf("unexpected list: %+v", list)
	}
	missing, err := session.List(filepath.Join(root, "nope"))
	if err != nil || missing != nil {
		t.Fatalf("missing root = %v, %v", missing, err)
	}
	if _, err := session.Load(filepath.Join(root, "empty")); err == nil {
		t.Fatalf("expected load error")
	}
	if err := (&session.Session{}).Save(); err == nil {
		t.Fatalf("expected error without root")
	}
}
