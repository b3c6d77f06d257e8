package vnprovinces

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGeneratePipeline drives the three generation steps over a small CSV
// fixture set and loads the result through the regular loader, the same flow
// cmd/update-dataset runs for a release.
func TestGeneratePipeline(t *testing.T) {
	out := t.TempDir()

	stats, err := GenerateDivisions(GenerateOptions{
		WardCSV:     "testdata/csv/wards.csv",
		ProvinceCSV: "testdata/csv/provinces.csv",
		PhoneCSV:    "testdata/csv/phones.csv",
		Amendments:  "testdata/csv/amendments.yaml",
		OutDir:      out,
		Version:     "2025-12-01",
	})
	if err != nil {
		t.Fatalf("GenerateDivisions: %v", err)
	}
	if stats.Provinces != 2 || stats.Wards != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	lstats, err := GenerateLegacyDivisions("testdata/csv/legacy.csv", out)
	if err != nil {
		t.Fatalf("GenerateLegacyDivisions: %v", err)
	}
	if lstats.Provinces != 2 || lstats.Districts != 3 || lstats.Wards != 4 {
		t.Fatalf("legacy stats = %+v", lstats)
	}

	entries, err := GenerateCrossRef("testdata/csv/conversion.csv", out, "2025-07-01", out)
	if err != nil {
		t.Fatalf("GenerateCrossRef: %v", err)
	}
	if entries != 6 { // 2 provinces + 4 wards
		t.Fatalf("entries = %d, want 6", entries)
	}

	r, err := New(WithDataDir(out))
	if err != nil {
		t.Fatalf("load generated dataset: %v", err)
	}
	if r.DataVersion() != "2025-12-01" {
		t.Errorf("version = %q", r.DataVersion())
	}

	// The amendment must have corrected the defective ward name.
	w, err := r.Ward(4)
	if err != nil {
		t.Fatal(err)
	}
	if w.Name != "Phường Ba Đình" {
		t.Errorf("amendment not applied: %q", w.Name)
	}
	if w.ShortCodename != "ba_dinh" {
		t.Errorf("short codename = %q", w.ShortCodename)
	}

	// Phone codes joined by codename, one via the alias table.
	p, err := r.Province(15)
	if err != nil {
		t.Fatal(err)
	}
	if p.PhoneCode != 214 {
		t.Errorf("phone code = %d", p.PhoneCode)
	}

	// The partial-transfer conversion row must have been ignored.
	cur, err := r.CurrentWardForLegacy(13)
	if err != nil {
		t.Fatal(err)
	}
	if cur.Ward.Code != 4 {
		t.Errorf("legacy 13 resolves to %d, want 4", cur.Ward.Code)
	}

	// The ward-less district survived generation.
	if _, err := r.LegacyDistrict(84); err != nil {
		t.Errorf("Huyện Bắc Hà missing: %v", err)
	}

	// Written leaf objects carry explicit parent codes.
	var provs []provinceJSON
	if err := readGeneratedJSON(t, filepath.Join(out, divisionsFile), &provs); err != nil {
		t.Fatal(err)
	}
	if got := provs[0].Wards[0].ProvinceCode; got != provs[0].Code {
		t.Errorf("ward province_code = %d, want %d", got, provs[0].Code)
	}
	var lprovs []provinceJSON
	if err := readGeneratedJSON(t, filepath.Join(out, legacyDivisionsFile), &lprovs); err != nil {
		t.Fatal(err)
	}
	d := lprovs[0].Districts[0]
	if d.ProvinceCode != lprovs[0].Code {
		t.Errorf("district province_code = %d, want %d", d.ProvinceCode, lprovs[0].Code)
	}
	if got := d.Wards[0].DistrictCode; got != d.Code {
		t.Errorf("ward district_code = %d, want %d", got, d.Code)
	}
}

func readGeneratedJSON(t *testing.T, path string, v any) error {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// TestGenerateCrossRefDuplicateRows feeds a conversion table with one row
// repeated verbatim. Province 10 keeps two wards in 15 against one in 1, so
// 15 stays the primary successor regardless of the repetition.
func TestGenerateCrossRefDuplicateRows(t *testing.T) {
	out := t.TempDir()
	if _, err := GenerateDivisions(GenerateOptions{
		WardCSV:     "testdata/csv/wards.csv",
		ProvinceCSV: "testdata/csv/provinces.csv",
		PhoneCSV:    "testdata/csv/phones.csv",
		Amendments:  "testdata/csv/amendments.yaml",
		OutDir:      out,
		Version:     "2025-12-01",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := GenerateLegacyDivisions("testdata/csv/legacy-split.csv", out); err != nil {
		t.Fatal(err)
	}
	entries, err := GenerateCrossRef("testdata/csv/conversion-dup.csv", out, "2025-07-01", out)
	if err != nil {
		t.Fatalf("GenerateCrossRef: %v", err)
	}
	if entries != 4 { // 1 province + 3 wards
		t.Fatalf("entries = %d, want 4", entries)
	}

	r, err := New(WithDataDir(out))
	if err != nil {
		t.Fatalf("load generated dataset: %v", err)
	}
	p, err := r.CurrentProvinceForLegacy(10)
	if err != nil {
		t.Fatal(err)
	}
	if p.Province.Code != 15 {
		t.Errorf("legacy province 10 resolves to %d, want 15", p.Province.Code)
	}
	w, err := r.CurrentWardForLegacy(2647)
	if err != nil {
		t.Fatal(err)
	}
	if w.Ward.ProvinceCode != 1 {
		t.Errorf("legacy ward 2647 landed in province %d, want 1", w.Ward.ProvinceCode)
	}
}

func TestGenerateRejectsBadHeader(t *testing.T) {
	_, err := GenerateDivisions(GenerateOptions{
		WardCSV:     "testdata/csv/badheader.csv",
		ProvinceCSV: "testdata/csv/provinces.csv",
		PhoneCSV:    "testdata/csv/phones.csv",
		Amendments:  "testdata/csv/amendments.yaml",
		OutDir:      t.TempDir(),
	})
	if err == nil || !strings.Contains(err.Error(), "column") {
		t.Fatalf("err = %v, want header mismatch", err)
	}
}

func TestGenerateRejectsBadVersion(t *testing.T) {
	_, err := GenerateDivisions(GenerateOptions{
		WardCSV:     "testdata/csv/wards.csv",
		ProvinceCSV: "testdata/csv/provinces.csv",
		PhoneCSV:    "testdata/csv/phones.csv",
		OutDir:      t.TempDir(),
		Version:     "July 2025",
	})
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("err = %v, want version format error", err)
	}
}

func TestDivisionTypeFromName(t *testing.T) {
	tests := []struct {
		name string
		gen  Generation
		kind DivisionKind
		want DivisionType
		ok   bool
	}{
		{"Tỉnh Lào Cai", Current, KindProvince, TypeTinh, true},
		{"Thành phố Huế", Current, KindProvince, TypeThanhPhoTrungUong, true},
		{"Quận Ba Đình", Legacy, KindDistrict, TypeQuan, true},
		{"Thành phố Lào Cai", Legacy, KindDistrict, TypeThanhPho, true},
		{"Thị xã Phú Mỹ", Legacy, KindDistrict, TypeThiXa, true},
		{"Phường Ba Đình", Current, KindWard, TypePhuong, true},
		{"Đặc khu Côn Đảo", Current, KindWard, TypeDacKhu, true},
		{"Thị trấn Phố Lu", Legacy, KindWard, TypeThiTran, true},
		// Đặc khu did not exist before 2025.
		{"Đặc khu Côn Đảo", Legacy, KindWard, "", false},
		{"Làng Vũ Đại", Current, KindWard, "", false},
	}
	for _, tt := range tests {
		got, err := divisionTypeFromName(tt.name, tt.gen, tt.kind)
		if tt.ok != (err == nil) {
			t.Errorf("divisionTypeFromName(%q, %v, %v) err = %v", tt.name, tt.gen, tt.kind, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("divisionTypeFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAssignShortCodenames(t *testing.T) {
	// A phường and a xã with the same base name inside one province must
	// both keep their full codename.
	wards := []wardJSON{
		{Name: "Phường An Phú", Codename: "phuong_an_phu"},
		{Name: "Xã An Phú", Codename: "xa_an_phu"},
		{Name: "Xã Tóc Tiên", Codename: "xa_toc_tien"},
	}
	assignShortCodenames(wards)
	if wards[0].ShortCodename != "phuong_an_phu" {
		t.Errorf("ward 0 short = %q", wards[0].ShortCodename)
	}
	if wards[1].ShortCodename != "xa_an_phu" {
		t.Errorf("ward 1 short = %q", wards[1].ShortCodename)
	}
	if wards[2].ShortCodename != "toc_tien" {
		t.Errorf("ward 2 short = %q", wards[2].ShortCodename)
	}
}

func TestValidateShippedDataset(t *testing.T) {
	if err := ValidateDataset("data"); err != nil {
		t.Fatal(err)
	}
}
