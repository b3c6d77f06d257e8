package vnprovinces

import (
	"errors"
	"sync"
	"testing"
)

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r
}

func TestProvinceFromCode(t *testing.T) {
	r := mustRegistry(t)

	tests := []struct {
		code      int
		name      string
		dtype     DivisionType
		phoneCode int
	}{
		{1, "Thành phố Hà Nội", TypeThanhPhoTrungUong, 24},
		{15, "Tỉnh Lào Cai", TypeTinh, 214},
		{46, "Thành phố Huế", TypeThanhPhoTrungUong, 234},
		{79, "Thành phố Hồ Chí Minh", TypeThanhPhoTrungUong, 28},
		{96, "Tỉnh Cà Mau", TypeTinh, 290},
	}
	for _, tt := range tests {
		p, err := r.Province(tt.code)
		if err != nil {
			t.Fatalf("Province(%d): %v", tt.code, err)
		}
		if p.Code != tt.code || p.Name != tt.name || p.DivisionType != tt.dtype || p.PhoneCode != tt.phoneCode {
			t.Errorf("Province(%d) = %+v, want %s/%s/%d", tt.code, p, tt.name, tt.dtype, tt.phoneCode)
		}
	}
}

func TestUnknownCode(t *testing.T) {
	r := mustRegistry(t)

	_, err := r.Province(2) // legacy-only code (Hà Giang)
	var uc *UnknownCodeError
	if !errors.As(err, &uc) {
		t.Fatalf("Province(2) error = %v, want *UnknownCodeError", err)
	}
	if uc.Generation != Current || uc.Kind != KindProvince || uc.Code != 2 {
		t.Errorf("unexpected error fields: %+v", uc)
	}

	if _, err := r.Ward(1); !errors.As(err, &uc) {
		t.Errorf("Ward(1) error = %v, want *UnknownCodeError", err)
	}
	if _, err := r.LegacyDistrict(999); !errors.As(err, &uc) {
		t.Errorf("LegacyDistrict(999) error = %v, want *UnknownCodeError", err)
	}
	// Legacy lookups find codes the current generation dropped.
	if _, err := r.LegacyProvince(2); err != nil {
		t.Errorf("LegacyProvince(2): %v", err)
	}
}

func TestCodeRegistry(t *testing.T) {
	r := mustRegistry(t)

	if !r.IsValidCode(Current, KindProvince, 15) {
		t.Error("IsValidCode(Current, Province, 15) = false")
	}
	if r.IsValidCode(Current, KindProvince, 10) {
		t.Error("IsValidCode(Current, Province, 10) = true, code retired in 2025")
	}
	if !r.IsValidCode(Legacy, KindProvince, 10) {
		t.Error("IsValidCode(Legacy, Province, 10) = false")
	}
	if r.IsValidCode(Current, KindDistrict, 1) {
		t.Error("IsValidCode(Current, District, 1) = true, current generation has no districts")
	}

	// Every enumerated code must look itself up.
	for code := range r.Codes(Current, KindWard) {
		w, err := r.Ward(code)
		if err != nil {
			t.Fatalf("Ward(%d): %v", code, err)
		}
		if w.Code != code {
			t.Fatalf("Ward(%d).Code = %d", code, w.Code)
		}
	}
}

func TestIterationOrderAndIdempotence(t *testing.T) {
	r := mustRegistry(t)

	collect := func() []int {
		var codes []int
		for p := range r.Provinces() {
			codes = append(codes, p.Code)
		}
		return codes
	}
	first, second := collect(), collect()
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("iteration not idempotent: %d vs %d items", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("iteration order changed at %d: %d vs %d", i, first[i], second[i])
		}
		if i > 0 && first[i] <= first[i-1] {
			t.Fatalf("codes not ascending: %d after %d", first[i], first[i-1])
		}
	}

	// Early break must not affect later iterations.
	for range r.Wards() {
		break
	}
	n := 0
	for range r.Wards() {
		n++
	}
	if n == 0 {
		t.Fatal("Wards() empty after an interrupted iteration")
	}
}

func TestProvinceByCodename(t *testing.T) {
	r := mustRegistry(t)

	p, ok := r.ProvinceByCodename("thanh_pho_ha_noi")
	if !ok || p.Code != 1 {
		t.Fatalf("ProvinceByCodename(thanh_pho_ha_noi) = %+v, %v", p, ok)
	}
	if _, ok := r.ProvinceByCodename("tinh_ha_tay"); ok {
		t.Error("ProvinceByCodename(tinh_ha_tay) found a province")
	}
}

func TestChildIteration(t *testing.T) {
	r := mustRegistry(t)

	var wardCodes []int
	for w := range r.WardsOfProvince(1) {
		if w.ProvinceCode != 1 {
			t.Fatalf("ward %d has province %d", w.Code, w.ProvinceCode)
		}
		wardCodes = append(wardCodes, w.Code)
	}
	if len(wardCodes) == 0 {
		t.Fatal("no wards for Hà Nội")
	}

	var districts []District
	for d := range r.LegacyDistrictsOfProvince(77) {
		districts = append(districts, d)
	}
	if len(districts) != 3 {
		t.Fatalf("legacy Bà Rịa - Vũng Tàu: %d districts, want 3", len(districts))
	}

	n := 0
	for range r.LegacyWardsOfDistrict(755) { // Huyện Côn Đảo had no wards
		n++
	}
	if n != 0 {
		t.Errorf("Côn Đảo has %d wards, want 0", n)
	}

	for range r.WardsOfProvince(99999) {
		t.Fatal("unknown province yielded a ward")
	}
}

func TestDefaultSingleton(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]*Registry, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := Default()
			if err != nil {
				t.Errorf("Default(): %v", err)
				return
			}
			if _, err := r.Province(15); err != nil {
				t.Errorf("Province(15) on shared registry: %v", err)
			}
			results[i] = r
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("Default() returned distinct instances")
		}
	}
}

func BenchmarkWardLookup(b *testing.B) {
	r, err := New()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Ward(4); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchWards(b *testing.B) {
	r, err := New()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := r.SearchWards("phu my"); len(res) == 0 {
			b.Fatal("no results")
		}
	}
}
