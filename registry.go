package vnprovinces

import (
	"iter"
	"sync"
)

// Config contains configuration options for Registry initialization.
type Config struct {
	DataDir string // Directory whose files override the embedded dataset (default: embedded only)
}

// Option is a functional option for configuring a Registry.
type Option func(*Config)

// WithDataDir sets a directory whose files take precedence over the embedded
// dataset. Files absent from the directory fall back to the embedded copy,
// and each file may also be stored bzip2-compressed under its name + ".bz2".
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	return &Config{}
}

// Registry provides offline lookup of Vietnamese administrative divisions
// across both generations of the 2025-07-01 reorganization.
// Safe for concurrent use after initialization.
type Registry struct {
	provinces       []Province // current provinces, ascending code
	wards           []Ward     // current wards, ascending code
	legacyProvinces []Province // pre-2025 provinces, ascending code
	legacyDistricts []District // pre-2025 districts, ascending code
	legacyWards     []Ward     // pre-2025 wards, ascending code

	provinceByCode       map[int]int // code -> index into provinces
	wardByCode           map[int]int
	legacyProvinceByCode map[int]int
	legacyDistrictByCode map[int]int
	legacyWardByCode     map[int]int

	provinceByCodename map[string]int

	// Folded search keys, aligned index-for-index with the entity slices.
	provinceKeys       []string
	wardKeys           []string
	legacyProvinceKeys []string
	legacyDistrictKeys []string
	legacyWardKeys     []string

	// Child indexes grouped by parent code, each list in ascending child
	// code order.
	wardsOfProvince       map[int][]int
	districtsOfProvince   map[int][]int
	wardsOfDistrict       map[int][]int
	legacyWardsOfProvince map[int][]int

	// Conversion table for the 2025-07-01 reorganization.
	wardToCurrent     map[int]int   // legacy ward code -> index into wards
	provinceToCurrent map[int]int   // legacy province code -> index into provinces
	wardSources       map[int][]int // current ward code -> indexes into legacyWards
	provinceSources   map[int][]int // current province code -> indexes into legacyProvinces

	effectiveDate string
	dataVersion   string

	config *Config
}

// New builds a Registry from the embedded dataset, or from files in the
// directory configured with WithDataDir where present.
//
// Example:
//
//	r, err := vnprovinces.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, _ := r.Province(79)
//	fmt.Println(p.Name) // Thành phố Hồ Chí Minh
func New(opts ...Option) (*Registry, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Registry{config: cfg}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Singleton pattern for the default Registry instance.
var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
	defaultRegistryErr  error
)

// Default returns a shared Registry backed by the embedded dataset,
// initializing it on first call.
func Default() (*Registry, error) {
	defaultRegistryOnce.Do(func() {
		defaultRegistry, defaultRegistryErr = New()
	})
	return defaultRegistry, defaultRegistryErr
}

// DataVersion returns the release date of the embedded dataset, e.g.
// "2026-01-07".
func (r *Registry) DataVersion() string {
	return r.dataVersion
}

// EffectiveDate returns the date the current generation took effect,
// "2025-07-01" for the dataset shipped with this package.
func (r *Registry) EffectiveDate() string {
	return r.effectiveDate
}

// codeIndex returns the code index for a generation and kind, nil when the
// combination has no table (districts exist only in the legacy generation).
func (r *Registry) codeIndex(gen Generation, kind DivisionKind) map[int]int {
	switch {
	case gen == Current && kind == KindProvince:
		return r.provinceByCode
	case gen == Current && kind == KindWard:
		return r.wardByCode
	case gen == Legacy && kind == KindProvince:
		return r.legacyProvinceByCode
	case gen == Legacy && kind == KindDistrict:
		return r.legacyDistrictByCode
	case gen == Legacy && kind == KindWard:
		return r.legacyWardByCode
	}
	return nil
}

// IsValidCode reports whether a code exists in the table for the given
// generation and kind. Combinations without a table, such as current
// districts, are never valid.
func (r *Registry) IsValidCode(gen Generation, kind DivisionKind, code int) bool {
	idx := r.codeIndex(gen, kind)
	if idx == nil {
		return false
	}
	_, ok := idx[code]
	return ok
}

// Codes iterates over every code of one generation and kind in ascending
// order. Combinations without a table yield nothing.
func (r *Registry) Codes(gen Generation, kind DivisionKind) iter.Seq[int] {
	return func(yield func(int) bool) {
		switch {
		case gen == Current && kind == KindProvince:
			for _, p := range r.provinces {
				if !yield(p.Code) {
					return
				}
			}
		case gen == Current && kind == KindWard:
			for _, w := range r.wards {
				if !yield(w.Code) {
					return
				}
			}
		case gen == Legacy && kind == KindProvince:
			for _, p := range r.legacyProvinces {
				if !yield(p.Code) {
					return
				}
			}
		case gen == Legacy && kind == KindDistrict:
			for _, d := range r.legacyDistricts {
				if !yield(d.Code) {
					return
				}
			}
		case gen == Legacy && kind == KindWard:
			for _, w := range r.legacyWards {
				if !yield(w.Code) {
					return
				}
			}
		}
	}
}

// Province returns the current province with the given code.
func (r *Registry) Province(code int) (Province, error) {
	i, ok := r.provinceByCode[code]
	if !ok {
		return Province{}, &UnknownCodeError{Generation: Current, Kind: KindProvince, Code: code}
	}
	return r.provinces[i], nil
}

// Ward returns the current ward with the given code.
func (r *Registry) Ward(code int) (Ward, error) {
	i, ok := r.wardByCode[code]
	if !ok {
		return Ward{}, &UnknownCodeError{Generation: Current, Kind: KindWard, Code: code}
	}
	return r.wards[i], nil
}

// LegacyProvince returns the pre-2025 province with the given code.
func (r *Registry) LegacyProvince(code int) (Province, error) {
	i, ok := r.legacyProvinceByCode[code]
	if !ok {
		return Province{}, &UnknownCodeError{Generation: Legacy, Kind: KindProvince, Code: code}
	}
	return r.legacyProvinces[i], nil
}

// LegacyDistrict returns the pre-2025 district with the given code.
func (r *Registry) LegacyDistrict(code int) (District, error) {
	i, ok := r.legacyDistrictByCode[code]
	if !ok {
		return District{}, &UnknownCodeError{Generation: Legacy, Kind: KindDistrict, Code: code}
	}
	return r.legacyDistricts[i], nil
}

// LegacyWard returns the pre-2025 ward with the given code.
func (r *Registry) LegacyWard(code int) (Ward, error) {
	i, ok := r.legacyWardByCode[code]
	if !ok {
		return Ward{}, &UnknownCodeError{Generation: Legacy, Kind: KindWard, Code: code}
	}
	return r.legacyWards[i], nil
}

// ProvinceByCodename returns the current province with the given codename,
// e.g. "thanh_pho_ha_noi". The boolean reports whether one exists.
func (r *Registry) ProvinceByCodename(codename string) (Province, bool) {
	i, ok := r.provinceByCodename[codename]
	if !ok {
		return Province{}, false
	}
	return r.provinces[i], true
}

// Provinces iterates over all current provinces in ascending code order.
// The sequence can be ranged over any number of times.
func (r *Registry) Provinces() iter.Seq[Province] {
	return func(yield func(Province) bool) {
		for _, p := range r.provinces {
			if !yield(p) {
				return
			}
		}
	}
}

// Wards iterates over all current wards in ascending code order.
func (r *Registry) Wards() iter.Seq[Ward] {
	return func(yield func(Ward) bool) {
		for _, w := range r.wards {
			if !yield(w) {
				return
			}
		}
	}
}

// LegacyProvinces iterates over all pre-2025 provinces in ascending code order.
func (r *Registry) LegacyProvinces() iter.Seq[Province] {
	return func(yield func(Province) bool) {
		for _, p := range r.legacyProvinces {
			if !yield(p) {
				return
			}
		}
	}
}

// LegacyDistricts iterates over all pre-2025 districts in ascending code order.
func (r *Registry) LegacyDistricts() iter.Seq[District] {
	return func(yield func(District) bool) {
		for _, d := range r.legacyDistricts {
			if !yield(d) {
				return
			}
		}
	}
}

// LegacyWards iterates over all pre-2025 wards in ascending code order.
func (r *Registry) LegacyWards() iter.Seq[Ward] {
	return func(yield func(Ward) bool) {
		for _, w := range r.legacyWards {
			if !yield(w) {
				return
			}
		}
	}
}

// WardsOfProvince iterates over the current wards of one province in
// ascending code order. An unknown province code yields nothing.
func (r *Registry) WardsOfProvince(provinceCode int) iter.Seq[Ward] {
	return func(yield func(Ward) bool) {
		for _, i := range r.wardsOfProvince[provinceCode] {
			if !yield(r.wards[i]) {
				return
			}
		}
	}
}

// LegacyDistrictsOfProvince iterates over the pre-2025 districts of one
// province in ascending code order. An unknown province code yields nothing.
func (r *Registry) LegacyDistrictsOfProvince(provinceCode int) iter.Seq[District] {
	return func(yield func(District) bool) {
		for _, i := range r.districtsOfProvince[provinceCode] {
			if !yield(r.legacyDistricts[i]) {
				return
			}
		}
	}
}

// LegacyWardsOfDistrict iterates over the pre-2025 wards of one district in
// ascending code order. An unknown district code yields nothing; so does a
// district that had no wards, like Huyện Côn Đảo.
func (r *Registry) LegacyWardsOfDistrict(districtCode int) iter.Seq[Ward] {
	return func(yield func(Ward) bool) {
		for _, i := range r.wardsOfDistrict[districtCode] {
			if !yield(r.legacyWards[i]) {
				return
			}
		}
	}
}

// LegacyWardsOfProvince iterates over the pre-2025 wards of one province in
// ascending code order. An unknown province code yields nothing.
func (r *Registry) LegacyWardsOfProvince(provinceCode int) iter.Seq[Ward] {
	return func(yield func(Ward) bool) {
		for _, i := range r.legacyWardsOfProvince[provinceCode] {
			if !yield(r.legacyWards[i]) {
				return
			}
		}
	}
}
