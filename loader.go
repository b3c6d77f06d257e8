package vnprovinces

import (
	"compress/bzip2"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dataset files shipped with the package. Each may be stored either plain or
// bzip2-compressed (name + ".bz2").
//
//go:embed data
var datasetFS embed.FS

const (
	divisionsFile       = "divisions.json"
	legacyDivisionsFile = "legacy-divisions.json"
	crossRefFile        = "crossref.json"
	versionFile         = "version.txt"
)

// Wire format of the dataset files. divisions.json is an array of provinces
// with nested wards; legacy-divisions.json nests districts under provinces
// and wards under districts. Leaf objects carry explicit parent codes which
// must agree with the nesting they appear under.
type provinceJSON struct {
	Name         string         `json:"name"`
	Code         int            `json:"code"`
	DivisionType string         `json:"division_type"`
	Codename     string         `json:"codename"`
	PhoneCode    int            `json:"phone_code"`
	Wards        []wardJSON     `json:"wards,omitempty"`
	Districts    []districtJSON `json:"districts,omitempty"`
}

type districtJSON struct {
	Name         string     `json:"name"`
	Code         int        `json:"code"`
	DivisionType string     `json:"division_type"`
	Codename     string     `json:"codename"`
	ProvinceCode int        `json:"province_code,omitempty"`
	Wards        []wardJSON `json:"wards,omitempty"`
}

type wardJSON struct {
	Name          string `json:"name"`
	Code          int    `json:"code"`
	DivisionType  string `json:"division_type"`
	Codename      string `json:"codename"`
	ShortCodename string `json:"short_codename,omitempty"`
	ProvinceCode  int    `json:"province_code,omitempty"`
	DistrictCode  int    `json:"district_code,omitempty"`
}

type crossRefFileJSON struct {
	EffectiveDate string              `json:"effective_date"`
	Entries       []crossRefEntryJSON `json:"entries"`
}

type crossRefEntryJSON struct {
	LegacyCode  int    `json:"legacy_code"`
	LegacyKind  string `json:"legacy_kind"`
	CurrentCode int    `json:"current_code"`
	CurrentKind string `json:"current_kind"`
}

// openDatasetFile opens a dataset file, preferring the override directory
// over the embedded copy so that freshly generated files can be loaded and
// validated without rebuilding the package.
func (r *Registry) openDatasetFile(name string) (fs.File, error) {
	if dir := r.config.DataDir; dir != "" {
		if fh, err := os.Open(filepath.Join(dir, name)); err == nil {
			return fh, nil
		}
	}
	return datasetFS.Open("data/" + name)
}

// openOptionallyBzippedFile opens a dataset file that may be bzip2
// compressed, trying name + ".bz2" before the plain name.
func (r *Registry) openOptionallyBzippedFile(name string) (io.Reader, func() error, error) {
	fh, err := r.openDatasetFile(name + ".bz2")
	if err != nil {
		fh, err = r.openDatasetFile(name)
		if err != nil {
			return nil, nil, err
		}
		return fh, fh.Close, nil
	}
	return bzip2.NewReader(fh), fh.Close, nil
}

// load reads and validates every dataset file, then builds the lookup
// tables. Any inconsistency fails the whole load; a Registry either has a
// complete, coherent dataset or does not exist.
func (r *Registry) load() error {
	if err := r.loadCurrent(); err != nil {
		return err
	}
	if err := r.loadLegacy(); err != nil {
		return err
	}
	if err := r.loadCrossRef(); err != nil {
		return err
	}
	if err := r.loadVersion(); err != nil {
		return err
	}
	r.buildSearchKeys()
	return nil
}

func (r *Registry) loadCurrent() error {
	fh, cleanup, err := r.openOptionallyBzippedFile(divisionsFile)
	if err != nil {
		return &DataLoadError{Source: divisionsFile, Err: err}
	}
	defer cleanup()

	var provs []provinceJSON
	if err := json.NewDecoder(fh).Decode(&provs); err != nil {
		return &DataLoadError{Source: divisionsFile, Err: err}
	}

	for _, pj := range provs {
		if len(pj.Districts) > 0 {
			err := fmt.Errorf("province %d: the current generation has no districts", pj.Code)
			return &DataLoadError{Source: divisionsFile, Err: err}
		}
		p, err := makeProvince(pj, Current)
		if err != nil {
			return &DataLoadError{Source: divisionsFile, Err: err}
		}
		r.provinces = append(r.provinces, p)
		for _, wj := range pj.Wards {
			w, err := makeWard(wj, Current, pj.Code, 0)
			if err != nil {
				return &DataLoadError{Source: divisionsFile, Err: err}
			}
			r.wards = append(r.wards, w)
		}
	}

	sort.Slice(r.provinces, func(i, j int) bool { return r.provinces[i].Code < r.provinces[j].Code })
	sort.Slice(r.wards, func(i, j int) bool { return r.wards[i].Code < r.wards[j].Code })

	r.provinceByCode = make(map[int]int, len(r.provinces))
	r.provinceByCodename = make(map[string]int, len(r.provinces))
	for i, p := range r.provinces {
		if _, dup := r.provinceByCode[p.Code]; dup {
			return &DataLoadError{Source: divisionsFile, Err: fmt.Errorf("duplicate province code %d", p.Code)}
		}
		if _, dup := r.provinceByCodename[p.Codename]; dup {
			return &DataLoadError{Source: divisionsFile, Err: fmt.Errorf("duplicate province codename %q", p.Codename)}
		}
		r.provinceByCode[p.Code] = i
		r.provinceByCodename[p.Codename] = i
	}

	r.wardByCode = make(map[int]int, len(r.wards))
	r.wardsOfProvince = make(map[int][]int, len(r.provinces))
	for i, w := range r.wards {
		if _, dup := r.wardByCode[w.Code]; dup {
			return &DataLoadError{Source: divisionsFile, Err: fmt.Errorf("duplicate ward code %d", w.Code)}
		}
		r.wardByCode[w.Code] = i
		r.wardsOfProvince[w.ProvinceCode] = append(r.wardsOfProvince[w.ProvinceCode], i)
	}
	return nil
}

func (r *Registry) loadLegacy() error {
	fh, cleanup, err := r.openOptionallyBzippedFile(legacyDivisionsFile)
	if err != nil {
		return &DataLoadError{Source: legacyDivisionsFile, Err: err}
	}
	defer cleanup()

	var provs []provinceJSON
	if err := json.NewDecoder(fh).Decode(&provs); err != nil {
		return &DataLoadError{Source: legacyDivisionsFile, Err: err}
	}

	for _, pj := range provs {
		if len(pj.Wards) > 0 {
			err := fmt.Errorf("province %d: legacy wards must be nested under a district", pj.Code)
			return &DataLoadError{Source: legacyDivisionsFile, Err: err}
		}
		p, err := makeProvince(pj, Legacy)
		if err != nil {
			return &DataLoadError{Source: legacyDivisionsFile, Err: err}
		}
		r.legacyProvinces = append(r.legacyProvinces, p)
		for _, dj := range pj.Districts {
			d, err := makeDistrict(dj, pj.Code)
			if err != nil {
				return &DataLoadError{Source: legacyDivisionsFile, Err: err}
			}
			r.legacyDistricts = append(r.legacyDistricts, d)
			for _, wj := range dj.Wards {
				w, err := makeWard(wj, Legacy, pj.Code, dj.Code)
				if err != nil {
					return &DataLoadError{Source: legacyDivisionsFile, Err: err}
				}
				r.legacyWards = append(r.legacyWards, w)
			}
		}
	}

	sort.Slice(r.legacyProvinces, func(i, j int) bool { return r.legacyProvinces[i].Code < r.legacyProvinces[j].Code })
	sort.Slice(r.legacyDistricts, func(i, j int) bool { return r.legacyDistricts[i].Code < r.legacyDistricts[j].Code })
	sort.Slice(r.legacyWards, func(i, j int) bool { return r.legacyWards[i].Code < r.legacyWards[j].Code })

	r.legacyProvinceByCode = make(map[int]int, len(r.legacyProvinces))
	for i, p := range r.legacyProvinces {
		if _, dup := r.legacyProvinceByCode[p.Code]; dup {
			return &DataLoadError{Source: legacyDivisionsFile, Err: fmt.Errorf("duplicate province code %d", p.Code)}
		}
		r.legacyProvinceByCode[p.Code] = i
	}

	r.legacyDistrictByCode = make(map[int]int, len(r.legacyDistricts))
	r.districtsOfProvince = make(map[int][]int, len(r.legacyProvinces))
	for i, d := range r.legacyDistricts {
		if _, dup := r.legacyDistrictByCode[d.Code]; dup {
			return &DataLoadError{Source: legacyDivisionsFile, Err: fmt.Errorf("duplicate district code %d", d.Code)}
		}
		r.legacyDistrictByCode[d.Code] = i
		r.districtsOfProvince[d.ProvinceCode] = append(r.districtsOfProvince[d.ProvinceCode], i)
	}

	r.legacyWardByCode = make(map[int]int, len(r.legacyWards))
	r.wardsOfDistrict = make(map[int][]int, len(r.legacyDistricts))
	r.legacyWardsOfProvince = make(map[int][]int, len(r.legacyProvinces))
	for i, w := range r.legacyWards {
		if _, dup := r.legacyWardByCode[w.Code]; dup {
			return &DataLoadError{Source: legacyDivisionsFile, Err: fmt.Errorf("duplicate ward code %d", w.Code)}
		}
		r.legacyWardByCode[w.Code] = i
		r.wardsOfDistrict[w.DistrictCode] = append(r.wardsOfDistrict[w.DistrictCode], i)
		r.legacyWardsOfProvince[w.ProvinceCode] = append(r.legacyWardsOfProvince[w.ProvinceCode], i)
	}
	return nil
}

func (r *Registry) loadCrossRef() error {
	fh, cleanup, err := r.openOptionallyBzippedFile(crossRefFile)
	if err != nil {
		return &DataLoadError{Source: crossRefFile, Err: err}
	}
	defer cleanup()

	var table crossRefFileJSON
	if err := json.NewDecoder(fh).Decode(&table); err != nil {
		return &DataLoadError{Source: crossRefFile, Err: err}
	}
	if _, err := time.Parse("2006-01-02", table.EffectiveDate); err != nil {
		return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("bad effective_date %q", table.EffectiveDate)}
	}
	r.effectiveDate = table.EffectiveDate

	r.wardToCurrent = make(map[int]int)
	r.provinceToCurrent = make(map[int]int)
	r.wardSources = make(map[int][]int)
	r.provinceSources = make(map[int][]int)

	for _, e := range table.Entries {
		if e.LegacyKind != e.CurrentKind {
			err := fmt.Errorf("entry %d->%d maps a %s to a %s", e.LegacyCode, e.CurrentCode, e.LegacyKind, e.CurrentKind)
			return &DataLoadError{Source: crossRefFile, Err: err}
		}
		switch e.LegacyKind {
		case "ward":
			li, ok := r.legacyWardByCode[e.LegacyCode]
			if !ok {
				return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("unknown legacy ward %d", e.LegacyCode)}
			}
			ci, ok := r.wardByCode[e.CurrentCode]
			if !ok {
				return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("unknown current ward %d", e.CurrentCode)}
			}
			if _, dup := r.wardToCurrent[e.LegacyCode]; dup {
				return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("legacy ward %d mapped twice", e.LegacyCode)}
			}
			r.wardToCurrent[e.LegacyCode] = ci
			r.wardSources[e.CurrentCode] = append(r.wardSources[e.CurrentCode], li)
		case "province":
			li, ok := r.legacyProvinceByCode[e.LegacyCode]
			if !ok {
				return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("unknown legacy province %d", e.LegacyCode)}
			}
			ci, ok := r.provinceByCode[e.CurrentCode]
			if !ok {
				return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("unknown current province %d", e.CurrentCode)}
			}
			if _, dup := r.provinceToCurrent[e.LegacyCode]; dup {
				return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("legacy province %d mapped twice", e.LegacyCode)}
			}
			r.provinceToCurrent[e.LegacyCode] = ci
			r.provinceSources[e.CurrentCode] = append(r.provinceSources[e.CurrentCode], li)
		default:
			return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("entry %d: unknown kind %q", e.LegacyCode, e.LegacyKind)}
		}
	}

	// Every legacy unit must resolve: downstream code may rely on the
	// conversion table being total over the legacy tables.
	for _, p := range r.legacyProvinces {
		if _, ok := r.provinceToCurrent[p.Code]; !ok {
			return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("legacy province %d has no conversion entry", p.Code)}
		}
	}
	// Ward targets are deliberately not checked against the province
	// mapping: a split province (legacy 82 feeding both 80 and 82 in the
	// 2025 data) has wards landing outside its primary successor, so
	// totality is the strongest property the table guarantees.
	for _, w := range r.legacyWards {
		if _, ok := r.wardToCurrent[w.Code]; !ok {
			return &DataLoadError{Source: crossRefFile, Err: fmt.Errorf("legacy ward %d has no conversion entry", w.Code)}
		}
	}

	// Units that survived the reorganization untouched carry no source list;
	// the forward mapping above still covers them.
	for code, idxs := range r.wardSources {
		if len(idxs) != 1 {
			continue
		}
		lw := r.legacyWards[idxs[0]]
		cw := r.wards[r.wardByCode[code]]
		if lw.Code == cw.Code && lw.Name == cw.Name {
			delete(r.wardSources, code)
		}
	}
	for code, idxs := range r.provinceSources {
		if len(idxs) != 1 {
			continue
		}
		lp := r.legacyProvinces[idxs[0]]
		cp := r.provinces[r.provinceByCode[code]]
		if lp.Code == cp.Code && lp.Name == cp.Name {
			delete(r.provinceSources, code)
		}
	}

	// Source lists come out in file order; lookups promise ascending code.
	for _, idxs := range r.wardSources {
		sort.Ints(idxs)
	}
	for _, idxs := range r.provinceSources {
		sort.Ints(idxs)
	}
	return nil
}

func (r *Registry) loadVersion() error {
	fh, cleanup, err := r.openOptionallyBzippedFile(versionFile)
	if err != nil {
		return &DataLoadError{Source: versionFile, Err: err}
	}
	defer cleanup()

	raw, err := io.ReadAll(fh)
	if err != nil {
		return &DataLoadError{Source: versionFile, Err: err}
	}
	version := strings.TrimSpace(string(raw))
	if _, err := time.Parse("2006-01-02", version); err != nil {
		return &DataLoadError{Source: versionFile, Err: fmt.Errorf("bad data version %q", version)}
	}
	r.dataVersion = version
	return nil
}

func (r *Registry) buildSearchKeys() {
	r.provinceKeys = make([]string, len(r.provinces))
	for i, p := range r.provinces {
		r.provinceKeys[i] = foldName(p.Name)
	}
	r.wardKeys = make([]string, len(r.wards))
	for i, w := range r.wards {
		r.wardKeys[i] = foldName(w.Name)
	}
	r.legacyProvinceKeys = make([]string, len(r.legacyProvinces))
	for i, p := range r.legacyProvinces {
		r.legacyProvinceKeys[i] = foldName(p.Name)
	}
	r.legacyDistrictKeys = make([]string, len(r.legacyDistricts))
	for i, d := range r.legacyDistricts {
		r.legacyDistrictKeys[i] = foldName(d.Name)
	}
	r.legacyWardKeys = make([]string, len(r.legacyWards))
	for i, w := range r.legacyWards {
		r.legacyWardKeys[i] = foldName(w.Name)
	}
}

func makeProvince(pj provinceJSON, gen Generation) (Province, error) {
	if pj.Name == "" || pj.Code <= 0 || pj.Codename == "" {
		return Province{}, fmt.Errorf("province %d %q: name, code and codename are required", pj.Code, pj.Name)
	}
	dt, ok := parseDivisionType(pj.DivisionType)
	if !ok || !validDivisionType(gen, KindProvince, dt) {
		return Province{}, fmt.Errorf("province %d %q: invalid division type %q", pj.Code, pj.Name, pj.DivisionType)
	}
	return Province{
		Name:         pj.Name,
		Code:         pj.Code,
		DivisionType: dt,
		Codename:     pj.Codename,
		PhoneCode:    pj.PhoneCode,
	}, nil
}

func makeDistrict(dj districtJSON, provinceCode int) (District, error) {
	if dj.Name == "" || dj.Code <= 0 || dj.Codename == "" {
		return District{}, fmt.Errorf("district %d %q: name, code and codename are required", dj.Code, dj.Name)
	}
	dt, ok := parseDivisionType(dj.DivisionType)
	if !ok || !validDivisionType(Legacy, KindDistrict, dt) {
		return District{}, fmt.Errorf("district %d %q: invalid division type %q", dj.Code, dj.Name, dj.DivisionType)
	}
	if dj.ProvinceCode != 0 && dj.ProvinceCode != provinceCode {
		return District{}, fmt.Errorf("district %d %q: province_code %d disagrees with enclosing province %d", dj.Code, dj.Name, dj.ProvinceCode, provinceCode)
	}
	return District{
		Name:         dj.Name,
		Code:         dj.Code,
		DivisionType: dt,
		Codename:     dj.Codename,
		ProvinceCode: provinceCode,
	}, nil
}

func makeWard(wj wardJSON, gen Generation, provinceCode, districtCode int) (Ward, error) {
	if wj.Name == "" || wj.Code <= 0 || wj.Codename == "" {
		return Ward{}, fmt.Errorf("ward %d %q: name, code and codename are required", wj.Code, wj.Name)
	}
	dt, ok := parseDivisionType(wj.DivisionType)
	if !ok || !validDivisionType(gen, KindWard, dt) {
		return Ward{}, fmt.Errorf("ward %d %q: invalid division type %q", wj.Code, wj.Name, wj.DivisionType)
	}
	if wj.ProvinceCode != 0 && wj.ProvinceCode != provinceCode {
		return Ward{}, fmt.Errorf("ward %d %q: province_code %d disagrees with enclosing province %d", wj.Code, wj.Name, wj.ProvinceCode, provinceCode)
	}
	if wj.DistrictCode != 0 && wj.DistrictCode != districtCode {
		return Ward{}, fmt.Errorf("ward %d %q: district_code %d disagrees with enclosing district %d", wj.Code, wj.Name, wj.DistrictCode, districtCode)
	}
	return Ward{
		Name:          wj.Name,
		Code:          wj.Code,
		DivisionType:  dt,
		Codename:      wj.Codename,
		ShortCodename: wj.ShortCodename,
		ProvinceCode:  provinceCode,
		DistrictCode:  districtCode,
	}, nil
}
