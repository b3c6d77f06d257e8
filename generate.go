package vnprovinces

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// This file is the build side of the package: it turns the CSV exports of
// the National Statistics Office into the JSON dataset embedded under data/.
// It is driven by cmd/update-dataset and runs offline, between releases;
// nothing here executes at lookup time.

// Amendments are hand-maintained fixes applied during generation: ward names
// corrected by code where the government export contains a known defect, and
// aliases mapping the phone-code dataset's spelling of a province name to
// the codename used by the division dataset.
type Amendments struct {
	WardRenames  map[int]string    `yaml:"ward_renames"`
	PhoneAliases map[string]string `yaml:"phone_aliases"`
}

// LoadAmendments reads an amendments YAML file. An empty path means no
// amendments.
func LoadAmendments(path string) (Amendments, error) {
	var am Amendments
	if path == "" {
		return am, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return am, err
	}
	if err := yaml.Unmarshal(raw, &am); err != nil {
		return am, fmt.Errorf("parse amendments %s: %w", path, err)
	}
	return am, nil
}

// GenerateOptions locates the input files for GenerateDivisions.
type GenerateOptions struct {
	WardCSV     string // ward export: code, name, province name
	ProvinceCSV string // province export: code, name
	PhoneCSV    string // phone-code table: ordinal, province name, area code
	Amendments  string // optional amendments YAML
	OutDir      string
	Version     string // dataset version date, YYYY-MM-DD; empty means today
}

// DatasetStats counts the units written by a generation step, for the run
// manifest and the logs.
type DatasetStats struct {
	Provinces int `json:"provinces"`
	Districts int `json:"districts,omitempty"`
	Wards     int `json:"wards"`
}

func openCSV(path string) (*csv.Reader, func() error, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	rd := csv.NewReader(fh)
	rd.TrimLeadingSpace = true
	return rd, fh.Close, nil
}

func requireHeader(got, want []string, path string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%s: want %d columns %v, got %d", path, len(want), want, len(got))
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return fmt.Errorf("%s: column %d is %q, want %q", path, i+1, got[i], want[i])
		}
	}
	return nil
}

// divisionTypeFromName infers the classification from the honorific prefix
// of an official name, e.g. "Thị xã Sơn Tây" is a thị xã. Top-level "Thành
// phố" means a municipality (thành phố trung ương); at district level the
// same prefix means a provincial city.
func divisionTypeFromName(name string, gen Generation, kind DivisionKind) (DivisionType, error) {
	lower := strings.ToLower(name)
	prefixOf := func(t DivisionType) bool { return strings.HasPrefix(lower, string(t)+" ") }
	switch kind {
	case KindProvince:
		switch {
		case prefixOf(TypeTinh):
			return TypeTinh, nil
		case prefixOf(TypeThanhPho):
			return TypeThanhPhoTrungUong, nil
		}
	case KindDistrict:
		for _, t := range []DivisionType{TypeHuyen, TypeQuan, TypeThanhPho, TypeThiXa} {
			if prefixOf(t) {
				return t, nil
			}
		}
	case KindWard:
		for _, t := range []DivisionType{TypeXa, TypePhuong, TypeThiTran, TypeDacKhu} {
			if prefixOf(t) && validDivisionType(gen, KindWard, t) {
				return t, nil
			}
		}
	}
	return "", fmt.Errorf("cannot infer division type of %q", name)
}

// shortCodenamePrefixes are the slug prefixes stripped to form a ward's
// short codename.
var shortCodenamePrefixes = []string{"phuong_", "xa_", "thi_tran_", "dac_khu_"}

// assignShortCodenames fills in ShortCodename for one province's wards.
// When two wards of the province would share a short form, both keep their
// full codename instead, since a short form that needs a tiebreaker is no
// longer a convenience.
func assignShortCodenames(wards []wardJSON) {
	counts := make(map[string]int, len(wards))
	for _, w := range wards {
		counts[truncateLeading(w.Codename, shortCodenamePrefixes)]++
	}
	for i, w := range wards {
		short := truncateLeading(w.Codename, shortCodenamePrefixes)
		if counts[short] > 1 {
			short = w.Codename
		}
		wards[i].ShortCodename = short
	}
}

// GenerateDivisions builds divisions.json and version.txt from the post-2025
// government exports.
func GenerateDivisions(opts GenerateOptions) (DatasetStats, error) {
	var stats DatasetStats
	version := opts.Version
	if version == "" {
		version = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", version); err != nil {
		return stats, fmt.Errorf("bad version %q, want YYYY-MM-DD", version)
	}
	am, err := LoadAmendments(opts.Amendments)
	if err != nil {
		return stats, err
	}

	provinces, byName, err := readProvinceCSV(opts.ProvinceCSV)
	if err != nil {
		return stats, err
	}
	if err := attachPhoneCodes(provinces, opts.PhoneCSV, am.PhoneAliases); err != nil {
		return stats, err
	}

	rd, cleanup, err := openCSV(opts.WardCSV)
	if err != nil {
		return stats, err
	}
	defer cleanup()
	header, err := rd.Read()
	if err != nil {
		return stats, fmt.Errorf("read %s: %w", opts.WardCSV, err)
	}
	if err := requireHeader(header, []string{"Mã", "Tên", "Tỉnh / Thành phố"}, opts.WardCSV); err != nil {
		return stats, err
	}

	seen := make(map[int]string)
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read %s: %w", opts.WardCSV, err)
		}
		code, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return stats, fmt.Errorf("%s: bad ward code %q", opts.WardCSV, row[0])
		}
		name := strings.Join(strings.Fields(row[1]), " ")
		if fixed, ok := am.WardRenames[code]; ok {
			log.Debug().Int("code", code).Str("from", name).Str("to", fixed).Msg("amend ward name")
			name = fixed
		}
		if prev, dup := seen[code]; dup {
			return stats, fmt.Errorf("%s: ward code %d appears twice (%q, %q)", opts.WardCSV, code, prev, name)
		}
		seen[code] = name

		pi, ok := byName[foldName(row[2])]
		if !ok {
			return stats, fmt.Errorf("%s: ward %d %q references unknown province %q", opts.WardCSV, code, name, row[2])
		}
		dt, err := divisionTypeFromName(name, Current, KindWard)
		if err != nil {
			return stats, fmt.Errorf("%s: ward %d: %w", opts.WardCSV, code, err)
		}
		provinces[pi].Wards = append(provinces[pi].Wards, wardJSON{
			Name:         name,
			Code:         code,
			DivisionType: string(dt),
			Codename:     Codename(name),
			ProvinceCode: provinces[pi].Code,
		})
		stats.Wards++
	}

	for i := range provinces {
		sort.Slice(provinces[i].Wards, func(a, b int) bool {
			return provinces[i].Wards[a].Code < provinces[i].Wards[b].Code
		})
		assignShortCodenames(provinces[i].Wards)
	}
	stats.Provinces = len(provinces)

	if err := writeJSON(filepath.Join(opts.OutDir, divisionsFile), provinces); err != nil {
		return stats, err
	}
	if err := os.WriteFile(filepath.Join(opts.OutDir, versionFile), []byte(version+"\n"), 0o644); err != nil {
		return stats, err
	}
	log.Info().Int("provinces", stats.Provinces).Int("wards", stats.Wards).
		Str("version", version).Msg("divisions dataset written")
	return stats, nil
}

func readProvinceCSV(path string) ([]provinceJSON, map[string]int, error) {
	rd, cleanup, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()
	header, err := rd.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := requireHeader(header, []string{"Mã", "Tên"}, path); err != nil {
		return nil, nil, err
	}

	var provinces []provinceJSON
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		code, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: bad province code %q", path, row[0])
		}
		name := strings.Join(strings.Fields(row[1]), " ")
		dt, err := divisionTypeFromName(name, Current, KindProvince)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: province %d: %w", path, code, err)
		}
		provinces = append(provinces, provinceJSON{
			Name:         name,
			Code:         code,
			DivisionType: string(dt),
			Codename:     Codename(name),
		})
	}
	sort.Slice(provinces, func(i, j int) bool { return provinces[i].Code < provinces[j].Code })

	byName := make(map[string]int, len(provinces))
	for i, p := range provinces {
		key := foldName(p.Name)
		if _, dup := byName[key]; dup {
			return nil, nil, fmt.Errorf("%s: two provinces fold to %q", path, key)
		}
		byName[key] = i
	}
	return provinces, byName, nil
}

// attachPhoneCodes joins the phone-code table onto the provinces. The phone
// dataset spells some provinces differently from the division dataset, most
// of all ones renamed by the reorganization; aliases map those spellings to
// codenames.
func attachPhoneCodes(provinces []provinceJSON, path string, aliases map[string]string) error {
	byCodename := make(map[string]int, len(provinces))
	for i, p := range provinces {
		byCodename[p.Codename] = i
	}

	rd, cleanup, err := openCSV(path)
	if err != nil {
		return err
	}
	defer cleanup()
	header, err := rd.Read()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := requireHeader(header, []string{"STT", "Tỉnh / Thành phố", "Mã vùng"}, path); err != nil {
		return err
	}

	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		phone, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return fmt.Errorf("%s: bad area code %q for %q", path, row[2], row[1])
		}
		codename := aliases[strings.TrimSpace(row[1])]
		if codename == "" {
			codename = Codename(row[1])
			// The phone dataset omits the honorific prefix.
			if _, ok := byCodename[codename]; !ok {
				for _, prefix := range []string{"tinh_", "thanh_pho_"} {
					if _, ok := byCodename[prefix+codename]; ok {
						codename = prefix + codename
						break
					}
				}
			}
		}
		i, ok := byCodename[codename]
		if !ok {
			return fmt.Errorf("%s: phone entry %q matches no province", path, row[1])
		}
		provinces[i].PhoneCode = phone
	}

	for _, p := range provinces {
		if p.PhoneCode == 0 {
			return fmt.Errorf("%s: no phone code for province %d %q", path, p.Code, p.Name)
		}
	}
	return nil
}

// GenerateLegacyDivisions builds legacy-divisions.json from the pre-2025
// export: one row per ward with its district and province, plus one row with
// an empty ward for every district that had no wards of its own.
func GenerateLegacyDivisions(legacyCSV, outDir string) (DatasetStats, error) {
	var stats DatasetStats
	rd, cleanup, err := openCSV(legacyCSV)
	if err != nil {
		return stats, err
	}
	defer cleanup()
	header, err := rd.Read()
	if err != nil {
		return stats, fmt.Errorf("read %s: %w", legacyCSV, err)
	}
	want := []string{"Tỉnh / Thành phố", "Mã TP", "Quận / Huyện", "Mã QH", "Phường / Xã", "Mã PX"}
	if err := requireHeader(header, want, legacyCSV); err != nil {
		return stats, err
	}

	var provinces []provinceJSON
	provinceIdx := make(map[int]int)
	districtIdx := make(map[int][2]int) // district code -> province idx, district idx

	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read %s: %w", legacyCSV, err)
		}

		pCode, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return stats, fmt.Errorf("%s: bad province code %q", legacyCSV, row[1])
		}
		pi, ok := provinceIdx[pCode]
		if !ok {
			name := strings.Join(strings.Fields(row[0]), " ")
			dt, err := divisionTypeFromName(name, Legacy, KindProvince)
			if err != nil {
				return stats, fmt.Errorf("%s: province %d: %w", legacyCSV, pCode, err)
			}
			pi = len(provinces)
			provinceIdx[pCode] = pi
			provinces = append(provinces, provinceJSON{
				Name:         name,
				Code:         pCode,
				DivisionType: string(dt),
				Codename:     Codename(name),
			})
		}

		dCode, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return stats, fmt.Errorf("%s: bad district code %q", legacyCSV, row[3])
		}
		loc, ok := districtIdx[dCode]
		if !ok {
			name := strings.Join(strings.Fields(row[2]), " ")
			dt, err := divisionTypeFromName(name, Legacy, KindDistrict)
			if err != nil {
				return stats, fmt.Errorf("%s: district %d: %w", legacyCSV, dCode, err)
			}
			loc = [2]int{pi, len(provinces[pi].Districts)}
			districtIdx[dCode] = loc
			provinces[pi].Districts = append(provinces[pi].Districts, districtJSON{
				Name:         name,
				Code:         dCode,
				DivisionType: string(dt),
				Codename:     Codename(name),
				ProvinceCode: provinces[pi].Code,
			})
			stats.Districts++
		} else if loc[0] != pi {
			return stats, fmt.Errorf("%s: district %d listed under two provinces", legacyCSV, dCode)
		}

		if strings.TrimSpace(row[5]) == "" {
			continue // ward-less district row
		}
		wCode, err := strconv.Atoi(strings.TrimSpace(row[5]))
		if err != nil {
			return stats, fmt.Errorf("%s: bad ward code %q", legacyCSV, row[5])
		}
		name := strings.Join(strings.Fields(row[4]), " ")
		dt, err := divisionTypeFromName(name, Legacy, KindWard)
		if err != nil {
			return stats, fmt.Errorf("%s: ward %d: %w", legacyCSV, wCode, err)
		}
		d := &provinces[loc[0]].Districts[loc[1]]
		d.Wards = append(d.Wards, wardJSON{
			Name:         name,
			Code:         wCode,
			DivisionType: string(dt),
			Codename:     Codename(name),
			DistrictCode: d.Code,
		})
		stats.Wards++
	}

	sort.Slice(provinces, func(i, j int) bool { return provinces[i].Code < provinces[j].Code })
	for i := range provinces {
		sort.Slice(provinces[i].Districts, func(a, b int) bool {
			return provinces[i].Districts[a].Code < provinces[i].Districts[b].Code
		})
		for j := range provinces[i].Districts {
			d := &provinces[i].Districts[j]
			sort.Slice(d.Wards, func(a, b int) bool { return d.Wards[a].Code < d.Wards[b].Code })
		}
	}
	stats.Provinces = len(provinces)

	if err := writeJSON(filepath.Join(outDir, legacyDivisionsFile), provinces); err != nil {
		return stats, err
	}
	log.Info().Int("provinces", stats.Provinces).Int("districts", stats.Districts).
		Int("wards", stats.Wards).Msg("legacy divisions dataset written")
	return stats, nil
}

// unitCodeRe extracts the numeric code the conversion table appends to each
// unit name, e.g. "Phường Trúc Bạch (00004)".
var unitCodeRe = regexp.MustCompile(`\((\d+)\)\s*$`)

func codeFromUnit(s string) (int, error) {
	m := unitCodeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("no code in unit %q", s)
	}
	return strconv.Atoi(m[1])
}

// GenerateCrossRef builds crossref.json from the government conversion table
// and the two already-generated division datasets. Rows noted "toàn bộ"
// record whole-unit merges; a legacy ward split across several current wards
// must still have exactly one whole-unit row naming its primary target, and
// generation fails when the table leaves a legacy unit without one.
func GenerateCrossRef(conversionCSV, dataDir, effectiveDate, outDir string) (int, error) {
	if _, err := time.Parse("2006-01-02", effectiveDate); err != nil {
		return 0, fmt.Errorf("bad effective date %q, want YYYY-MM-DD", effectiveDate)
	}

	current, err := readDivisionsJSON(filepath.Join(dataDir, divisionsFile))
	if err != nil {
		return 0, err
	}
	legacy, err := readDivisionsJSON(filepath.Join(dataDir, legacyDivisionsFile))
	if err != nil {
		return 0, err
	}

	currentWardProvince := make(map[int]int)
	for _, p := range current {
		for _, w := range p.Wards {
			currentWardProvince[w.Code] = p.Code
		}
	}
	legacyWardProvince := make(map[int]int)
	legacyProvinceCodes := make([]int, 0, len(legacy))
	for _, p := range legacy {
		legacyProvinceCodes = append(legacyProvinceCodes, p.Code)
		for _, d := range p.Districts {
			for _, w := range d.Wards {
				legacyWardProvince[w.Code] = p.Code
			}
		}
	}

	rd, cleanup, err := openCSV(conversionCSV)
	if err != nil {
		return 0, err
	}
	defer cleanup()
	header, err := rd.Read()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", conversionCSV, err)
	}
	want := []string{"STT", "Đơn vị cũ", "Đơn vị mới", "Ghi chú"}
	if err := requireHeader(header, want, conversionCSV); err != nil {
		return 0, err
	}

	wardTarget := make(map[int]int)
	// Tally which current province each legacy province's wards landed in;
	// the majority target becomes the province-level forward mapping.
	provinceTally := make(map[int]map[int]int)
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", conversionCSV, err)
		}
		if !strings.EqualFold(strings.TrimSpace(row[3]), "toàn bộ") {
			continue // partial transfer, not the primary mapping
		}
		oldCode, err := codeFromUnit(row[1])
		if err != nil {
			return 0, fmt.Errorf("%s: %w", conversionCSV, err)
		}
		newCode, err := codeFromUnit(row[2])
		if err != nil {
			return 0, fmt.Errorf("%s: %w", conversionCSV, err)
		}
		if prev, dup := wardTarget[oldCode]; dup {
			if prev != newCode {
				return 0, fmt.Errorf("%s: legacy ward %d has whole-unit rows for both %d and %d",
					conversionCSV, oldCode, prev, newCode)
			}
			continue // repeated row, already tallied
		}
		oldProv, ok := legacyWardProvince[oldCode]
		if !ok {
			return 0, fmt.Errorf("%s: legacy ward %d not in %s", conversionCSV, oldCode, legacyDivisionsFile)
		}
		newProv, ok := currentWardProvince[newCode]
		if !ok {
			return 0, fmt.Errorf("%s: current ward %d not in %s", conversionCSV, newCode, divisionsFile)
		}
		wardTarget[oldCode] = newCode
		if provinceTally[oldProv] == nil {
			provinceTally[oldProv] = make(map[int]int)
		}
		provinceTally[oldProv][newProv]++
	}

	// Every legacy ward must come out with a target; a silent gap here would
	// surface as a lookup failure for a genuinely historical code.
	missing := 0
	for code := range legacyWardProvince {
		if _, ok := wardTarget[code]; !ok {
			log.Error().Int("legacy_ward", code).Msg("no whole-unit conversion row")
			missing++
		}
	}
	if missing > 0 {
		return 0, fmt.Errorf("%s: %d legacy wards have no whole-unit conversion row", conversionCSV, missing)
	}

	table := crossRefFileJSON{EffectiveDate: effectiveDate}
	for _, oldProv := range legacyProvinceCodes {
		tally := provinceTally[oldProv]
		if len(tally) == 0 {
			return 0, fmt.Errorf("legacy province %d has no converted wards", oldProv)
		}
		target, best := 0, -1
		for newProv, n := range tally {
			if n > best || (n == best && newProv < target) {
				target, best = newProv, n
			}
		}
		table.Entries = append(table.Entries, crossRefEntryJSON{
			LegacyCode: oldProv, LegacyKind: "province",
			CurrentCode: target, CurrentKind: "province",
		})
	}
	wardCodes := make([]int, 0, len(wardTarget))
	for code := range wardTarget {
		wardCodes = append(wardCodes, code)
	}
	sort.Ints(wardCodes)
	for _, code := range wardCodes {
		table.Entries = append(table.Entries, crossRefEntryJSON{
			LegacyCode: code, LegacyKind: "ward",
			CurrentCode: wardTarget[code], CurrentKind: "ward",
		})
	}

	if err := writeJSON(filepath.Join(outDir, crossRefFile), table); err != nil {
		return 0, err
	}
	log.Info().Int("entries", len(table.Entries)).Str("effective_date", effectiveDate).
		Msg("cross-reference table written")
	return len(table.Entries), nil
}

func readDivisionsJSON(path string) ([]provinceJSON, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var provinces []provinceJSON
	if err := json.Unmarshal(raw, &provinces); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return provinces, nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

// knownDivisions anchors ValidateDataset: divisions whose codes and facts
// are stable enough to assert on every generated dataset.
var knownDivisions = []struct {
	provinceCode  int
	provinceName  string
	phoneCode     int
	wardCode      int
	wardName      string
	legacySources []string // names expected among the ward's legacy sources
}{
	{1, "Thành phố Hà Nội", 24, 4, "Phường Ba Đình", []string{"Phường Trúc Bạch", "Phường Quán Thánh"}},
	{15, "Tỉnh Lào Cai", 214, 0, "", nil},
	{79, "Thành phố Hồ Chí Minh", 28, 0, "", nil},
	{46, "Thành phố Huế", 234, 0, "", nil},
}

// ValidateDataset loads a generated dataset through the same loader the
// library uses and checks it against the known-division table plus the
// cross-reference round-trip invariants. Run before publishing.
func ValidateDataset(dir string) error {
	r, err := New(WithDataDir(dir))
	if err != nil {
		return err
	}

	for _, kd := range knownDivisions {
		p, err := r.Province(kd.provinceCode)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		if p.Name != kd.provinceName {
			return fmt.Errorf("validate: province %d is %q, want %q", kd.provinceCode, p.Name, kd.provinceName)
		}
		if p.PhoneCode != kd.phoneCode {
			return fmt.Errorf("validate: province %d phone code %d, want %d", kd.provinceCode, p.PhoneCode, kd.phoneCode)
		}
		if kd.wardCode == 0 {
			continue
		}
		w, err := r.Ward(kd.wardCode)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		if w.Name != kd.wardName {
			return fmt.Errorf("validate: ward %d is %q, want %q", kd.wardCode, w.Name, kd.wardName)
		}
		sources, err := r.LegacyWardSources(kd.wardCode)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		for _, wantName := range kd.legacySources {
			found := false
			for _, s := range sources {
				if s.Name == wantName {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("validate: ward %d sources lack %q", kd.wardCode, wantName)
			}
		}
	}

	// Round trip: every reverse source must forward-resolve to its unit.
	wards := 0
	for w := range r.Wards() {
		wards++
		sources, err := r.LegacyWardSources(w.Code)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		for _, s := range sources {
			cur, err := r.CurrentWardForLegacy(s.Code)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}
			if cur.Ward.Code != w.Code {
				return fmt.Errorf("validate: legacy ward %d resolves to %d, expected %d", s.Code, cur.Ward.Code, w.Code)
			}
		}
	}
	legacyWards := 0
	for w := range r.LegacyWards() {
		legacyWards++
		if _, err := r.CurrentWardForLegacy(w.Code); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
	}
	log.Info().Int("wards", wards).Int("legacy_wards", legacyWards).
		Str("version", r.DataVersion()).Msg("dataset validated")
	return nil
}
