package vnprovinces

import "strings"

// matchIndexes scans a pre-folded key slice for keys containing the folded
// query as a substring. Keys are aligned with entity slices sorted by code,
// so the returned indexes are already in ascending code order. A query that
// folds to nothing matches nothing.
func matchIndexes(keys []string, query string) []int {
	q := foldName(query)
	if q == "" {
		return nil
	}
	var out []int
	for i, k := range keys {
		if strings.Contains(k, q) {
			out = append(out, i)
		}
	}
	return out
}

// SearchProvinces returns the current provinces whose name contains the
// query, compared with diacritics stripped and case ignored, so "lao cai",
// "Lào Cai" and "LAO CAI" all find Tỉnh Lào Cai. Results are in ascending
// code order; no match is an empty result, not an error.
func (r *Registry) SearchProvinces(query string) []Province {
	idxs := matchIndexes(r.provinceKeys, query)
	out := make([]Province, len(idxs))
	for i, j := range idxs {
		out[i] = r.provinces[j]
	}
	return out
}

// SearchWards returns the current wards whose name contains the query,
// diacritic-insensitively, in ascending code order. Ward names are not
// unique nationwide, so expect several results for common names.
func (r *Registry) SearchWards(query string) []Ward {
	idxs := matchIndexes(r.wardKeys, query)
	out := make([]Ward, len(idxs))
	for i, j := range idxs {
		out[i] = r.wards[j]
	}
	return out
}

// SearchLegacyProvinces searches the pre-2025 province names.
func (r *Registry) SearchLegacyProvinces(query string) []Province {
	idxs := matchIndexes(r.legacyProvinceKeys, query)
	out := make([]Province, len(idxs))
	for i, j := range idxs {
		out[i] = r.legacyProvinces[j]
	}
	return out
}

// SearchLegacyDistricts searches the pre-2025 district names.
func (r *Registry) SearchLegacyDistricts(query string) []District {
	idxs := matchIndexes(r.legacyDistrictKeys, query)
	out := make([]District, len(idxs))
	for i, j := range idxs {
		out[i] = r.legacyDistricts[j]
	}
	return out
}

// SearchLegacyWards searches the pre-2025 ward names.
func (r *Registry) SearchLegacyWards(query string) []Ward {
	idxs := matchIndexes(r.legacyWardKeys, query)
	out := make([]Ward, len(idxs))
	for i, j := range idxs {
		out[i] = r.legacyWards[j]
	}
	return out
}

// SearchWardsFromLegacy matches the query against pre-2025 ward names and
// resolves every hit forward to its current ward, one row per legacy hit in
// ascending legacy code order. This answers "the address says Phường Phú Mỹ;
// what is that ward called now?" when only the old name is known.
func (r *Registry) SearchWardsFromLegacy(query string) []CurrentWard {
	idxs := matchIndexes(r.legacyWardKeys, query)
	out := make([]CurrentWard, 0, len(idxs))
	for _, j := range idxs {
		lw := r.legacyWards[j]
		ci, ok := r.wardToCurrent[lw.Code]
		if !ok {
			continue
		}
		out = append(out, CurrentWard{Ward: r.wards[ci], LegacyCode: lw.Code, LegacyName: lw.Name})
	}
	return out
}

// SearchProvincesFromLegacy matches the query against pre-2025 province
// names and resolves every hit forward to its current province, in ascending
// legacy code order.
func (r *Registry) SearchProvincesFromLegacy(query string) []CurrentProvince {
	idxs := matchIndexes(r.legacyProvinceKeys, query)
	out := make([]CurrentProvince, 0, len(idxs))
	for _, j := range idxs {
		lp := r.legacyProvinces[j]
		ci, ok := r.provinceToCurrent[lp.Code]
		if !ok {
			continue
		}
		out = append(out, CurrentProvince{Province: r.provinces[ci], LegacyCode: lp.Code, LegacyName: lp.Name})
	}
	return out
}
