package vnprovinces

// CurrentWardForLegacy resolves a pre-2025 ward code to the current ward it
// was merged into. The result keeps the legacy code and name so that callers
// migrating stored addresses can record where a value came from.
func (r *Registry) CurrentWardForLegacy(legacyCode int) (CurrentWard, error) {
	li, ok := r.legacyWardByCode[legacyCode]
	if !ok {
		return CurrentWard{}, &LegacyCodeNotFoundError{Kind: KindWard, Code: legacyCode}
	}
	lw := r.legacyWards[li]
	ci, ok := r.wardToCurrent[legacyCode]
	if !ok {
		// load() guarantees the conversion table is total over the legacy
		// ward table, so this only happens for a hand-built Registry with a
		// defective dataset.
		return CurrentWard{}, &LegacyCodeNotFoundError{Kind: KindWard, Code: legacyCode}
	}
	return CurrentWard{Ward: r.wards[ci], LegacyCode: lw.Code, LegacyName: lw.Name}, nil
}

// CurrentProvinceForLegacy resolves a pre-2025 province code to the current
// province it was merged into.
func (r *Registry) CurrentProvinceForLegacy(legacyCode int) (CurrentProvince, error) {
	li, ok := r.legacyProvinceByCode[legacyCode]
	if !ok {
		return CurrentProvince{}, &LegacyCodeNotFoundError{Kind: KindProvince, Code: legacyCode}
	}
	lp := r.legacyProvinces[li]
	ci, ok := r.provinceToCurrent[legacyCode]
	if !ok {
		return CurrentProvince{}, &LegacyCodeNotFoundError{Kind: KindProvince, Code: legacyCode}
	}
	return CurrentProvince{Province: r.provinces[ci], LegacyCode: lp.Code, LegacyName: lp.Name}, nil
}

// LegacyWardSources returns the pre-2025 wards that were merged to form the
// current ward, in ascending legacy code order. A ward that passed through
// the reorganization unchanged has no sources; the empty slice means
// "identical before and after", not "unknown".
func (r *Registry) LegacyWardSources(currentCode int) ([]Ward, error) {
	if _, ok := r.wardByCode[currentCode]; !ok {
		return nil, &UnknownCodeError{Generation: Current, Kind: KindWard, Code: currentCode}
	}
	idxs := r.wardSources[currentCode]
	out := make([]Ward, len(idxs))
	for i, li := range idxs {
		out[i] = r.legacyWards[li]
	}
	return out, nil
}

// LegacyProvinceSources returns the pre-2025 provinces that were merged to
// form the current province, in ascending legacy code order. Empty for
// provinces that kept their code and name through the reorganization.
func (r *Registry) LegacyProvinceSources(currentCode int) ([]Province, error) {
	if _, ok := r.provinceByCode[currentCode]; !ok {
		return nil, &UnknownCodeError{Generation: Current, Kind: KindProvince, Code: currentCode}
	}
	idxs := r.provinceSources[currentCode]
	out := make([]Province, len(idxs))
	for i, li := range idxs {
		out[i] = r.legacyProvinces[li]
	}
	return out, nil
}

// WardsForLegacyDistrict resolves every ward of a dissolved pre-2025
// district, one row per legacy ward in ascending legacy code order. Several
// rows may point at the same current ward when the district's wards were
// merged together. A district that had no wards of its own, like Huyện Côn
// Đảo, yields an empty slice.
func (r *Registry) WardsForLegacyDistrict(districtCode int) ([]CurrentWard, error) {
	if _, ok := r.legacyDistrictByCode[districtCode]; !ok {
		return nil, &LegacyCodeNotFoundError{Kind: KindDistrict, Code: districtCode}
	}
	idxs := r.wardsOfDistrict[districtCode]
	out := make([]CurrentWard, 0, len(idxs))
	for _, li := range idxs {
		lw := r.legacyWards[li]
		ci, ok := r.wardToCurrent[lw.Code]
		if !ok {
			return nil, &LegacyCodeNotFoundError{Kind: KindWard, Code: lw.Code}
		}
		out = append(out, CurrentWard{Ward: r.wards[ci], LegacyCode: lw.Code, LegacyName: lw.Name})
	}
	return out, nil
}
