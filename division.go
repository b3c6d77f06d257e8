// Package vnprovinces is an offline reference of Vietnamese administrative
// divisions, covering both the current two-level arrangement (province, ward)
// in force since the 2025-07-01 reorganization and the previous three-level
// arrangement (province, district, ward), with a cross-reference between the
// two generations.
package vnprovinces

import "fmt"

// Generation selects which side of the 2025-07-01 reorganization a table
// belongs to.
type Generation uint8

const (
	// Current is the two-level arrangement in force since 2025-07-01.
	Current Generation = iota
	// Legacy is the three-level arrangement that preceded it.
	Legacy
)

func (g Generation) String() string {
	switch g {
	case Current:
		return "current"
	case Legacy:
		return "legacy"
	}
	return fmt.Sprintf("Generation(%d)", uint8(g))
}

// DivisionKind identifies the level of an administrative unit. Districts
// exist only in the legacy generation.
type DivisionKind uint8

const (
	KindProvince DivisionKind = iota
	KindDistrict
	KindWard
)

func (k DivisionKind) String() string {
	switch k {
	case KindProvince:
		return "province"
	case KindDistrict:
		return "district"
	case KindWard:
		return "ward"
	}
	return fmt.Sprintf("DivisionKind(%d)", uint8(k))
}

// DivisionType is the administrative classification of a unit, in Vietnamese,
// as published by the National Statistics Office.
type DivisionType string

const (
	TypeTinh              DivisionType = "tỉnh"
	TypeThanhPhoTrungUong DivisionType = "thành phố trung ương"
	TypeHuyen             DivisionType = "huyện"
	TypeQuan              DivisionType = "quận"
	TypeThanhPho          DivisionType = "thành phố"
	TypeThiXa             DivisionType = "thị xã"
	TypeXa                DivisionType = "xã"
	TypePhuong            DivisionType = "phường"
	TypeThiTran           DivisionType = "thị trấn"
	TypeDacKhu            DivisionType = "đặc khu"
)

// parseDivisionType canonicalizes a decoded division type string so that all
// loaded entities share the package-level constants instead of thousands of
// separate copies of the same few words.
func parseDivisionType(s string) (DivisionType, bool) {
	switch DivisionType(s) {
	case TypeTinh:
		return TypeTinh, true
	case TypeThanhPhoTrungUong:
		return TypeThanhPhoTrungUong, true
	case TypeHuyen:
		return TypeHuyen, true
	case TypeQuan:
		return TypeQuan, true
	case TypeThanhPho:
		return TypeThanhPho, true
	case TypeThiXa:
		return TypeThiXa, true
	case TypeXa:
		return TypeXa, true
	case TypePhuong:
		return TypePhuong, true
	case TypeThiTran:
		return TypeThiTran, true
	case TypeDacKhu:
		return TypeDacKhu, true
	}
	return "", false
}

// divisionTypesFor lists the classifications a unit of the given generation
// and kind may legitimately carry.
func divisionTypesFor(gen Generation, kind DivisionKind) []DivisionType {
	switch kind {
	case KindProvince:
		return []DivisionType{TypeTinh, TypeThanhPhoTrungUong}
	case KindDistrict:
		if gen == Legacy {
			return []DivisionType{TypeHuyen, TypeQuan, TypeThanhPho, TypeThiXa}
		}
	case KindWard:
		if gen == Current {
			return []DivisionType{TypeXa, TypePhuong, TypeDacKhu}
		}
		return []DivisionType{TypeXa, TypePhuong, TypeThiTran}
	}
	return nil
}

func validDivisionType(gen Generation, kind DivisionKind, t DivisionType) bool {
	for _, allowed := range divisionTypesFor(gen, kind) {
		if t == allowed {
			return true
		}
	}
	return false
}

// Province is a first-level division. The same struct describes both
// generations; PhoneCode is the landline area code.
type Province struct {
	Name         string       `json:"name"`
	Code         int          `json:"code"`
	DivisionType DivisionType `json:"division_type"`
	Codename     string       `json:"codename"`
	PhoneCode    int          `json:"phone_code"`
}

// District is a second-level division of the legacy generation. The current
// generation has no districts.
type District struct {
	Name         string       `json:"name"`
	Code         int          `json:"code"`
	DivisionType DivisionType `json:"division_type"`
	Codename     string       `json:"codename"`
	ProvinceCode int          `json:"province_code"`
}

// Ward is the lowest-level division. Current-generation wards sit directly
// under a province and have DistrictCode zero; legacy wards carry the code of
// their district as well. ShortCodename, the codename with its division-type
// prefix removed, is populated for current-generation wards only.
type Ward struct {
	Name          string       `json:"name"`
	Code          int          `json:"code"`
	DivisionType  DivisionType `json:"division_type"`
	Codename      string       `json:"codename"`
	ShortCodename string       `json:"short_codename,omitempty"`
	ProvinceCode  int          `json:"province_code"`
	DistrictCode  int          `json:"district_code,omitempty"`
}

// CurrentWard is the result of resolving a legacy ward across the 2025
// reorganization: the current ward it belongs to today, plus the legacy unit
// the resolution started from.
type CurrentWard struct {
	Ward       Ward   `json:"ward"`
	LegacyCode int    `json:"legacy_code"`
	LegacyName string `json:"legacy_name"`
}

// CurrentProvince is the result of resolving a legacy province across the
// 2025 reorganization.
type CurrentProvince struct {
	Province   Province `json:"province"`
	LegacyCode int      `json:"legacy_code"`
	LegacyName string   `json:"legacy_name"`
}
