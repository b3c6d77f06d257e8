package vnprovinces

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// foldName reduces a division name to its search key: diacritics stripped to
// plain ASCII (đ becomes d), lowercased, runs of whitespace collapsed to a
// single space. Two names that differ only in tone marks fold to the same
// key, so "Phú Mỹ", "phu my" and "PHU MY" all match each other.
func foldName(s string) string {
	folded := strings.ToLower(unidecode.Unidecode(s))
	return strings.Join(strings.Fields(folded), " ")
}

// Codename converts a division name to its codename, the lowercase
// underscore-separated ASCII slug used as a stable identifier:
// "Thành phố Hồ Chí Minh" -> "thanh_pho_ho_chi_minh",
// "Tỉnh Bà Rịa - Vũng Tàu" -> "tinh_ba_ria_vung_tau".
func Codename(name string) string {
	s := strings.ToLower(unidecode.Unidecode(name))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, "'", "")
	return strings.Join(strings.Fields(s), "_")
}

// truncateLeading removes the first matching prefix from a slug. Stripping is
// skipped when the remainder would be empty or start with a digit, so
// numbered units like "phuong_1" keep their full slug.
func truncateLeading(slug string, prefixes []string) string {
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(slug, p)
		if !ok || rest == "" || (rest[0] >= '0' && rest[0] <= '9') {
			continue
		}
		return rest
	}
	return slug
}
