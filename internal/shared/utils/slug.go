package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

	// letters that NFD does not decompose into base + mark
	foldExtra = strings.NewReplacer(
		"đ", "d", "Đ", "D",
		"ø", "o", "Ø", "O",
		"ł", "l", "Ł", "L",
		"ß", "ss",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
	)
)

// GenerateSlug turns a title into a URL slug.
// "Nguyễn Nhật Ánh: Tôi thấy hoa vàng" → "nguyen-nhat-anh-toi-thay-hoa-vang"
// "Custom_Slug!!" → "custom-slug"
func GenerateSlug(input string) string {
	// Step 1: Fold diacritics ("Ánh" → "Anh")
	ascii := RemoveDiacritics(input)

	// Step 2: Lowercase
	lower := strings.ToLower(ascii)

	// Step 3: Every run of non [a-z0-9] becomes one hyphen
	hyphenated := nonSlugChars.ReplaceAllString(lower, "-")

	// Step 4: Trim leading/trailing hyphens
	return strings.Trim(hyphenated, "-")
}

// RemoveDiacritics bỏ dấu: decompose (NFD), drop combining marks, recompose (NFC)
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, foldExtra.Replace(input))
	if err != nil {
		return input
	}
	return out
}
