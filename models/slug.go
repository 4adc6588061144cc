package models

import (
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// Slugify lowercases the name and collapses anything that is not a letter or
// digit into single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// UniqueSlug derives a slug from name and de-duplicates it against the given
// model's table with a numeric suffix: "rex", "rex-1", "rex-2", ...
func UniqueSlug(db *gorm.DB, model interface{}, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "item"
	}
	slug := base
	for counter := 1; ; counter++ {
		var count int64
		if err := db.Model(model).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
