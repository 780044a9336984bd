package theme

import (
	"fmt"

	"golang.org/x/text/language"
)

// Labels holds the user-visible strings of a generated document.
type Labels struct {
	Lang        string
	TOC         string
	Copy        string
	Copied      string
	GeneratedBy string
	images      string
}

// ImageSummary returns the header line announcing n embedded images.
func (l Labels) ImageSummary(n int) string {
	return fmt.Sprintf(l.images, n)
}

var (
	english = Labels{
		Lang:        "en",
		TOC:         "Contents",
		Copy:        "Copy",
		Copied:      "Copied",
		GeneratedBy: "Generated by Markdown to HTML Converter",
		images:      "Contains %d images",
	}
	chinese = Labels{
		Lang:        "zh-CN",
		TOC:         "目录",
		Copy:        "复制",
		Copied:      "已复制",
		GeneratedBy: "由 Markdown to HTML Converter 生成",
		images:      "包含 %d 张图片",
	}
)

// First tag is the fallback.
var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.SimplifiedChinese,
})

// LabelsFor returns the labels best matching locale, a BCP 47 tag or an
// Accept-Language style list. Empty or unknown locales get English.
func LabelsFor(locale string) Labels {
	tag, _ := language.MatchStrings(localeMatcher, locale)
	if base, _ := tag.Base(); base.String() == "zh" {
		return chinese
	}
	return english
}
