// Package match recognizes short-video platform links inside free-form text.
// It is pure: no I/O, no errors. Text with no recognizable link yields nil.
package match

import (
	"regexp"

	"github.com/tiktoker/tiktoker/internal/model"
)

// One pattern per supported URL shape. Each captures the scheme (group 1) so
// the canonical URL can be synthesized when the user omitted it. Digit-count
// bounds keep unrelated numeric strings from matching.
var (
	longPattern   = regexp.MustCompile(`(?:(https?)://)?(?:www\.)?tiktok\.com/@[^/\s]{1,24}/video/(\d{15,30})`)
	shortPattern  = regexp.MustCompile(`(?:(https?)://)?(\w{2})\.tiktok\.com/(\w{5,15})`)
	mediumPattern = regexp.MustCompile(`(?:(https?)://)?m\.tiktok\.com/v/(\d{15,30})`)
	fypPattern    = regexp.MustCompile(`(?:(https?)://)?(?:www\.)?tiktok\.com/\S*item_id=(\d{5,30})`)

	douyinLongPattern  = regexp.MustCompile(`(?:(https?)://)?(?:www\.)?douyin\.com/video/(\d{15,30})`)
	douyinShortPattern = regexp.MustCompile(`(?:(https?)://)?v\.douyin\.com/(\w{5,15})`)
)

// Find scans content for the first recognizable link and returns its
// descriptor, or nil when nothing matches. Precedence is fixed and
// independent of position in the text: long, short, medium, for-you-page,
// then the Douyin shapes.
func Find(content string) *model.LinkDescriptor {
	if m := longPattern.FindStringSubmatch(content); m != nil {
		return describe(model.PlatformTikTok, model.KindLong, m[2], m[1], m[0])
	}
	if d := findShort(content); d != nil {
		return d
	}
	if m := mediumPattern.FindStringSubmatch(content); m != nil {
		return describe(model.PlatformTikTok, model.KindMedium, m[2], m[1], m[0])
	}
	if m := fypPattern.FindStringSubmatch(content); m != nil {
		return describe(model.PlatformTikTok, model.KindFYP, m[2], m[1], m[0])
	}
	if m := douyinLongPattern.FindStringSubmatch(content); m != nil {
		return describe(model.PlatformDouyin, model.KindDouyinLong, m[2], m[1], m[0])
	}
	if m := douyinShortPattern.FindStringSubmatch(content); m != nil {
		return describe(model.PlatformDouyin, model.KindDouyinShort, m[2], m[1], m[0])
	}
	return nil
}

// findShort applies the short-slug pattern while excluding the www
// subdomain, which belongs to the long-form and for-you-page shapes.
func findShort(content string) *model.LinkDescriptor {
	for _, m := range shortPattern.FindAllStringSubmatch(content, -1) {
		if m[2] == "ww" {
			continue
		}
		return describe(model.PlatformTikTok, model.KindShort, m[3], m[1], m[0])
	}
	return nil
}

func describe(platform model.Platform, kind model.IDKind, rawID, scheme, span string) *model.LinkDescriptor {
	canonical := span
	if scheme == "" {
		canonical = "https://" + span
	}
	return &model.LinkDescriptor{
		Platform:     platform,
		Kind:         kind,
		RawID:        rawID,
		CanonicalURL: canonical,
	}
}
