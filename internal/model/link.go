// Package model defines the domain types shared across the application.
package model

import (
	"fmt"
	"strconv"
)

// Platform identifies which short-video platform a link belongs to.
type Platform string

const (
	PlatformTikTok Platform = "tiktok"
	PlatformDouyin Platform = "douyin"
)

// IDKind enumerates the supported URL shapes.
type IDKind int

const (
	// KindLong is the canonical form: tiktok.com/@user/video/<id>.
	KindLong IDKind = iota
	// KindShort is a redirect slug form: vm.tiktok.com/<slug>.
	KindShort
	// KindMedium is the mobile form: m.tiktok.com/v/<id>.
	KindMedium
	// KindFYP is the for-you-page deep link carrying item_id=<id>.
	KindFYP
	// KindDouyinLong is douyin.com/video/<id>.
	KindDouyinLong
	// KindDouyinShort is a redirect slug form: v.douyin.com/<slug>.
	KindDouyinShort
)

// String returns a human-readable name for metrics and logs.
func (k IDKind) String() string {
	switch k {
	case KindLong:
		return "long"
	case KindShort:
		return "short"
	case KindMedium:
		return "medium"
	case KindFYP:
		return "fyp"
	case KindDouyinLong:
		return "douyin_long"
	case KindDouyinShort:
		return "douyin_short"
	default:
		return "unknown"
	}
}

// IsShort reports whether this shape carries a redirect slug instead of a
// numeric video id and must be resolved via the redirect endpoint.
func (k IDKind) IsShort() bool {
	return k == KindShort || k == KindDouyinShort
}

// LinkDescriptor is the parsed, canonical representation of a detected link
// before any network resolution. Immutable; discarded after resolution.
type LinkDescriptor struct {
	Platform Platform
	Kind     IDKind
	// RawID is the captured token: a numeric video id string for every kind
	// except the short forms, which carry a platform-issued slug.
	RawID string
	// CanonicalURL is always fully scheme-qualified, regardless of what the
	// user typed.
	CanonicalURL string
}

// NumericID parses RawID as the canonical numeric video identifier.
// It fails for short forms, which must go through redirect resolution first.
func (d *LinkDescriptor) NumericID() (uint64, error) {
	if d.Kind.IsShort() {
		return 0, fmt.Errorf("kind %s carries a slug, not a numeric id", d.Kind)
	}
	id, err := strconv.ParseUint(d.RawID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse video id %q: %w", d.RawID, err)
	}
	return id, nil
}
