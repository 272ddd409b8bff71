package validate

import "regexp"

var (
	mobileRe = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)
	iosRe    = regexp.MustCompile(`iPad|iPhone|iPod`)
)

// IsMobile reports whether the user agent looks like a mobile browser.
// Advisory only: it may tune picker behavior but must never change upload
// or dedup semantics.
func IsMobile(userAgent string) bool {
	return mobileRe.MatchString(userAgent)
}

// IsIOS reports whether the user agent looks like an iOS device.
// Advisory only, same caveat as IsMobile.
func IsIOS(userAgent string) bool {
	return iosRe.MatchString(userAgent)
}
