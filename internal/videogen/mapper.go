package videogen

import "videowizard/internal/domain"

// Backend-native parameter values. The generation backend supports
// exactly two aspect ratios and tops out at 1080p, so the richer
// user-facing options are lossy-mapped onto this set.
const (
	BackendLandscape = "16:9"
	BackendPortrait  = "9:16"
	Backend720p      = "720p"
	Backend1080p     = "1080p"
)

// MapAspectRatio maps a user-facing aspect ratio onto the backend's
// supported pair. Square and vertical formats are folded into their
// dominant orientation: square renders landscape, 4:5 renders
// portrait. Total over all inputs; unknown values render landscape.
func MapAspectRatio(ar domain.AspectRatio) string {
	switch ar {
	case domain.AspectPortrait916, domain.AspectVertical45:
		return BackendPortrait
	default:
		return BackendLandscape
	}
}

// MapResolution maps a user-facing resolution tier onto the backend's
// supported pair. 4K silently degrades to 1080p, the best available
// tier; callers presenting a 4K option should disclose this. Total
// over all inputs.
func MapResolution(res domain.Resolution) string {
	if res == domain.ResolutionHD720 {
		return Backend720p
	}
	return Backend1080p
}
