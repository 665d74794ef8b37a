package enums

import "strings"

type Feature string

const (
	FeatureGifts   Feature = "gifts"
	FeatureFlights Feature = "flights"
	FeatureNews    Feature = "news"
)

func ParseFeature(value string) (Feature, bool) {
	switch Feature(strings.ToLower(strings.TrimSpace(value))) {
	case FeatureGifts:
		return FeatureGifts, true
	case FeatureFlights:
		return FeatureFlights, true
	case FeatureNews:
		return FeatureNews, true
	default:
		return "", false
	}
}
