package engine

import (
	"errors"
	"fmt"
)

// ErrManifestParse is returned when the seek-previews URL does not match
// Twitch's storyboard layout, which makes the CDN path underivable.
var ErrManifestParse = errors.New("unrecognized seek previews url")

// ErrNoPlayableVariants is returned when every quality tier probe failed
// or timed out. The portal shows a dedicated "maybe geo-restricted or
// expired" message for it.
var ErrNoPlayableVariants = errors.New("no playable quality variants")

var ErrVariantNotFound = errors.New("variant proxy target not found or expired")

// UpstreamError reports a non-success HTTP status from Twitch (GQL or
// CDN). It is surfaced with the upstream status embedded and never
// retried.
type UpstreamError struct {
	Status int
	Op     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream HTTP %d", e.Op, e.Status)
}

func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
