package pricing

import (
	"strings"

	"github.com/spriced-qa/pricing-audit/pkg/fields"
)

// Stocking segment codes.
const (
	SegmentStocked    = "A"
	SegmentNonStocked = "D"
)

// ExpectedSegment computes the stocking segment for a part: a part with
// neither a certification level nor any annual volume is non-stocked ("D"),
// anything else is stocked ("A"). A volume of "0" counts as no volume.
func ExpectedSegment(certificationLevel, annualVolume *string) string {
	certNull := strings.TrimSpace(fields.String(certificationLevel)) == ""
	volume := strings.TrimSpace(fields.String(annualVolume))
	volumeNull := volume == "" || volume == "0"
	if certNull && volumeNull {
		return SegmentNonStocked
	}
	return SegmentStocked
}
