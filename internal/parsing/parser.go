package parsing

import (
	"time"

	"github.com/marc/gazelle-sync/internal/types"
)

// lowConfidenceThreshold: any detector result below this gets flagged for
// manual verification on top of its detector-specific warnings.
const lowConfidenceThreshold = 0.5

// Options pins the parse environment. Now anchors year inference (zero
// value means wall clock); Window bounds it.
type Options struct {
	Now    time.Time
	Window YearWindow
}

func (o *Options) normalize() {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Window == (YearWindow{}) {
		o.Window = DefaultYearWindow()
	}
}

// detectorFunc is one strategy in the chain: it either claims the block and
// returns a populated request, or returns nil so the next, looser strategy
// gets a try.
type detectorFunc func(block string, now time.Time, window YearWindow) *types.ExtractedRequest

// blockDetectors is the ordered strategy chain. Order is load-bearing:
// the looser detectors would misfire on input meant for a stricter one.
var blockDetectors = []detectorFunc{
	parseCompact,
	parseDash,
	parseNatural,
	parseFallback,
}

// Parse turns one raw text blob into an ordered list of extracted requests.
//
// A tab character anywhere routes the entire input through the tabular
// detector and skips the block pipeline. Otherwise the text is segmented
// into blocks and each block walks the detector chain; the first strategy
// to claim it wins. Data-quality problems never abort the pass: a block
// that defeats every detector simply yields nothing.
func Parse(text string, opts *Options) []types.ExtractedRequest {
	if opts == nil {
		opts = &Options{}
	}
	opts.normalize()

	if HasTabularData(text) {
		requests := parseTabular(text, opts.Now, opts.Window)
		finalize(requests)
		return requests
	}

	signature := DetectSignature(text)

	var requests []types.ExtractedRequest
	for _, block := range SplitBlocks(text) {
		for _, detect := range blockDetectors {
			result := detect(block, opts.Now, opts.Window)
			if result == nil {
				continue
			}
			if result.Requester == "" && signature != "" {
				result.Requester = NormalizeRequester(signature)
			}
			requests = append(requests, *result)
			break
		}
	}
	finalize(requests)
	return requests
}

// finalize applies the cross-detector cleanup: the low-confidence warning
// and the room-code-as-requester guard.
func finalize(requests []types.ExtractedRequest) {
	for i := range requests {
		requests[i].Requester = NormalizeRequester(requests[i].Requester)
		if requests[i].Confidence < lowConfidenceThreshold {
			requests[i].AddWarning(WarnLowConfidence)
		}
	}
}
