// Package contradiction finds claims within one submission that cannot all be true.
package contradiction

import (
	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
)

// DefaultMaxGroupSize bounds the quadratic pairwise search inside a topic group
const DefaultMaxGroupSize = 64

// Group buckets claims by topic key (falling back to the event signature),
// preserving first-seen order of both groups and items. Items past maxSize
// are dropped from their group and logged.
func Group(claims []model.Claim, maxSize int, logger logging.Logger) []model.TopicGroup {
	if maxSize <= 0 {
		maxSize = DefaultMaxGroupSize
	}
	logger = logging.OrDefault(logger)

	index := make(map[string]int)
	overflow := make(map[string]int)
	var groups []model.TopicGroup

	for _, claim := range claims {
		key := claim.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.TopicGroup{TopicKey: key})
		}
		if len(groups[i].Items) >= maxSize {
			overflow[key]++
			continue
		}
		groups[i].Items = append(groups[i].Items, claim)
	}

	for _, g := range groups {
		if n := overflow[g.TopicKey]; n > 0 {
			logger.Warn("topic group truncated",
				logging.String("topic", g.TopicKey),
				logging.Int("kept", len(g.Items)),
				logging.Int("dropped", n),
			)
		}
	}

	return groups
}
