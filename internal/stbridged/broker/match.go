package broker

import "strings"

// topicMatches reports whether a concrete topic matches a subscription
// filter, honoring the "+" single-level and "#" multi-level wildcards.
func topicMatches(filter, topic string) bool {
	if filter == topic {
		return true
	}
	filterParts := strings.Split(filter, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range filterParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}
	return len(filterParts) == len(topicParts)
}
