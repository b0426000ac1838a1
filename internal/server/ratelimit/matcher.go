package ratelimit

import "strings"

// MatchEndpoint returns the configuration that governs a request, or nil when the
// request is not limited. An exact path wins; otherwise the longest configured
// prefix ending in "/" applies, so "/export/" covers "/export/{target}".
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	return best
}
