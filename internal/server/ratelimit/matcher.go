package ratelimit

import "strings"

// unmetered marks an endpoint exempt from limiting.
var unmetered = EndpointConfig{}

// MatchEndpoint resolves a request to its endpoint budget. Exact
// path+method pairs win over prefix rules; a rule whose Path ends in
// "/" covers every id-bearing subpath, so "/api/deals/" with PUT
// matches "/api/deals/42". Health checks are never metered. Returns
// nil when only the default budget applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &unmetered
	}

	var prefix *EndpointConfig
	for i := range configs {
		ec := &configs[i]
		if ec.Method != method {
			continue
		}
		if ec.Path == path {
			return ec
		}
		if prefix == nil && strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			prefix = ec
		}
	}
	return prefix
}
