package akamai

import (
	"net/http"
	"strings"
)

// Akamai diagnostic headers
const (
	HeaderStaging     = "x-akamai-staging"
	HeaderSessionInfo = "x-akamai-session-info"
	HeaderCache       = "x-cache"
	HeaderCacheKey    = "x-cache-key"
	HeaderCheckCache  = "x-check-cacheable"
	HeaderRequestID   = "x-akamai-request-id"
	HeaderServer      = "server"
)

// Pragma values asking the Akamai edge to return diagnostic headers
const (
	PragmaCacheOn            = "akamai-x-cache-on"
	PragmaCacheRemoteOn      = "akamai-x-cache-remote-on"
	PragmaCheckCacheable     = "akamai-x-check-cacheable"
	PragmaGetCacheKey        = "akamai-x-get-cache-key"
	PragmaGetExtractedValues = "akamai-x-get-extracted-values"
	PragmaGetRequestID       = "akamai-x-get-request-id"
	PragmaGetTrueCacheKey    = "akamai-x-get-true-cache-key"
	PragmaSerialNo           = "akamai-x-serial-no"
)

// DebugPragmas is the full set of debug pragmas
var DebugPragmas = []string{
	PragmaCacheOn,
	PragmaCacheRemoteOn,
	PragmaCheckCacheable,
	PragmaGetCacheKey,
	PragmaGetExtractedValues,
	PragmaGetRequestID,
	PragmaGetTrueCacheKey,
	PragmaSerialNo,
}

// AddDebugPragma asks the edge to answer req with diagnostic headers.
// PragmaGetExtractedValues is what makes the edge send x-akamai-session-info.
// DebugPragmas is used when no pragma is given.
func AddDebugPragma(req *http.Request, pragmas ...string) {
	if len(pragmas) == 0 {
		pragmas = DebugPragmas
	}

	existing := req.Header.Get("Pragma")
	value := strings.Join(pragmas, ", ")
	if existing != "" {
		value = existing + ", " + value
	}
	req.Header.Set("Pragma", value)
}
