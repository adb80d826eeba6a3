package ollama

import (
	"net/http"
	"strings"
)

// CloudSuffix marks a model name as reachable only through the
// authenticated remote endpoint.
const CloudSuffix = "-cloud"

// Router decides which base URL and auth header a model's requests use.
// Routing is a pure function of the model name suffix and whether a
// credential is configured.
type Router struct {
	localBase  string
	cloudBase  string
	apiKey     string
	authScheme string
}

// NewRouter creates a Router. apiKey may be empty, in which case cloud
// models are treated as unroutable.
func NewRouter(localBase, cloudBase, apiKey, authScheme string) *Router {
	if authScheme == "" {
		authScheme = "Bearer"
	}
	return &Router{
		localBase:  strings.TrimRight(localBase, "/"),
		cloudBase:  strings.TrimRight(cloudBase, "/"),
		apiKey:     apiKey,
		authScheme: authScheme,
	}
}

// IsCloudModel reports whether the model name carries the cloud suffix.
func IsCloudModel(model string) bool {
	return strings.HasSuffix(model, CloudSuffix)
}

// CanRoute reports whether requests for the model can be sent anywhere.
// A cloud model without a configured credential is unroutable and must
// be treated as unavailable by callers.
func (r *Router) CanRoute(model string) bool {
	return !IsCloudModel(model) || r.apiKey != ""
}

// BaseURL returns the base URL serving the given model.
func (r *Router) BaseURL(model string) string {
	if IsCloudModel(model) && r.apiKey != "" {
		return r.cloudBase
	}
	return r.localBase
}

// LocalBaseURL returns the local backend base URL. Inventory listing
// always targets the local endpoint regardless of credential state.
func (r *Router) LocalBaseURL() string {
	return r.localBase
}

// AuthHeader returns the Authorization header for the given model, or
// nil when the request goes to the local endpoint.
func (r *Router) AuthHeader(model string) http.Header {
	if !IsCloudModel(model) || r.apiKey == "" {
		return nil
	}
	h := http.Header{}
	h.Set("Authorization", r.authScheme+" "+r.apiKey)
	return h
}
