// version/version.go
package version

import (
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/onlyoffice/signupgate/httputil"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/onlyoffice/signupgate/version.Version=1.0.0 \
//	                   -X github.com/onlyoffice/signupgate/version.Commit=abc123"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the build description served at /version and logged at startup.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build info.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// Mount attaches GET /version.
func Mount(r chi.Router) {
	info := Get()
	r.Method(http.MethodGet, "/version", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, info)
	}))
}

// String returns "dev" or "1.2.3 (abc123, built 2024-01-15T10:30:00Z)".
func String() string {
	if Version == "dev" {
		return "dev"
	}
	return Version + " (" + Commit + ", built " + BuildTime + ")"
}
