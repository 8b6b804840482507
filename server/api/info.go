package api

import (
	"net/http"

	"github.com/dekarrin/mata/internal/version"
	"github.com/dekarrin/mata/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API
// and server. It does not require authentication.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Core = version.Current

	return result.OK(resp, "got API info")
}
