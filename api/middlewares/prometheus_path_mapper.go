package middlewares

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// PrometheusPathMapper404Sink labels requests by route. The route pattern keeps addresses out
// of the labels, unmatched paths share the empty label.
func PrometheusPathMapper404Sink(c echo.Context) string {
	if c.Response().Status == http.StatusNotFound {
		return ""
	}
	return c.Path()
}

// PrometheusPathMapperVerbose adds the query parameter names to the route, sorted.
func PrometheusPathMapperVerbose(c echo.Context) string {
	path := PrometheusPathMapper404Sink(c)
	if path == "" {
		return ""
	}

	keys := make([]string, 0, len(c.QueryParams()))
	for k := range c.QueryParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sep := "?"
	for _, k := range keys {
		path += sep + k
		sep = "&"
	}
	return path
}
