package profiling

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

const pathPrefix = "/debug/pprof"

// named are the runtime profiles served by pprof.Handler.
var named = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// RegisterRoutes mounts the pprof endpoints under /debug/pprof/. mw guards
// every route; operators should not expose these publicly.
func RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	g := e.Group(pathPrefix, mw...)
	g.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	for _, name := range named {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
}
