package gatewayproxy

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/valyala/fasthttp"

	"github.com/brightpath/platform/pkg/httpkit"
	"github.com/brightpath/platform/pkg/platformmetrics"
)

// ProxyTimeout is kept below a typical edge load balancer's client timeout (spec §4.5 "e.g.,
// 55s under 60s").
const ProxyTimeout = 55 * time.Second

// NewProxyHandler returns the fiber.Handler implementing spec §4.5 pipeline step 4: resolve the
// route, rewrite the path, forward without buffering, and normalize upstream failures.
func NewProxyHandler(table *RouteTable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, ok := table.Resolve(c.Path())
		if !ok {
			return httpkit.ServiceUnavailable(c, "no route for path")
		}

		if cid := httpkit.CorrelationID(c); cid != "" {
			c.Request().Header.Set(httpkit.HeaderCorrelationID, cid)
		}

		destination := route.Target + route.RewritePath(c.Path())

		err := proxy.DoTimeout(c, destination, ProxyTimeout)
		if err != nil {
			return normalizeUpstreamError(c, route.Target, err)
		}

		status := c.Response().StatusCode()
		if status >= 500 {
			platformmetrics.ProxyUpstreamErrorsTotal.WithLabelValues(route.Target, "5xx").Inc()
			return httpkit.ServiceUnavailable(c, "upstream error")
		}

		return nil
	}
}

func normalizeUpstreamError(c *fiber.Ctx, target string, err error) error {
	if errors.Is(err, fasthttp.ErrTimeout) {
		platformmetrics.ProxyUpstreamErrorsTotal.WithLabelValues(target, "timeout").Inc()
		return httpkit.RequestTimeout(c, "upstream request timed out")
	}

	platformmetrics.ProxyUpstreamErrorsTotal.WithLabelValues(target, "connect").Inc()
	return httpkit.ServiceUnavailable(c, "upstream unreachable")
}
