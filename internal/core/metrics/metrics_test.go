package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(Diagnostics.WithLabelValues(OutcomeParsed))
	Diagnostics.WithLabelValues(OutcomeParsed).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Diagnostics.WithLabelValues(OutcomeParsed)))
}

func TestHandlerExposesCollectors(t *testing.T) {
	QuotesCreated.Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), "quote_desk_quotes_created_total")
}
