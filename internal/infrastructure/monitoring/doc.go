/*
Package monitoring provides Prometheus metrics for outbound exchanges.

# Metrics

  - forest_responses_total{backend,class}
  - forest_response_duration_seconds{backend}
  - forest_response_body_bytes{backend}
  - forest_transport_errors_total{backend}
  - forest_breaker_state{name}

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	timer := monitoring.NewTimer(metrics, "nethttp")
	// ... perform exchange ...
	timer.Stop("2xx", resp.ContentLength())

	// dump everything collected so far
	monitoring.WriteText(os.Stdout, reg)
*/
package monitoring
