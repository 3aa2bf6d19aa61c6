// Package client is the entry point for sending requests.
//
// A Client owns a backend.Registry with the built-in transports:
//   - nethttp: net/http
//   - resty: go-resty/resty
//   - retryablehttp: hashicorp/go-retryablehttp
//
// Every exchange passes a circuit breaker and a rate limiter before the
// selected backend runs, and is recorded in Prometheus metrics and the zap
// logger afterwards. Responses come back normalized as response.Response.
//
// Example Usage:
//
//	c, err := client.New(config.LoadOrDefault(), logging.NewDefault(), nil)
//	resp, err := c.Execute(ctx, request.Get("https://example.com/data.json"))
//	fmt.Println(resp.StatusCode(), resp.Content())
//
//	result, err := c.Download(ctx, request.Get(url), "/tmp/forest.csv")
package client
