/*
Package resilience provides the circuit breaker that guards outbound HTTP
exchanges.

# States

- Closed: exchanges pass through and failures are counted
- Open: exchanges fail immediately with ErrCircuitOpen
- Half-Open: a limited number of trial exchanges decide whether to close

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[MaxRequests successes]-> Closed
	                                               |
	                                           [failure]
	                                               v
	                                             Open

# Usage

	breaker := resilience.New("forest", resilience.Settings{
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	body, err := resilience.Execute(breaker, func() ([]byte, error) {
		return fetch(ctx)
	})

When the outcome is not a plain error, for example a response whose status
is 5xx, use the two-step form:

	done, err := breaker.Allow()
	if err != nil {
		return err
	}
	resp, err := send()
	done(err == nil && resp.StatusCode() < 500)
*/
package resilience
