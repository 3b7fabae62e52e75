package application

import "expvar"

// Counters published on /debug/vars.
var (
	metricSignups      = expvar.NewInt("auth_signups")
	metricLogins       = expvar.NewInt("auth_logins")
	metricLoginsFailed = expvar.NewInt("auth_logins_failed")
	metricLogouts      = expvar.NewInt("auth_logouts")
	metricBeersCreated = expvar.NewInt("beers_created")
)
