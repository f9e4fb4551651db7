// Package ppp collects PPPoE subscribers.
//
// The circuit identity is the PPP secret name, which is stable across
// reconnects and address churn. Rates come from the secret's profile, either
// its rate-limit field or, when the router is configured for it, the comment
// field that some operators use as a bandwidth override.
package ppp
