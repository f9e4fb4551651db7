// Package audit keeps a database trail of cycle outcomes.
//
// The table answers the questions that come up after the fact: when did a
// subscriber disappear, how often does a source fail, did the mode guard
// fire. Auditing is optional; without a configured database the daemon
// simply runs without the hook.
package audit
