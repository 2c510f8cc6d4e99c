// Package cronexpr validates cron schedule tokens before they reach the
// store or the cron registry. It accepts both five-field (minute-level)
// and six-field (first field is seconds) expressions.
package cronexpr
