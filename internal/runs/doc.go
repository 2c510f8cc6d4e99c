// Package runs is a narrow repository around the run table: open a run
// row at dispatch, close it exactly once with a terminal result, and
// answer the read paths the HTTP API and maintenance sweep need.
package runs
