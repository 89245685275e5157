// Package errs defines the error shapes shared by the tools.
//
// Two families live here:
//   - HTTPError, the JSON envelope the test-db server answers with.
//   - StatusError, returned by the outbound clients when an upstream
//     service answers with anything but 200 OK.
package errs
