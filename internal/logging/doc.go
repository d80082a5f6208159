// Package logging provides the levelled logger shared by the web server and
// the batch tools.
//
// Levels, from most to least verbose:
//   - DEBUG: per-file and per-request detail
//   - INFO: operational messages (the default)
//   - WARN: recoverable problems such as a skipped file
//   - ERROR: failed operations
//   - FATAL: logged and the process exits
//
// The initial level comes from DEBUG (any truthy value selects debug) or
// LOG_LEVEL. Command line tools may override it with SetLevel.
package logging
