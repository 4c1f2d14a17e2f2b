// Package logger provides structured logging for combkit on top of zerolog.
//
// The retry engine logs a warning each time a call is throttled harder or
// granted a longer timeout; embedding applications can inject their own
// Logger or silence the package entirely with NewNop.
//
//	log := logger.NewDefault("my-sync-job")
//	caller, _ := apicaller.NewGet(url, apicaller.WithLogger(log))
package logger
