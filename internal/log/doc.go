// Package log contains the Logger used by the entire application. The Logger is a wrapper around zap.SugaredLogger.
// There should be a single instance of the Logger in the application, created by the CLI root command, and it should
// be injected into any component that needs to log.
package log
