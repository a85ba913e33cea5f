// Package controller runs scheduled rule evaluations against a sensor
// snapshot.
//
// On each tick of its cron schedule the controller reads the current facts
// from a SensorSource, evaluates them through the engine, and records the
// resulting decision in the history store. A second schedule prunes
// decisions older than the configured retention window.
package controller
