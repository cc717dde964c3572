// Package state provides a small finite-state machine over any comparable
// state type and a middleware that loads a per-chat record before a handler
// runs and saves it afterwards. It knows nothing about the states a bot uses.
package state
