// Package daemon wires sinkswitchd together. It runs the switcher against
// the sound server, feeds it role changes from the config watcher and
// announces switches with a desktop notification and a chime.
package daemon
