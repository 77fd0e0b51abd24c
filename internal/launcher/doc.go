// Package launcher starts the showcase application as a child process and
// tears it down again.
//
// The child runs in its own process group so that stopping it also stops
// anything it spawned (cargo, for example, runs the built binary as a
// grandchild). Stop sends a termination signal to the group, waits a grace
// period and then kills the group. It runs at most once per process.
package launcher
