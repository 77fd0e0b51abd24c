// Package pipeline runs a capture session from launch to teardown.
//
// An Orchestrator walks through a fixed sequence of states:
//
//	NotStarted -> Launching -> AwaitingWindow -> Navigating(i) -> Capturing(i) -> ... -> Done
//
// with Failed reachable when the run cannot continue (window discovery
// timed out, launch failed, or the context was cancelled). A section whose
// navigation or capture fails is recorded as failed and the run moves on to
// the next section. Whatever the outcome, a process started by the run is
// stopped before Run returns.
package pipeline
