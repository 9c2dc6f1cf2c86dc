// Package widget implements the embeddable chat widget runtime: the init
// guard, the open/closed state machine, and the message dispatcher.
//
// # Lifecycle
//
// A host process calls Init (or AutoInit for env-driven setup) once; the
// widget validates its configuration, compiles a theme, mounts the
// provided surface, and starts closed. Repeat Init calls are silent
// no-ops. Validation failure constructs nothing and is reported only
// through the log and the returned error.
//
// # Send cycle
//
// Send runs the core protocol: trim and reject empty input, take the
// single in-flight slot, append the user bubble and a typing placeholder,
// exchange with the backend webhook, then replace the placeholder with
// the reply or a fixed error bubble. The input control is locked for
// exactly the duration of the cycle and focus returns to it on both the
// success and the error path.
//
// # Failure containment
//
// Everything that can go wrong during a send becomes a transcript bubble
// and a log entry. The widget never panics into the host, and a surface
// torn down mid-flight absorbs the late completion silently.
package widget
