// Package surface abstracts the rendering backend the widget draws on.
//
// In the hosted product the widget builds a DOM subtree on whatever page
// embeds it; here the same contract is expressed as the Surface interface
// so the widget can run against a terminal, a test double, or any other
// host-provided backend. The View is fully interpolated from configuration
// at mount time and never changes afterwards, and the compiled Theme plays
// the role of the injected stylesheet: one per palette, cached, never
// duplicated.
//
// Surfaces must tolerate mutation after Unmount: an in-flight network
// completion may try to update a widget whose visuals were already torn
// down, and that must be a silent no-op rather than a failure that reaches
// the host.
package surface
