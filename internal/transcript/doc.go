// Package transcript maintains the ordered list of conversation bubbles
// shown by the widget.
//
// The transcript is append-only: entries are never edited or reordered
// after append. The single exception is the transient typing placeholder,
// which the dispatcher removes by handle once the backend exchange
// resolves. Removal of an already-removed handle is a safe no-op.
//
// A Listener can be attached to re-render a surface after every mutation;
// the snapshot it receives ends with the newest entry, which is the one a
// surface auto-scrolls to.
package transcript
