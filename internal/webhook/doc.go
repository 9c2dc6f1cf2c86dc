// Package webhook speaks the chatbot webhook wire protocol.
//
// A Client POSTs JSON bodies of the form {"message": ..., "sender_id": ...}
// to {base}/chatbot/webhook/{key}/ and extracts the reply from the
// response, trying "reply" then "message" and falling back to a fixed
// string when neither is present. Network failures, non-2xx statuses, and
// malformed bodies all collapse into a single error class: callers only
// need to know the exchange failed.
package webhook
