// Package notify pushes scan progress to browsers over WebSockets.
//
// The scanner publishes ReceiveScanProgress events through the Publisher
// interface; the Hub fans them out to every connected client. Delivery is
// best-effort: slow or broken clients are dropped, never waited on.
package notify
