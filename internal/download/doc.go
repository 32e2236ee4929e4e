// SPDX-License-Identifier: MPL-2.0

// Package download is the standalone host's download manager. Downloads are
// enqueued by StartDownload and fetched in the background; callers that need
// the result wait with Wait or register a completion handler.
package download
