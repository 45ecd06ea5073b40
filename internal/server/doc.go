// Package server implements the HTTP API for the defect-detection demo.
//
// # Endpoints
//
//   - POST /api/detect: multipart image upload. The image is forwarded to the
//     remote detection API, low-confidence findings are dropped, the label
//     layout engine places the overlay labels, and the annotated image is
//     rendered server-side. The response carries the JPEG data URI, the
//     filtered detections in the 512-unit coordinate space, and the resolved
//     screen-space label placements.
//   - GET /api/demo-images: the bundled demo gallery as {name, image_base64}
//     pairs. A missing demo directory yields an empty list with an in-band
//     error message and HTTP 200.
//   - GET /api/health: service liveness plus reachability of the detection
//     API.
//   - POST /api/sessions, DELETE /api/sessions/{id}: explicit capture-session
//     lifecycle (upload form, camera modal, demo pick). Detect requests may
//     reference their session via the X-Session-ID header.
//
// Everything outside /api is served from the configured static directory.
// CORS is permissive so the demo page can be hosted from another origin.
//
// # Error Handling
//
// API failures are reported as {"success": false, "error": "..."} with an
// appropriate status code. Upstream detection errors are logged with detail
// and surfaced to the client as a generic failure.
package server
