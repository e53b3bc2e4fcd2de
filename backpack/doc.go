// Package backpack uploads firmware to a WiFi capable backpack or receiver
// over its HTTP update endpoint.
//
// # Protocol
//
// The device serves a multipart form endpoint:
//
//	POST http://<addr>/update      (ESP targets)
//	POST http://<addr>/upload      (STM targets behind a backpack)
//	     X-FileSize: <bytes>
//	     data=<firmware file>
//
// and answers with a small JSON document:
//
//	{"status": "ok", "msg": "Update complete. Please wait for LED to resume blinking before disconnecting power."}
//	{"status": "mismatch", "msg": "Current target: ... Uploaded image: ..."}
//
// A mismatch reply means the device refuses an image built for another
// target until the upload is confirmed with:
//
//	POST http://<addr>/forceupdate
//	     action=confirm
//
// # Modes
//
//   - ModeUpload: a mismatch is reported as *MismatchError unless the
//     optional Confirmer approves it
//   - ModeForce: a mismatch is confirmed automatically
//   - ModeConfirm: a mismatch is confirmed automatically
//
// Addresses are tried in order; the first device that answers decides the
// outcome.
package backpack
