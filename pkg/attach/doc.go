// Package attach tracks the image attachments of a single form instance.
// Each named slot caps how many images it accepts; overflow on Add is
// reported back to the caller rather than silently dropped, mirroring the
// "Only N images can be uploaded" behaviour the registration screens expose.
package attach
