// Package submit assembles a validated draft and its image attachments into
// one multipart request, performs a single network call, and classifies the
// outcome. Every failure kind is an ordinary return value: callers cannot
// forget to handle Unauthorized, ValidationRejected, or TransportFailure.
// The pipeline never retries; resubmission is an explicit user action.
package submit
