// Package openapi derives form definitions from OpenAPI 3 documents. It reads
// an operation's multipart/form-data request body and maps scalar properties
// to fields and binary properties to attachment slots. Wire naming for slots
// is never inferred from the document; callers declare it per property.
package openapi
