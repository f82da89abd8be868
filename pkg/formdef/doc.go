// Package formdef loads declarative form definitions and compiles them into
// runnable controller configurations. A definition names a form's fields,
// rules, attachment slots, and endpoint binding; the embedded set covers the
// foundation's registration forms, one canonical definition per screen where
// the mobile app carried several divergent copies.
package formdef
