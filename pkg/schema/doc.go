// Package schema declares form field definitions and evaluates drafts against
// them. A Schema is an ordered, immutable collection of FieldSpecs; duplicate
// keys are rejected when the schema is built, never at validate time.
// Validate is pure: identical inputs always produce identical results, and no
// rule may consult another field's value.
package schema
