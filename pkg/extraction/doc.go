// Package extraction turns page images of borehole log sheets into raw
// fragments by calling a vision oracle.
//
// The Extractor interface hides the oracle behind a single per-page call so
// the pipeline can swap the OpenAI-backed implementation for a mock in tests.
// Oracle responses are validated against a JSON schema before they become
// fragments; a payload that fails validation is an extraction error, never a
// silently empty page.
package extraction
