// Package openai maps the native agent schema to and from OpenAI chat
// completion shapes.
//
// Every conversion in this package is total: mapping gaps resolve to
// documented fallbacks instead of errors. Unrecognized native roles
// project to "user", the native-only "error" finish reason projects to a
// null finish_reason, and absent usage stays absent. Converting
// multi-part content to the native flat string is lossy: text parts are
// newline-joined in their original order and non-text parts are dropped.
//
// [ChatMessage] implements the a3s MessageParam interface, so OpenAI
// shaped messages pass straight into Client.SendMessage and
// Client.StreamMessage alongside native ones. [Projector] renders native
// responses back out as chat.completion and chat.completion.chunk
// envelopes.
package openai
