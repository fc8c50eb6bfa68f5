// Package gemini adapts the Google Gemini generateContent API to the
// unified modelmux model. The vendor has no system role and no tool-call
// ids: system text is folded into the first user message, function calls
// get generated ids, and the newline-delimited JSON stream is normalized
// into unified events.
package gemini
