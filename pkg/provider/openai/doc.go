// Package openai adapts the OpenAI Chat Completions API to the unified
// modelmux model. Reasoning-class models drop sampling parameters in favor
// of a fixed reasoning effort, and the undifferentiated SSE chunk stream is
// normalized into unified events with per-index tool-call buffering.
package openai
