// Package generator turns retrieved documents into a natural-language
// answer. The OpenAI provider sends the question with numbered reference
// blocks to the chat completions API; the static provider echoes the top
// document so offline runs and tests need no API key.
package generator
