// Package mcp implements the Model Context Protocol (MCP) server surface.
//
// The server exposes three tools over JSON-RPC 2.0 on stdio:
//   - search_knowledge: hybrid search over the admissions corpus, returning
//     ranked documents with their vector, text, and combined scores
//   - ask: answer a question grounded in the corpus
//   - get_status: corpus size, embedding coverage, cache occupancy, and
//     provider configuration
//
// # Basic Usage
//
// The server is started by the campusqa binary and listens on stdin for
// protocol messages:
//
//	campusqa
//
// # Tool: search_knowledge
//
//	Request:
//	{
//	  "name": "search_knowledge",
//	  "arguments": {"query": "admission deadlines", "limit": 5}
//	}
//
// # Tool: ask
//
//	Request:
//	{
//	  "name": "ask",
//	  "arguments": {"message": "When is the application deadline?"}
//	}
//
// Repeated identical questions are served from the response cache; repeated
// identical searches from the query cache.
package mcp
