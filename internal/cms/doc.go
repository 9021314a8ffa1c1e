// Package cms provides an HTTP client for the blog CMS API.
//
// # Overview
//
// The admin console reads and mutates articles, photo albums, photos, the
// author profile, and site statistics through this client. Every method takes
// a context and returns either the decoded entity or a wrapped error.
//
// # Endpoints
//
//	GET    /api/articles?page=&pageSize=     Page[Article]
//	POST   /api/articles                      Article
//	PATCH  /api/articles/{id}                 Article
//	DELETE /api/articles/{id}
//	GET    /api/albums?page=&pageSize=       Page[Album]
//	POST   /api/albums                        Album
//	PATCH  /api/albums/{id}                   Album
//	DELETE /api/albums/{id}
//	GET    /api/albums/{id}/photos            Page[Photo]
//	POST   /api/albums/{id}/photos            Photo
//	PATCH  /api/photos/{id}                   Photo
//	DELETE /api/photos/{id}
//	GET    /api/stats                         Stats
//	GET    /api/profile                       Profile
//	PATCH  /api/profile                       Profile
//
// # Requests
//
// All requests send Accept: application/json, a quill User-Agent, a fresh
// X-Request-ID, and Authorization: Bearer when a token is configured.
// Request bodies are JSON; input structs use pointer fields so PATCH requests
// carry only the fields being changed.
//
// # Errors
//
//   - Construction: invalid api_url
//   - Transport: "execute request: ..." (connection refused, timeout)
//   - HTTP: *APIError with the status code, the server's message, and the
//     request ID, inspectable with errors.As
//   - Decoding: "decode response: ..."
//
// Entities carry Loading and Deleting flags that are never serialized; the
// admin screens set them on optimistic rows.
package cms
