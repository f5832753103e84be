// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST and websocket transport of the document
// store.
//
// Routes:
//
//	GET    /api/version
//	GET    /api/health
//	POST   /api/auth/anonymous
//	POST   /api/auth/token
//	GET    /api/users/{uid}/{collection}
//	POST   /api/users/{uid}/{collection}/batch
//	POST   /api/users/{uid}/{collection}/delete
//	GET    /api/users/{uid}/{collection}/subscribe   (websocket)
//	GET    /api/users/{uid}/{collection}/{docID}
//	PUT    /api/users/{uid}/{collection}/{docID}
//	DELETE /api/users/{uid}/{collection}/{docID}
//
// Everything under /api/users requires a bearer token whose subject is
// {uid}. Tracing, access logging, compression and body integrity checks
// are handled here before requests reach the service layer.
package http
