// Package api exposes the vocabulary trainer over HTTP: account handling,
// dictionary and word CRUD, the training session endpoints and the
// statistics views. Handlers decode and validate requests, call the
// services and stores, and translate their errors to status codes.
package api
