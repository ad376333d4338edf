// Package store persists finlink's two flat data files under the user config
// directory: the ordered connection list (connections.json) and the singleton
// user profile (credentials.json). Reads degrade gracefully: a missing or
// corrupt file means "empty" or "absent", never a hard failure.
package store
