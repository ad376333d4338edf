package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finlink/pkg/logging"
)

// DateFormat is the timestamp layout recorded on connection records.
const DateFormat = "2006-01-02 15:04:05"

// Connection is one persisted institution connection. The access credential
// itself lives in the secret store, keyed by ID.
type Connection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DateAdded string `json:"date_added"`
}

// DuplicateNameError indicates a connection with the requested friendly name
// already exists.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("connection with name %q already exists", e.Name)
}

// Connections persists the ordered connection list as a JSON file.
// Names are unique across the list.
type Connections struct {
	path string
}

// NewConnections creates a connection store backed by the given file path.
func NewConnections(path string) *Connections {
	return &Connections{path: path}
}

// Load reads all stored connections. A missing or corrupt file yields an
// empty list rather than an error.
func (c *Connections) Load() []Connection {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var connections []Connection
	if err := json.Unmarshal(data, &connections); err != nil {
		logging.Warn("Store", "connections file %s is corrupt, treating as empty", c.path)
		return nil
	}
	return connections
}

// Save writes the full connection list, creating the parent directory if
// needed. Files are written with owner-only permissions.
func (c *Connections) Save(connections []Connection) error {
	if connections == nil {
		connections = []Connection{}
	}

	data, err := json.MarshalIndent(connections, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode connections: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write connections file: %w", err)
	}
	return nil
}

// FindByName returns the connection with the given friendly name, if any.
func (c *Connections) FindByName(name string) (Connection, bool) {
	for _, conn := range c.Load() {
		if conn.Name == name {
			return conn, true
		}
	}
	return Connection{}, false
}

// Add appends a new connection with a fresh timestamp. Names must be unique;
// a clash returns *DuplicateNameError with nothing written.
func (c *Connections) Add(id, name string) (Connection, error) {
	connections := c.Load()
	for _, conn := range connections {
		if conn.Name == name {
			return Connection{}, &DuplicateNameError{Name: name}
		}
	}

	conn := Connection{
		ID:        id,
		Name:      name,
		DateAdded: time.Now().Format(DateFormat),
	}
	connections = append(connections, conn)

	if err := c.Save(connections); err != nil {
		return Connection{}, err
	}
	return conn, nil
}

// Remove drops the connection with the given name. Removing an unknown name
// is an error.
func (c *Connections) Remove(name string) error {
	connections := c.Load()
	for i, conn := range connections {
		if conn.Name == name {
			return c.Save(append(connections[:i], connections[i+1:]...))
		}
	}
	return fmt.Errorf("connection with name %q not found", name)
}
