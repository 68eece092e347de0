// Package transform turns validated seed records into denormalized documents.
//
// Transformers are pure: they take source tables and a timestamp and return
// documents keyed by pipeline-chosen ids, so re-running an import overwrites
// the same ids with the same content. They assume ValidateAll passed and
// silently skip values a validator would have rejected.
package transform

import "github.com/JonMunkholm/visitseed/internal/store"

// Builder assembles a sparse document: optional fields are omitted rather
// than written empty, so consumers can treat absence as "not set".
type Builder struct {
	data map[string]any
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{data: make(map[string]any)}
}

// Set writes a required field.
func (b *Builder) Set(key string, value any) *Builder {
	b.data[key] = value
	return b
}

// SetIfPresent writes value only when it is non-empty.
func (b *Builder) SetIfPresent(key, value string) *Builder {
	if value != "" {
		b.data[key] = value
	}
	return b
}

// SetIf writes value only when ok is true.
func (b *Builder) SetIf(ok bool, key string, value any) *Builder {
	if ok {
		b.data[key] = value
	}
	return b
}

// Doc returns the document with the given id.
func (b *Builder) Doc(id string) store.Document {
	return store.Document{ID: id, Data: b.data}
}
