package api

import (
	"encoding/json"
	"fmt"
)

// Link is a single hypermedia link as returned in a `_links` object.
type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

// Links is the `_links` object of a resource, keyed by relation name.
type Links map[string]Link

// SelfRel is the relation name of a resource's own link.
const SelfRel = "self"

// Self returns the "self" link.
func (l Links) Self() (Link, bool) {
	if l == nil {
		return Link{}, false
	}
	link, ok := l[SelfRel]
	if !ok || link.Href == "" {
		return Link{}, false
	}
	return link, true
}

// Resource carries the hypermedia links of a backend object. Domain models
// embed it so `_links` is decoded alongside their own fields.
type Resource struct {
	Links Links `json:"_links,omitempty"`
}

// ResourceLinks implements Linked.
func (r Resource) ResourceLinks() Links {
	return r.Links
}

// Envelope is the collection wrapper used by the backend:
//
//	{"_embedded": {"serviceList": [...]}, "_links": {"self": {...}}}
//
// The embedded lists are kept raw until the caller decides which key to read.
type Envelope struct {
	Resource
	Embedded map[string]json.RawMessage `json:"_embedded,omitempty"`
}

// DecodeList decodes the first embedded list found under keys, tried in
// order, into out (a pointer to a slice). It returns the key that matched.
//
// A collection without an `_embedded` object (the backend omits it for empty
// collections) or without any of the keys decodes to an empty list and
// returns "" without error.
func (e Envelope) DecodeList(out any, keys ...string) (string, error) {
	for _, key := range keys {
		raw, ok := e.Embedded[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return key, fmt.Errorf("decode embedded %q: %w", key, err)
		}
		return key, nil
	}
	return "", json.Unmarshal([]byte("[]"), out)
}
