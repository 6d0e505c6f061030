// Package cache implements the tag-indexed response cache of the API access
// layer.  Every cached query declares the resource tags it provides; a
// mutation invalidates tags, which drops every dependent entry and wakes the
// subscribers watching those tags so they can refetch.
package cache

import "strings"

// ListID is the tag id that stands for "the list of all X".
const ListID = "LIST"

// Tag identifies one backend resource type or instance.
type Tag struct {
	Type string
	ID   string
}

// ListTag returns {resource, "LIST"}.
func ListTag(resource string) Tag { return Tag{Type: resource, ID: ListID} }

// IDTag returns the tag of one resource instance.
func IDTag(resource, id string) Tag { return Tag{Type: resource, ID: id} }

// String renders the tag as "type:id", or just "type" for a bare type tag.
func (t Tag) String() string {
	if t.ID == "" {
		return t.Type
	}
	return t.Type + ":" + t.ID
}

// ParseTag is the inverse of String.
func ParseTag(s string) Tag {
	typ, id, _ := strings.Cut(s, ":")
	return Tag{Type: typ, ID: id}
}

// MutationTags returns the tags a create/update/delete of resource must
// invalidate: the list tag and, when id is known, the instance tag.
func MutationTags(resource, id string) []Tag {
	tags := []Tag{ListTag(resource)}
	if id != "" {
		tags = append(tags, IDTag(resource, id))
	}
	return tags
}
