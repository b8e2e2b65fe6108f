// Package overlay marks rendered spans with the chunk operations of a
// rendered diff, for the after view and the before view of a prompt.
package overlay

import "github.com/pstuifzand/prompt-diff/internal/diff"

// ClassSet holds the style class added per operation
type ClassSet struct {
	Insert  string
	Delete  string
	Replace string
	Ghost   string
}

// AfterClasses are the default classes for the after view
func AfterClasses() ClassSet {
	return ClassSet{
		Insert:  "insert-after",
		Delete:  "delete-after",
		Replace: "replace-after",
		Ghost:   "ghost-after",
	}
}

// BeforeClasses are the default classes for the before view
func BeforeClasses() ClassSet {
	return ClassSet{
		Insert:  "insert-before",
		Delete:  "delete-before",
		Replace: "replace-before",
		Ghost:   "ghost-before",
	}
}

// ClassFor returns the class for an operation, empty for equal and unknown ops
func (c ClassSet) ClassFor(op diff.ChunkOp) string {
	switch op {
	case diff.OpInsert:
		return c.Insert
	case diff.OpDelete:
		return c.Delete
	case diff.OpReplace:
		return c.Replace
	default:
		return ""
	}
}

// With returns a copy with non-empty overrides applied. Keys are insert,
// delete, replace and ghost.
func (c ClassSet) With(overrides map[string]string) ClassSet {
	for name, class := range overrides {
		if class == "" {
			continue
		}
		switch name {
		case "insert":
			c.Insert = class
		case "delete":
			c.Delete = class
		case "replace":
			c.Replace = class
		case "ghost":
			c.Ghost = class
		}
	}
	return c
}
